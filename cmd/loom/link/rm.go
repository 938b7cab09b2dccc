package linkcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loomkb/loom/cmd/loom/runtime"
	"github.com/loomkb/loom/pkg/cliui"
)

const rmLongDesc string = `Delete a reference edge.

Deletes the edge with the given ID. Edge IDs are shown by loom link list.

Examples:
  loom link rm 6e1f0b9a-...`

const rmShortDesc string = "Delete a reference edge"

func newRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <edge-id>",
		Short: rmShortDesc,
		Long:  rmLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRm(cmd, args[0])
		},
	}

	return cmd
}

func runRm(cmd *cobra.Command, edgeID string) error {
	rt, err := runtime.Setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	graph, err := rt.Graph()
	if err != nil {
		return err
	}

	if err := graph.Delete(cmd.Context(), runtime.Owner(cmd), edgeID); err != nil {
		return err
	}

	fmt.Printf("  %s Deleted %s\n", cliui.SuccessMark, cliui.KeyStyle.Render(edgeID))
	return nil
}
