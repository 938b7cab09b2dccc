package indexcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loomkb/loom/cmd/loom/runtime"
	"github.com/loomkb/loom/pkg/cliui"
)

const rmLongDesc string = `Remove an item from the vector index.

Deletes the stored embedding for the given item under the current owner.
Removing an item that is not indexed is not an error.

Examples:
  loom index rm resource res-123
  loom index rm note note-42`

const rmShortDesc string = "Remove an item from the vector index"

func newRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <kind> <item-id>",
		Short: rmShortDesc,
		Long:  rmLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRm(cmd, args)
		},
	}

	return cmd
}

func runRm(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	itemID := args[1]

	rt, err := runtime.Setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	indexer, err := rt.Indexer(cmd.Context())
	if err != nil {
		return err
	}

	if err := indexer.RemoveItem(cmd.Context(), runtime.Owner(cmd), itemID, kind); err != nil {
		return err
	}

	fmt.Printf("  %s Removed %s\n", cliui.SuccessMark, cliui.KeyStyle.Render(itemID))
	return nil
}
