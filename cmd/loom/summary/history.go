package summarycmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loomkb/loom/cmd/loom/runtime"
	"github.com/loomkb/loom/pkg/cliui"
	"github.com/loomkb/loom/pkg/utils"
)

const historyLongDesc string = `Walk a summary version chain.

Prints the chain starting at the given version and following predecessor
links back to the root, newest first.

Examples:
  loom summary history 6e1f...`

const historyShortDesc string = "Walk a summary version chain"

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <version-id>",
		Short: historyShortDesc,
		Long:  historyLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, args[0])
		},
	}

	return cmd
}

func runHistory(cmd *cobra.Command, versionID string) error {
	rt, err := runtime.Setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	chain, err := rt.Chain()
	if err != nil {
		return err
	}

	versions, err := chain.History(cmd.Context(), runtime.Owner(cmd), versionID)
	if err != nil {
		return err
	}

	for i, v := range versions {
		marker := " ├─"
		if i == len(versions)-1 {
			marker = " └─"
		}

		fmt.Printf("  %s %s  %s  %s\n",
			cliui.DimStyle.Render(marker),
			cliui.KeyStyle.Render(v.ID),
			cliui.DimStyle.Render(v.GeneratedAt.Format("2006-01-02 15:04")),
			cliui.ValueStyle.Render(utils.Truncate(v.Content, 48)),
		)
	}

	return nil
}
