package summarycmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loomkb/loom/cmd/loom/runtime"
	"github.com/loomkb/loom/pkg/cliui"
	"github.com/loomkb/loom/pkg/summary"
)

const addLongDesc string = `Add a new summary version.

Reads summary content from the given file, or from stdin when no file is
provided, and stores it as the latest version for the resource's
(type, length) group. When the group already has versions the new one is
chained onto the current latest.

Examples:
  loom summary add res-1 summary.md
  cat summary.md | loom summary add res-1 --type key_points --length detailed`

const addShortDesc string = "Add a new summary version"

type addCommander struct {
	kind summary.Kind
}

func newAddCmd() *cobra.Command {
	cmder := &addCommander{}

	cmd := &cobra.Command{
		Use:   "add <resource-id> [file]",
		Short: addShortDesc,
		Long:  addLongDesc,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args)
		},
	}

	kindFlags(cmd, &cmder.kind)

	return cmd
}

func (c *addCommander) run(cmd *cobra.Command, args []string) error {
	resourceID := args[0]

	content, err := runtime.ReadText(args, 1)
	if err != nil {
		return err
	}

	rt, err := runtime.Setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	chain, err := rt.Chain()
	if err != nil {
		return err
	}

	version, err := chain.Create(cmd.Context(), runtime.Owner(cmd), resourceID, c.kind, content)
	if err != nil {
		return err
	}

	fmt.Printf("  %s Added %s summary %s\n",
		cliui.SuccessMark,
		cliui.ValueStyle.Render(c.kind.String()),
		cliui.KeyStyle.Render(version.ID),
	)
	return nil
}
