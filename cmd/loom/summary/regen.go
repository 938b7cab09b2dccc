package summarycmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loomkb/loom/cmd/loom/runtime"
	"github.com/loomkb/loom/pkg/cliui"
)

const regenLongDesc string = `Regenerate a summary version.

Reads replacement content from the given file, or from stdin when no file
is provided. By default the version is overwritten in place and its history
is lost. With --preserve the original is kept and a new version is appended
to the chain, pointing at the version it superseded.

Examples:
  loom summary regen 6e1f... new-summary.md
  cat better.md | loom summary regen 6e1f... --preserve`

const regenShortDesc string = "Regenerate a summary version"

type regenCommander struct {
	preserve bool
}

func newRegenCmd() *cobra.Command {
	cmder := &regenCommander{}

	cmd := &cobra.Command{
		Use:   "regen <version-id> [file]",
		Short: regenShortDesc,
		Long:  regenLongDesc,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args)
		},
	}

	cmd.Flags().BoolVarP(&cmder.preserve, "preserve", "p", false, "Keep the original and append a new version")

	return cmd
}

func (c *regenCommander) run(cmd *cobra.Command, args []string) error {
	versionID := args[0]

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

	// Regenerate resolves the version's resource itself; the version id
	// carries enough context.
	version, err := chain.Get(cmd.Context(), runtime.Owner(cmd), versionID)
	if err != nil {
		return err
	}

	result, err := chain.Regenerate(cmd.Context(), runtime.Owner(cmd), version.ResourceID, versionID, content, c.preserve)
	if err != nil {
		return err
	}

	if c.preserve {
		fmt.Printf("  %s Appended %s %s\n",
			cliui.SuccessMark,
			cliui.KeyStyle.Render(result.Version.ID),
			cliui.DimStyle.Render("(superseded "+versionID+")"),
		)
	} else {
		fmt.Printf("  %s Overwrote %s\n", cliui.SuccessMark, cliui.KeyStyle.Render(versionID))
	}

	return nil
}
