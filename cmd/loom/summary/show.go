package summarycmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loomkb/loom/cmd/loom/runtime"
	"github.com/loomkb/loom/pkg/cliui"
	"github.com/loomkb/loom/pkg/summary"
)

const showLongDesc string = `Show the latest summary for a resource.

Displays the current version of the resource's (type, length) summary
group, rendered as markdown. Use --raw to print the content unrendered.

Examples:
  loom summary show res-1
  loom summary show res-1 --type key_points --length detailed --raw`

const showShortDesc string = "Show the latest summary for a resource"

type showCommander struct {
	kind summary.Kind
	raw  bool
}

func newShowCmd() *cobra.Command {
	cmder := &showCommander{}

	cmd := &cobra.Command{
		Use:   "show <resource-id>",
		Short: showShortDesc,
		Long:  showLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args[0])
		},
	}

	kindFlags(cmd, &cmder.kind)
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print raw content without markdown rendering")

	return cmd
}

func (c *showCommander) run(cmd *cobra.Command, resourceID string) error {
	rt, err := runtime.Setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	chain, err := rt.Chain()
	if err != nil {
		return err
	}

	version, err := chain.Latest(cmd.Context(), runtime.Owner(cmd), resourceID, c.kind)
	if err != nil {
		return err
	}

	fmt.Printf("\n  %s %s  %s %s\n\n",
		cliui.KeyStyle.Render("Summary:"),
		cliui.ValueStyle.Render(version.ID),
		cliui.DimStyle.Render(c.kind.String()),
		cliui.DimStyle.Render(version.GeneratedAt.Format("2006-01-02 15:04")),
	)

	if c.raw {
		fmt.Println(version.Content)
		return nil
	}

	rendered, err := cliui.RenderMarkdown(version.Content)
	if err != nil {
		// Fall back to raw content if the terminal renderer fails.
		fmt.Println(version.Content)
		return nil
	}

	fmt.Println(rendered)
	return nil
}
