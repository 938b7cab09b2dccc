package linkcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loomkb/loom/cmd/loom/runtime"
	"github.com/loomkb/loom/pkg/cliui"
	"github.com/loomkb/loom/pkg/refgraph"
)

const addLongDesc string = `Create a reference edge.

Creates a typed, directed edge from a source resource to a target item.
The source must be a resource owned by the current owner; the target may
be a resource, project, area, or note.

Examples:
  loom link add res-1 note note-42
  loom link add res-1 resource res-2 --type citation --snippet "p. 113"
  loom link add res-1 project proj-7 --type related --context "Q3 planning"`

const addShortDesc string = "Create a reference edge"

type addCommander struct {
	refType string
	context string
	snippet string
}

func newAddCmd() *cobra.Command {
	cmder := &addCommander{}

	cmd := &cobra.Command{
		Use:   "add <source-id> <target-kind> <target-id>",
		Short: addShortDesc,
		Long:  addLongDesc,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args)
		},
	}

	cmd.Flags().StringVarP(&cmder.refType, "type", "t", "manual", "Reference type (manual, ai_suggested, auto_generated, citation, mention, related)")
	cmd.Flags().StringVar(&cmder.context, "context", "", "Why the link exists")
	cmd.Flags().StringVar(&cmder.snippet, "snippet", "", "Text the link was derived from")

	return cmd
}

func (c *addCommander) run(cmd *cobra.Command, args []string) error {
	sourceID := args[0]

	targetKind, err := parseTargetKind(args[1])
	if err != nil {
		return err
	}

	target, err := refgraph.NewTarget(targetKind, args[2])
	if err != nil {
		return err
	}

	typ, err := parseType(c.refType)
	if err != nil {
		return err
	}

	rt, err := runtime.Setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	graph, err := rt.Graph()
	if err != nil {
		return err
	}

	edge, err := graph.Create(cmd.Context(), runtime.Owner(cmd), sourceID, target, typ, c.context, c.snippet)
	if err != nil {
		return err
	}

	fmt.Printf("  %s Linked %s %s %s %s\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(sourceID),
		cliui.DimStyle.Render("->"),
		cliui.KeyStyle.Render(target.ID()),
		cliui.DimStyle.Render("("+edge.ID+")"),
	)
	return nil
}
