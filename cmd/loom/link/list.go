package linkcmder

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/loomkb/loom/cmd/loom/runtime"
	"github.com/loomkb/loom/pkg/refgraph"
	"github.com/loomkb/loom/pkg/utils"
)

var (
	idStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	typeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	arrowOut  = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("->")
	arrowIn   = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("<-")
)

const listLongDesc string = `List a resource's reference edges.

Shows edges where the given resource is the source (--out), the target
(--in), or both. Defaults to both directions. Results are ordered newest
first.

Examples:
  loom link list res-1
  loom link list res-1 --out
  loom link list res-1 --in --type citation`

const listShortDesc string = "List a resource's reference edges"

type listCommander struct {
	out     bool
	in      bool
	refType string
	limit   int
}

func newListCmd() *cobra.Command {
	cmder := &listCommander{}

	cmd := &cobra.Command{
		Use:   "list <resource-id>",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&cmder.out, "out", false, "Include outgoing edges")
	cmd.Flags().BoolVar(&cmder.in, "in", false, "Include incoming edges")
	cmd.Flags().StringVarP(&cmder.refType, "type", "t", "", "Filter by reference type")
	cmd.Flags().IntVarP(&cmder.limit, "limit", "n", 0, "Maximum number of edges to return")

	return cmd
}

func (c *listCommander) run(cmd *cobra.Command, resourceID string) error {
	// Neither flag means both directions.
	if !c.out && !c.in {
		c.out = true
		c.in = true
	}

	opts := refgraph.ListOptions{
		IncludeOutgoing: c.out,
		IncludeIncoming: c.in,
		Limit:           c.limit,
	}

	if c.refType != "" {
		typ, err := parseType(c.refType)
		if err != nil {
			return err
		}
		opts.Type = typ
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

	edges, err := graph.List(cmd.Context(), runtime.Owner(cmd), resourceID, opts)
	if err != nil {
		return err
	}

	if len(edges) == 0 {
		fmt.Println("No edges found.")
		return nil
	}

	for _, edge := range edges {
		printEdge(resourceID, edge)
	}

	return nil
}

func printEdge(resourceID string, edge refgraph.Edge) {
	arrow := arrowOut
	other := fmt.Sprintf("%s (%s)", edge.Target.ID(), edge.Target.Kind())
	if edge.SourceID != resourceID {
		arrow = arrowIn
		other = edge.SourceID
	}

	line := fmt.Sprintf("  %s %s  %s  %s",
		arrow,
		idStyle.Render(other),
		typeStyle.Render(string(edge.Type)),
		dimStyle.Render(edge.ID),
	)

	if edge.Context != "" {
		line += "  " + dimStyle.Render(utils.Truncate(edge.Context, 40))
	}

	fmt.Println(line)
}
