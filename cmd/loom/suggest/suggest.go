// Package suggestcmder provides the suggest command for proposing reference
// edges from a resource to similar items.
package suggestcmder

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/loomkb/loom/cmd/loom/runtime"
	"github.com/loomkb/loom/pkg/config"
	"github.com/loomkb/loom/pkg/suggest"
)

var (
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	kindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const suggestLongDesc string = `Propose references for a resource.

Reads the resource's text from the given file, or from stdin when no file is
provided, and proposes AI_SUGGESTED reference edges to similar indexed items.
Items the resource already links to are dropped, as is the resource itself.

Suggestions are proposals only; nothing is persisted. Accept one with
loom link add.

Examples:
  loom suggest res-123 notes/distributed-systems.md
  cat draft.md | loom suggest res-123
  loom suggest res-123 draft.md --limit 10 --min-score 0.8`

const suggestShortDesc string = "Propose references for a resource"

type suggestCommander struct {
	resourceID string
	limit      uint
	minScore   float32
}

func NewSuggestCmd() *cobra.Command {
	cmder := &suggestCommander{}

	cmd := &cobra.Command{
		Use:   "suggest <resource-id> [file]",
		Short: suggestShortDesc,
		Long:  suggestLongDesc,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.resourceID = args[0]
			return cmder.run(cmd, args)
		},
	}

	config.AddUintFlag(cmd, config.Flags, config.FlagSuggestLimit, &cmder.limit)
	cmd.Flags().Float32Var(&cmder.minScore, "min-score", 0, "Override the suggestion similarity floor")

	return cmd
}

func (c *suggestCommander) run(cmd *cobra.Command, args []string) error {
	text, err := runtime.ReadText(args, 1)
	if err != nil {
		return err
	}

	rt, err := runtime.Setup(cmd, config.FlagSuggestLimit)
	if err != nil {
		return err
	}
	defer rt.Close()

	searcher, err := rt.Searcher(cmd.Context())
	if err != nil {
		return err
	}

	graph, err := rt.Graph()
	if err != nil {
		return err
	}

	minScore := float32(rt.Cfg.Linking.SuggestThreshold)
	if c.minScore > 0 {
		minScore = c.minScore
	}

	suggester := suggest.NewSuggester(searcher, graph, rt.Logger,
		suggest.WithLimit(rt.Cfg.Linking.SuggestLimit),
		suggest.WithMinScore(minScore),
	)

	suggestions := suggester.Suggest(cmd.Context(), runtime.Owner(cmd), c.resourceID, text)
	if len(suggestions) == 0 {
		fmt.Println("No suggestions.")
		return nil
	}

	fmt.Printf("\n%s\n\n", headerStyle.Render(fmt.Sprintf("Suggested references for %s:", c.resourceID)))
	for _, s := range suggestions {
		target := s.Edge.Target
		fmt.Printf("  %s  %s %s\n",
			scoreStyle.Render(fmt.Sprintf("%.4f", s.Score)),
			idStyle.Render(target.ID()),
			kindStyle.Render("("+string(target.Kind())+")"),
		)
	}
	fmt.Printf("\n  %s\n\n", dimStyle.Render("Accept with: loom link add "+c.resourceID+" <kind> <id> --type ai_suggested"))

	return nil
}
