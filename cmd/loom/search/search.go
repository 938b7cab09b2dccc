// Package searchcmder provides the search command for semantic search over
// indexed items.
package searchcmder

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/loomkb/loom/cmd/loom/runtime"
	"github.com/loomkb/loom/pkg/config"
	"github.com/loomkb/loom/pkg/search"
)

var (
	rankStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	kindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
)

const searchLongDesc string = `Search indexed items by meaning.

Embeds the query text and returns the most similar indexed items for the
current owner, ordered by similarity. Results never include items indexed
under a different owner.

Use --quiet to output only item IDs, one per line, for piping into other
commands.

Examples:
  loom search "spaced repetition research"
  loom search "kafka consumer groups" --limit 10
  loom search "gardening notes" --min-score 0.6
  loom link add res-1 resource $(loom search "deep work" --quiet --limit 1)`

const searchShortDesc string = "Search indexed items by meaning"

type searchCommander struct {
	query    string
	limit    uint
	minScore float32
	quiet    bool
}

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]
			return cmder.run(cmd)
		},
	}

	config.AddUintFlag(cmd, config.Flags, config.FlagSearchLimit, &cmder.limit)
	cmd.Flags().Float32Var(&cmder.minScore, "min-score", 0, "Minimum similarity score in [0, 1]")
	cmd.Flags().BoolVarP(&cmder.quiet, "quiet", "q", false, "Output only item IDs, one per line (for piping)")

	return cmd
}

func (c *searchCommander) run(cmd *cobra.Command) error {
	rt, err := runtime.Setup(cmd, config.FlagSearchLimit)
	if err != nil {
		return err
	}
	defer rt.Close()

	searcher, err := rt.Searcher(cmd.Context())
	if err != nil {
		return err
	}

	results, err := searcher.FindSimilar(
		cmd.Context(),
		runtime.Owner(cmd),
		c.query,
		rt.Cfg.Linking.SearchLimit,
		c.minScore,
	)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		if !c.quiet {
			fmt.Println("No results found.")
		}
		return nil
	}

	if c.quiet {
		for _, result := range results {
			fmt.Println(result.ItemID)
		}
		return nil
	}

	fmt.Printf("\n%s %s\n\n",
		headerStyle.Render("Search Results for:"),
		idStyle.Render(fmt.Sprintf("%q", c.query)),
	)

	for _, result := range results {
		printResult(result)
	}

	return nil
}

func printResult(result search.Result) {
	fmt.Printf("  %s  %s  %s %s\n",
		rankStyle.Render(fmt.Sprintf("#%d", result.Rank)),
		scoreStyle.Render(fmt.Sprintf("score: %.4f", result.Score)),
		idStyle.Render(result.ItemID),
		kindStyle.Render("("+string(result.Kind)+")"),
	)
}
