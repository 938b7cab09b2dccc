// Package dupescmder provides the dupes command for surfacing likely
// duplicates of an item's text.
package dupescmder

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/loomkb/loom/cmd/loom/runtime"
	"github.com/loomkb/loom/pkg/search"
)

var (
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	kindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
)

const dupesLongDesc string = `Find likely duplicates of an item.

Reads text from the given file, or from stdin when no file is provided, and
returns already-indexed items whose similarity exceeds the duplicate
threshold. The item itself is excluded from the results.

Duplicate detection is advisory: when the embedding provider or vector store
is unavailable the command prints no results rather than failing.

Examples:
  loom dupes res-123 clipping.md
  cat draft.md | loom dupes note-42
  loom dupes res-123 clipping.md --threshold 0.9`

const dupesShortDesc string = "Find likely duplicates of an item"

type dupesCommander struct {
	itemID    string
	threshold float64
	limit     int
}

func NewDupesCmd() *cobra.Command {
	cmder := &dupesCommander{}

	cmd := &cobra.Command{
		Use:   "dupes <item-id> [file]",
		Short: dupesShortDesc,
		Long:  dupesLongDesc,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.itemID = args[0]
			return cmder.run(cmd, args)
		},
	}

	cmd.Flags().Float64Var(&cmder.threshold, "threshold", 0, "Override the duplicate similarity threshold")
	cmd.Flags().IntVarP(&cmder.limit, "limit", "n", 0, "Override the maximum number of duplicates")

	return cmd
}

func (c *dupesCommander) run(cmd *cobra.Command, args []string) error {
	text, err := runtime.ReadText(args, 1)
	if err != nil {
		return err
	}

	rt, err := runtime.Setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	searcher, err := rt.Searcher(cmd.Context())
	if err != nil {
		return err
	}

	threshold := rt.Cfg.Linking.DuplicateThreshold
	if c.threshold > 0 {
		threshold = c.threshold
	}

	limit := rt.Cfg.Linking.DuplicateLimit
	if c.limit > 0 {
		limit = c.limit
	}

	detector := search.NewDetector(searcher, rt.Logger,
		search.WithDuplicateThreshold(float32(threshold)),
		search.WithDuplicateLimit(limit),
	)

	results := detector.FindDuplicates(cmd.Context(), runtime.Owner(cmd), c.itemID, text)
	if len(results) == 0 {
		fmt.Println("No duplicates found.")
		return nil
	}

	fmt.Printf("\n%s\n\n", headerStyle.Render("Possible duplicates:"))
	for _, result := range results {
		fmt.Printf("  %s  %s %s\n",
			scoreStyle.Render(fmt.Sprintf("%.4f", result.Score)),
			idStyle.Render(result.ItemID),
			kindStyle.Render("("+string(result.Kind)+")"),
		)
	}
	fmt.Println()

	return nil
}
