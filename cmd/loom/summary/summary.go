// Package summarycmder provides the summary command for managing versioned
// content summaries.
package summarycmder

import (
	"github.com/spf13/cobra"

	"github.com/loomkb/loom/pkg/summary"
)

const summaryLongDesc string = `Manage versioned content summaries.

Each resource can carry summaries of several kinds (a type and length
composite, e.g. overview:brief). Summaries of the same kind form a version
chain: regenerating with --preserve appends a new version that points at the
one it superseded; regenerating without it overwrites the version in place.

Use subcommands to add, show, regenerate, or trace summaries:
  loom summary add <resource-id> [file]       Add a new summary version
  loom summary show <resource-id>             Show the latest summary
  loom summary regen <version-id> [file]      Regenerate a summary
  loom summary history <version-id>           Walk a version chain

Examples:
  loom summary add res-1 summary.md --type overview --length brief
  loom summary show res-1 --type overview --length brief
  loom summary regen 6e1f... new-summary.md --preserve
  loom summary history 6e1f...`

const summaryShortDesc string = "Manage versioned content summaries"

func NewSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: summaryShortDesc,
		Long:  summaryLongDesc,
	}

	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newRegenCmd())
	cmd.AddCommand(newHistoryCmd())

	return cmd
}

// kindFlags registers the --type and --length flags shared by summary
// subcommands that address a (resource, kind) group.
func kindFlags(cmd *cobra.Command, kind *summary.Kind) {
	cmd.Flags().StringVar(&kind.Type, "type", "overview", "Summary type")
	cmd.Flags().StringVar(&kind.Length, "length", "brief", "Summary length")
}
