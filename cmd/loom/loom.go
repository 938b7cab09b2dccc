// Package loomcmder
package loomcmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/loomkb/loom/cmd/loom/config"
	dupescmder "github.com/loomkb/loom/cmd/loom/dupes"
	indexcmder "github.com/loomkb/loom/cmd/loom/index"
	linkcmder "github.com/loomkb/loom/cmd/loom/link"
	searchcmder "github.com/loomkb/loom/cmd/loom/search"
	suggestcmder "github.com/loomkb/loom/cmd/loom/suggest"
	summarycmder "github.com/loomkb/loom/cmd/loom/summary"
	versioncmder "github.com/loomkb/loom/cmd/version"
)

const loomLongDesc string = `Loom links the resources, notes, projects, and areas in your knowledge
base by meaning rather than by hand.

Index content, then search it, surface duplicates, and accept suggested
references:
  loom index add       Embed and index an item's text
  loom search          Find items similar to a query
  loom dupes           Find likely duplicates of an item
  loom suggest         Propose references for a resource
  loom link            Manage reference edges directly
  loom summary         Manage versioned summaries`

const loomShortDesc string = "Loom - semantic linking for your knowledge base"

func NewLoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loom",
		Short: loomShortDesc,
		Long:  loomLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .loom config directory")
	cmd.PersistentFlags().String("owner", "local", "Owner scope for all operations")

	// Add subcommands
	cmd.AddCommand(versioncmder.NewVersionCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(indexcmder.NewIndexCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(dupescmder.NewDupesCmd())
	cmd.AddCommand(suggestcmder.NewSuggestCmd())
	cmd.AddCommand(linkcmder.NewLinkCmd())
	cmd.AddCommand(summarycmder.NewSummaryCmd())

	return cmd
}
