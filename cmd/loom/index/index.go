// Package indexcmder provides the index command for embedding and indexing
// item text in the vector store.
package indexcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loomkb/loom/pkg/vector"
)

const indexLongDesc string = `Manage the vector index.

Items are embedded with the configured embedding provider and stored in the
configured vector store, scoped to the current owner. Re-indexing unchanged
text is a no-op: the stored text hash is compared before embedding.

Use subcommands to add or remove items:
  loom index add <kind> <item-id> [file]    Embed and index an item's text
  loom index rm <kind> <item-id>            Remove an item from the index

Examples:
  loom index add resource res-123 notes/distributed-systems.md
  cat clipping.txt | loom index add note note-42
  loom index rm resource res-123`

const indexShortDesc string = "Manage the vector index"

func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: indexShortDesc,
		Long:  indexLongDesc,
	}

	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newRmCmd())

	return cmd
}

// parseKind validates a kind argument.
func parseKind(arg string) (vector.Kind, error) {
	kind := vector.Kind(arg)
	if !kind.Valid() {
		return "", fmt.Errorf("unknown item kind: %q (valid kinds: %s, %s)",
			arg, vector.KindResource, vector.KindNote)
	}
	return kind, nil
}
