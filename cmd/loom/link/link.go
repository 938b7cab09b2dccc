// Package linkcmder provides the link command for managing reference edges.
package linkcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loomkb/loom/pkg/refgraph"
)

const linkLongDesc string = `Manage reference edges between content items.

Edges are directed: the source is always a resource; the target may be a
resource, project, area, or note. Each edge carries a reference type and
optional context and snippet text.

Use subcommands to add, list, or remove edges:
  loom link add <source-id> <target-kind> <target-id>   Create an edge
  loom link list <resource-id>                          List a resource's edges
  loom link rm <edge-id>                                Delete an edge

Examples:
  loom link add res-1 note note-42 --type manual --context "background reading"
  loom link list res-1 --in --out
  loom link rm 6e1f...`

const linkShortDesc string = "Manage reference edges"

func NewLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: linkShortDesc,
		Long:  linkLongDesc,
	}

	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newRmCmd())

	return cmd
}

// parseType maps a lowercase CLI type name to a reference type.
func parseType(arg string) (refgraph.Type, error) {
	typ := refgraph.Type(strings.ToUpper(arg))
	if !typ.Valid() {
		return "", fmt.Errorf("unknown reference type: %q (valid: manual, ai_suggested, auto_generated, citation, mention, related)", arg)
	}
	return typ, nil
}

// parseTargetKind validates a target kind argument.
func parseTargetKind(arg string) (refgraph.TargetKind, error) {
	kind := refgraph.TargetKind(arg)
	if !kind.Valid() {
		return "", fmt.Errorf("unknown target kind: %q (valid: resource, project, area, note)", arg)
	}
	return kind, nil
}
