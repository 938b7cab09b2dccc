package indexcmder

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loomkb/loom/cmd/loom/runtime"
	"github.com/loomkb/loom/pkg/cliui"
	"github.com/loomkb/loom/pkg/config"
)

const addLongDesc string = `Embed and index an item's text.

Reads text from the given file, or from stdin when no file is provided,
embeds it, and upserts the embedding into the vector store under the
current owner. When the text is unchanged since the last indexing the
item is skipped.

Examples:
  loom index add resource res-123 notes/distributed-systems.md
  cat clipping.txt | loom index add note note-42`

const addShortDesc string = "Embed and index an item's text"

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <kind> <item-id> [file]",
		Short: addShortDesc,
		Long:  addLongDesc,
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, args)
		},
	}

	// Values flow through viper once bound in runtime.Setup.
	var model, provider string
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingModel, &model)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorStoreProv, &provider)

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	itemID := args[1]

	text, err := runtime.ReadText(args, 2)
	if err != nil {
		return err
	}

	rt, err := runtime.Setup(cmd, config.FlagEmbeddingModel, config.FlagVectorStoreProv)
	if err != nil {
		return err
	}
	defer rt.Close()

	indexer, err := rt.Indexer(cmd.Context())
	if err != nil {
		return err
	}

	owner := runtime.Owner(cmd)

	var indexed bool
	err = cliui.Step(os.Stdout, fmt.Sprintf("Indexing %s %s", kind, itemID), func() error {
		var stepErr error
		indexed, stepErr = indexer.IndexItem(cmd.Context(), owner, itemID, kind, text)
		return stepErr
	})
	if err != nil {
		return err
	}

	if indexed {
		fmt.Printf("  %s Indexed %s\n", cliui.SuccessMark, cliui.KeyStyle.Render(itemID))
	} else {
		fmt.Printf("  %s\n", cliui.DimStyle.Render("Text unchanged. Skipped."))
	}

	return nil
}
