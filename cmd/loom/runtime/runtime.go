// Package runtime wires shared dependencies for loom commands: config
// resolution through viper, the logger, and the embedder, vector driver,
// event publisher, and sqlite-backed stores built from that config.
package runtime

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/loomkb/loom/cmd/loom/sqlitepath"
	"github.com/loomkb/loom/pkg/config"
	"github.com/loomkb/loom/pkg/embeddings"
	embeddingutils "github.com/loomkb/loom/pkg/embeddings/utils"
	"github.com/loomkb/loom/pkg/eventstream"
	kafkastream "github.com/loomkb/loom/pkg/eventstream/kafka"
	nopstream "github.com/loomkb/loom/pkg/eventstream/nop"
	"github.com/loomkb/loom/pkg/index"
	"github.com/loomkb/loom/pkg/logger"
	"github.com/loomkb/loom/pkg/refgraph"
	refgraphsqlite "github.com/loomkb/loom/pkg/refgraph/sqlite"
	"github.com/loomkb/loom/pkg/search"
	"github.com/loomkb/loom/pkg/summary"
	summarysqlite "github.com/loomkb/loom/pkg/summary/sqlite"
	"github.com/loomkb/loom/pkg/vector"
	vectorutils "github.com/loomkb/loom/pkg/vector/utils"
)

// Runtime bundles the resolved config and logger plus lazily-built
// dependencies. Call Close when the command finishes.
type Runtime struct {
	Cfg    *config.Config
	Logger *zap.Logger

	embedder embeddings.Embedder
	vectors  vector.Driver
	events   eventstream.Publisher

	closers []func() error
}

// Setup resolves configuration for a command and builds the logger.
// flagKeys name entries in config.Flags that the command registered;
// they are bound into viper so precedence is flag > env > file > default.
func Setup(cmd *cobra.Command, flagKeys ...string) (*Runtime, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, err
	}

	config.BindRegisteredFlags(v, cmd, config.Flags, flagKeys)

	return &Runtime{
		Cfg:    configFromViper(v),
		Logger: logger.NewLogger(debug),
	}, nil
}

// configFromViper materializes a Config from resolved viper values.
func configFromViper(v *viper.Viper) *config.Config {
	cfg := config.NewDefaultConfig()

	cfg.Storage.SQLitePath = v.GetString("storage.sqlite_path")

	cfg.VectorStore.Provider = v.GetString("vector_store.provider")
	cfg.VectorStore.Target = v.GetString("vector_store.target")

	cfg.Embedding.Provider = v.GetString("embedding.provider")
	cfg.Embedding.Target = v.GetString("embedding.target")
	cfg.Embedding.Model = v.GetString("embedding.model")
	cfg.Embedding.Dimensions = v.GetInt("embedding.dimensions")

	cfg.Linking.DuplicateThreshold = v.GetFloat64("linking.duplicate_threshold")
	cfg.Linking.DuplicateLimit = v.GetInt("linking.duplicate_limit")
	cfg.Linking.SuggestThreshold = v.GetFloat64("linking.suggest_threshold")
	cfg.Linking.SuggestLimit = v.GetInt("linking.suggest_limit")
	cfg.Linking.SearchLimit = v.GetInt("linking.search_limit")

	cfg.Events.Provider = v.GetString("events.provider")
	cfg.Events.Brokers = v.GetString("events.brokers")
	cfg.Events.Topic = v.GetString("events.topic")

	return cfg
}

// Owner returns the owner scope for a command, from the root --owner flag.
func Owner(cmd *cobra.Command) string {
	owner, _ := cmd.Flags().GetString("owner")
	if owner == "" {
		owner = "local"
	}
	return owner
}

// ReadText returns text content for a command: from the file at args[idx]
// when present, otherwise from stdin.
func ReadText(args []string, idx int) (string, error) {
	if len(args) > idx {
		data, err := os.ReadFile(args[idx])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[idx], err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

// Embedder builds (once) the configured embedder.
func (r *Runtime) Embedder() (embeddings.Embedder, error) {
	if r.embedder != nil {
		return r.embedder, nil
	}

	emb, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: r.Cfg.Embedding.Provider,
		TargetURL:    r.Cfg.Embedding.Target,
		Model:        r.Cfg.Embedding.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	r.embedder = emb
	r.closers = append(r.closers, emb.Close)
	return emb, nil
}

// Vectors builds (once) the configured vector driver.
func (r *Runtime) Vectors(ctx context.Context) (vector.Driver, error) {
	if r.vectors != nil {
		return r.vectors, nil
	}

	target := r.Cfg.VectorStore.Target
	if r.Cfg.VectorStore.Provider == "sqlite" {
		var err error
		target, err = sqlitepath.ResolveDataPath(target)
		if err != nil {
			return nil, fmt.Errorf("resolving vector store path: %w", err)
		}
	}

	drv, err := vectorutils.NewVectorDriver(ctx, &vectorutils.NewVectorDriverOpts{
		ProviderType: r.Cfg.VectorStore.Provider,
		Target:       target,
		Dimensions:   r.Cfg.Embedding.Dimensions,
		Logger:       r.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating vector driver: %w", err)
	}

	r.vectors = drv
	r.closers = append(r.closers, drv.Close)
	return drv, nil
}

// Events builds (once) the configured event publisher.
func (r *Runtime) Events() (eventstream.Publisher, error) {
	if r.events != nil {
		return r.events, nil
	}

	var pub eventstream.Publisher
	switch r.Cfg.Events.Provider {
	case "", "nop":
		pub = nopstream.NewPublisher()
	case "kafka":
		var err error
		pub, err = kafkastream.NewPublisher(kafkastream.Config{
			Brokers: splitBrokers(r.Cfg.Events.Brokers),
			Topic:   r.Cfg.Events.Topic,
		}, r.Logger)
		if err != nil {
			return nil, fmt.Errorf("creating kafka publisher: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported events provider: %s", r.Cfg.Events.Provider)
	}

	r.events = pub
	r.closers = append(r.closers, pub.Close)
	return pub, nil
}

func splitBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Searcher builds a semantic searcher over the configured embedder and
// vector driver.
func (r *Runtime) Searcher(ctx context.Context) (*search.Searcher, error) {
	emb, err := r.Embedder()
	if err != nil {
		return nil, err
	}

	drv, err := r.Vectors(ctx)
	if err != nil {
		return nil, err
	}

	return search.NewSearcher(emb, drv, r.Logger), nil
}

// Indexer builds an indexer over the configured embedder, vector driver,
// and event publisher.
func (r *Runtime) Indexer(ctx context.Context) (*index.Indexer, error) {
	emb, err := r.Embedder()
	if err != nil {
		return nil, err
	}

	drv, err := r.Vectors(ctx)
	if err != nil {
		return nil, err
	}

	events, err := r.Events()
	if err != nil {
		return nil, err
	}

	return index.NewIndexer(emb, drv, events, r.Logger), nil
}

// Graph builds a reference graph over the sqlite edge store.
func (r *Runtime) Graph() (*refgraph.Graph, error) {
	path, err := sqlitepath.ResolveSQLitePath(r.Cfg.Storage.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("resolving sqlite path: %w", err)
	}

	store, err := refgraphsqlite.NewStore(path)
	if err != nil {
		return nil, fmt.Errorf("opening edge store: %w", err)
	}
	r.closers = append(r.closers, store.Close)

	events, err := r.Events()
	if err != nil {
		return nil, err
	}

	return refgraph.NewGraph(store, localOwners{}, events, r.Logger), nil
}

// Chain builds a summary version chain over the sqlite summary store.
func (r *Runtime) Chain() (*summary.Chain, error) {
	path, err := sqlitepath.ResolveSQLitePath(r.Cfg.Storage.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("resolving sqlite path: %w", err)
	}

	store, err := summarysqlite.NewStore(path)
	if err != nil {
		return nil, fmt.Errorf("opening summary store: %w", err)
	}
	r.closers = append(r.closers, store.Close)

	events, err := r.Events()
	if err != nil {
		return nil, err
	}

	return summary.NewChain(store, events, r.Logger), nil
}

// Close releases everything the runtime opened, in reverse order.
func (r *Runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		_ = r.closers[i]()
	}
	_ = r.Logger.Sync()
}

// localOwners treats every resource as owned by the invoking user. The CLI
// operates a single local tenant; ownership enforcement matters when these
// packages are embedded in a multi-tenant application.
type localOwners struct{}

func (localOwners) OwnsResource(_ context.Context, _, _ string) (bool, error) {
	return true, nil
}
