package config

const (
	defaultSQLitePath = "loom.db"

	defaultVectorProvider = "sqlite"
	defaultVectorTarget   = "loom-vec.db"

	defaultEmbeddingProvider   = "ollama"
	defaultEmbeddingTarget     = "http://localhost:11434"
	defaultEmbeddingModel      = "nomic-embed-text"
	defaultEmbeddingDimensions = 768

	defaultDuplicateThreshold = 0.8
	defaultDuplicateLimit     = 5
	defaultSuggestThreshold   = 0.7
	defaultSuggestLimit       = 5
	defaultSearchLimit        = 10

	defaultEventsProvider = "nop"
	defaultEventsTopic    = "loom.link-events"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Storage: StorageConfig{
			SQLitePath: defaultSQLitePath,
		},
		VectorStore: VectorStoreConfig{
			Provider: defaultVectorProvider,
			Target:   defaultVectorTarget,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		Linking: LinkingConfig{
			DuplicateThreshold: defaultDuplicateThreshold,
			DuplicateLimit:     defaultDuplicateLimit,
			SuggestThreshold:   defaultSuggestThreshold,
			SuggestLimit:       defaultSuggestLimit,
			SearchLimit:        defaultSearchLimit,
		},
		Events: EventsConfig{
			Provider: defaultEventsProvider,
			Topic:    defaultEventsTopic,
		},
	}
}
