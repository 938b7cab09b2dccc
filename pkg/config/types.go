package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent loom configuration stored as config.toml
// in the .loom/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Storage     StorageConfig     `toml:"storage"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	Linking     LinkingConfig     `toml:"linking"`
	Events      EventsConfig      `toml:"events"`
}

// StorageConfig holds the SQLite path shared by the edge and summary stores.
type StorageConfig struct {
	SQLitePath string `toml:"sqlite_path,omitempty"`
}

// VectorStoreConfig holds vector store settings.
type VectorStoreConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions int    `toml:"dimensions,omitempty"`
}

// LinkingConfig holds similarity thresholds and result limits for
// duplicate detection and reference suggestions.
type LinkingConfig struct {
	DuplicateThreshold float64 `toml:"duplicate_threshold,omitempty"`
	DuplicateLimit     int     `toml:"duplicate_limit,omitempty"`
	SuggestThreshold   float64 `toml:"suggest_threshold,omitempty"`
	SuggestLimit       int     `toml:"suggest_limit,omitempty"`
	SearchLimit        int     `toml:"search_limit,omitempty"`
}

// EventsConfig holds eventstream publisher settings.
type EventsConfig struct {
	Provider string `toml:"provider,omitempty"`
	Brokers  string `toml:"brokers,omitempty"`
	Topic    string `toml:"topic,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.sqlite_path": {
		get: func(c *Config) string { return c.Storage.SQLitePath },
		set: func(c *Config, v string) error { c.Storage.SQLitePath = v; return nil },
	},
	"vector_store.provider": {
		get: func(c *Config) string { return c.VectorStore.Provider },
		set: func(c *Config, v string) error { c.VectorStore.Provider = v; return nil },
	},
	"vector_store.target": {
		get: func(c *Config) string { return c.VectorStore.Target },
		set: func(c *Config, v string) error { c.VectorStore.Target = v; return nil },
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"embedding.dimensions": {
		get: func(c *Config) string {
			if c.Embedding.Dimensions == 0 {
				return ""
			}
			return strconv.Itoa(c.Embedding.Dimensions)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid value for embedding.dimensions: %q", v)
			}
			c.Embedding.Dimensions = n
			return nil
		},
	},
	"linking.duplicate_threshold": {
		get: func(c *Config) string { return formatThreshold(c.Linking.DuplicateThreshold) },
		set: func(c *Config, v string) error {
			return setThreshold(&c.Linking.DuplicateThreshold, "linking.duplicate_threshold", v)
		},
	},
	"linking.duplicate_limit": {
		get: func(c *Config) string { return formatLimit(c.Linking.DuplicateLimit) },
		set: func(c *Config, v string) error {
			return setLimit(&c.Linking.DuplicateLimit, "linking.duplicate_limit", v)
		},
	},
	"linking.suggest_threshold": {
		get: func(c *Config) string { return formatThreshold(c.Linking.SuggestThreshold) },
		set: func(c *Config, v string) error {
			return setThreshold(&c.Linking.SuggestThreshold, "linking.suggest_threshold", v)
		},
	},
	"linking.suggest_limit": {
		get: func(c *Config) string { return formatLimit(c.Linking.SuggestLimit) },
		set: func(c *Config, v string) error {
			return setLimit(&c.Linking.SuggestLimit, "linking.suggest_limit", v)
		},
	},
	"linking.search_limit": {
		get: func(c *Config) string { return formatLimit(c.Linking.SearchLimit) },
		set: func(c *Config, v string) error {
			return setLimit(&c.Linking.SearchLimit, "linking.search_limit", v)
		},
	},
	"events.provider": {
		get: func(c *Config) string { return c.Events.Provider },
		set: func(c *Config, v string) error { c.Events.Provider = v; return nil },
	},
	"events.brokers": {
		get: func(c *Config) string { return c.Events.Brokers },
		set: func(c *Config, v string) error { c.Events.Brokers = v; return nil },
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
}

func formatThreshold(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func setThreshold(target *float64, key, v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || f > 1 {
		return fmt.Errorf("invalid value for %s: %q (must be in [0, 1])", key, v)
	}
	*target = f
	return nil
}

func formatLimit(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func setLimit(target *int, key, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid value for %s: %q (must be a positive integer)", key, v)
	}
	*target = n
	return nil
}
