// Package sqlitepath resolves where a sqlite database file for loom
// lives on disk. Config values are usually bare names like "loom.db";
// resolution turns them into a real path, preferring existing files and
// falling back to the .loom directory.
package sqlitepath

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/loomkb/loom/pkg/dotdir"
)

// ResolveSQLitePath resolves the main loom database. The LOOM_SQLITE and
// LOOM_DB environment variables override everything but an absolute
// configured path.
func ResolveSQLitePath(configured string) (string, error) {
	if filepath.IsAbs(configured) {
		return configured, nil
	}

	if envPath := strings.TrimSpace(os.Getenv("LOOM_SQLITE")); envPath != "" {
		return envPath, nil
	}
	if envPath := strings.TrimSpace(os.Getenv("LOOM_DB")); envPath != "" {
		return envPath, nil
	}

	name := configured
	if name == "" {
		name = "loom.db"
	}

	return ResolveDataPath(name)
}

// ResolveDataPath resolves a relative database file name against the usual
// loom data locations, preferring existing files. Used for secondary
// databases like the sqlite-vec store, which the env overrides above must
// not redirect.
func ResolveDataPath(name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}

	for _, candidate := range sqliteCandidates(name) {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	// No existing database anywhere; place a new one in the .loom dir.
	target, err := dotdir.NewManager().Target("")
	if err != nil {
		return "", err
	}

	return filepath.Join(target, name), nil
}

func sqliteCandidates(name string) []string {
	candidates := []string{
		name,
		filepath.Join(".loom", name),
	}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append([]string{
			filepath.Join(home, ".loom", name),
		}, candidates...)
	}

	if xdgHome := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdgHome != "" {
		candidates = append([]string{
			filepath.Join(xdgHome, "loom", name),
		}, candidates...)
	}

	return candidates
}
