package main

import (
	"context"
	"fmt"

	"dagger/loom/internal/dagger"
)

const golangciLintVersion = "v2.8.0"

// lintOpts returns the common GolangcilintOpts used by both CheckLint and FixLint.
// It layers golangci-lint on top of goContainer() so the sqlite dev headers,
// CGO, and Go caches are already in place.
func (l *Loom) lintOpts() dagger.GolangcilintOpts {
	base := l.goContainer().
		WithExec([]string{
			"go",
			"install",
			fmt.Sprintf("github.com/golangci/golangci-lint/v2/cmd/golangci-lint@%s", golangciLintVersion),
		})

	return dagger.GolangcilintOpts{
		BaseCtr: base,
		Config:  l.Source.File(".golangci.yml"),
	}
}

// CheckLint runs golangci-lint against the loom source code without applying fixes.
func (l *Loom) CheckLint(ctx context.Context) (string, error) {
	return dag.Golangcilint(l.Source, l.lintOpts()).Check(ctx)
}

// FixLint runs golangci-lint against the loom source code with --fix, applying
// automatic fixes where possible, and returns the modified source directory.
func (l *Loom) FixLint(ctx context.Context) *dagger.Directory {
	return dag.Golangcilint(l.Source, l.lintOpts()).Lint()
}
