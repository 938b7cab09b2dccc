package main

import (
	"fmt"
	"strings"
	"time"

	"context"

	"dagger/loom/internal/dagger"
)

// Build and return directory of go binaries
//
// The sqlite drivers need CGO, so builds run on the bookworm container
// with a cross gcc for the arm64 target.
func (l *Loom) Build(
	ctx context.Context,

	// Linker flags for go build
	// +optional
	// +default="-s -w"
	ldflags string,
) *dagger.Directory {
	goarches := []string{"amd64", "arm64"}

	crossCompilers := map[string]string{
		"amd64": "x86_64-linux-gnu-gcc",
		"arm64": "aarch64-linux-gnu-gcc",
	}

	// create empty directory to put build artifacts
	outputs := dag.Directory()

	golang := l.goContainer().
		WithExec([]string{"apt-get", "install", "-y", "gcc-aarch64-linux-gnu"})

	for _, goarch := range goarches {
		// create directory for each architecture
		path := fmt.Sprintf("linux/%s/", goarch)

		// build artifact
		build := golang.
			WithEnvVariable("GOOS", "linux").
			WithEnvVariable("GOARCH", goarch).
			WithEnvVariable("CC", crossCompilers[goarch]).
			WithExec([]string{"go", "build", "-ldflags", ldflags, "-o", path, "./cli/loom"})

		// add build to outputs
		outputs = outputs.WithDirectory(path, build.Directory(path))
	}

	// return build directory
	return outputs
}

// BuildRelease compiles versioned release binaries with embedded version info
func (l *Loom) BuildRelease(
	ctx context.Context,

	// Version string of build
	version string,

	// Git commit SHA of build
	commit string,
) *dagger.Directory {
	buildtime := time.Now()

	ldflags := []string{
		"-s",
		"-w",
		fmt.Sprintf("-X 'github.com/loomkb/loom/pkg/utils.Version=%s'", version),
		fmt.Sprintf("-X 'github.com/loomkb/loom/pkg/utils.Sha=%s'", commit),
		fmt.Sprintf("-X 'github.com/loomkb/loom/pkg/utils.Buildtime=%s'", buildtime),
	}

	return l.Build(ctx, strings.Join(ldflags, " "))
}
