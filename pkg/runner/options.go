// Package runner applies an operation to many document files concurrently.
package runner

import "github.com/yaklabco/richdraft/pkg/docfile"

// Options controls discovery and concurrency.
type Options struct {
	// Paths are files or directories; empty means the working directory.
	Paths []string

	// WorkingDir resolves relative Paths. Empty means os.Getwd.
	WorkingDir string

	// Extensions selects document files inside directories. Files named
	// explicitly in Paths are always processed.
	Extensions []string

	// ExcludeGlobs skip matching files and directories, relative to WorkingDir.
	ExcludeGlobs []string

	// Jobs caps concurrent workers; 0 or less means runtime.NumCPU.
	Jobs int
}

// DefaultExtensions returns the extensions of saved documents.
func DefaultExtensions() []string {
	return []string{docfile.Extension}
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) paths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
