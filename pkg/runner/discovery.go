package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Discover resolves opts.Paths to a sorted, de-duplicated list of absolute
// file paths. Hidden files and directories are skipped during walks.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
		}
	}

	for _, input := range opts.paths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}
		if !info.IsDir() {
			add(abs)
			continue
		}

		if err := walk(ctx, abs, workDir, opts, add); err != nil {
			return nil, err
		}
	}

	files := make([]string, 0, len(seen))
	for path := range seen {
		files = append(files, path)
	}
	slices.Sort(files)
	return files, nil
}

func resolveWorkDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return abs, nil
}

func walk(ctx context.Context, root, workDir string, opts Options, add func(string)) error {
	extensions := opts.extensions()

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		rel, relErr := filepath.Rel(workDir, path)
		if relErr != nil {
			rel = path
		}
		hidden := path != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || excluded(rel, opts.ExcludeGlobs) {
				return filepath.SkipDir
			}
			return nil
		}

		if hidden || !entry.Type().IsRegular() || excluded(rel, opts.ExcludeGlobs) {
			return nil
		}
		if hasExtension(path, extensions) {
			add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}
	return nil
}

func hasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	return slices.ContainsFunc(extensions, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

func excluded(rel string, patterns []string) bool {
	return slices.ContainsFunc(patterns, func(p string) bool {
		return matchGlob(rel, p)
	})
}

// matchGlob matches rel against a filepath.Match pattern, also trying the
// base name. A "dir/**" pattern matches everything below dir and "**/name"
// matches name at any depth.
func matchGlob(rel, pattern string) bool {
	rel = filepath.ToSlash(rel)
	pattern = filepath.ToSlash(pattern)

	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		return rel == prefix || strings.HasPrefix(rel, prefix+"/")
	}
	if suffix, ok := strings.CutPrefix(pattern, "**/"); ok {
		for _, part := range strings.Split(rel, "/") {
			if matched, _ := filepath.Match(suffix, part); matched {
				return true
			}
		}
		return false
	}

	if matched, _ := filepath.Match(pattern, rel); matched {
		return true
	}
	matched, _ := filepath.Match(pattern, filepath.Base(rel))
	return matched
}
