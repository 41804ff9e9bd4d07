// Package filesearch walks project trees for candidate source files,
// honoring .gitignore.
package filesearch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// DefaultMaxFileSize skips files larger than this (1MB).
const DefaultMaxFileSize = 1 << 20

// Options configures Walk.
type Options struct {
	// Match selects files by path. Nil accepts every file.
	Match func(path string) bool
	// MaxFileSize skips larger files; 0 uses DefaultMaxFileSize.
	MaxFileSize int64
}

// Walk returns the files under root accepted by opts.Match, sorted. When
// root is a file it is returned as-is if it matches, regardless of size.
// Directories named .git and paths ignored by the .gitignore of root or of
// any directory below it are skipped.
func Walk(ctx context.Context, root string, opts Options) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		if opts.Match == nil || opts.Match(root) {
			return []string{root}, nil
		}
		return nil, nil
	}

	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	ignores := ignoreTree{}
	ignores.load(root, ".")

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return nil
		}

		if d.IsDir() {
			if d.Name() == ".git" || ignores.ignored(rel, true) {
				return filepath.SkipDir
			}
			ignores.load(path, filepath.ToSlash(rel))
			return nil
		}
		if ignores.ignored(rel, false) {
			return nil
		}
		if opts.Match != nil && !opts.Match(path) {
			return nil
		}
		if fi, err := d.Info(); err != nil || fi.Size() > maxSize {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
