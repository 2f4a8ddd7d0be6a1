// Package scanner finds image files below a directory.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xschemadev/imgdedup/logger"
)

// ErrNotDirectory is returned when the scan root exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// DefaultExtensions are the file extensions treated as images.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".tif", ".webp", ".gif"}

// DefaultIgnoreDirs are directory names never descended into.
var DefaultIgnoreDirs = []string{".git", ".svn", "__MACOSX"}

// Options configures which files a scan collects.
type Options struct {
	Extensions []string // matched case-insensitively, with or without leading dot
	IgnoreDirs []string // directory base names to skip
}

// DefaultOptions returns the default extension and ignore lists
func DefaultOptions() Options {
	return Options{
		Extensions: append([]string(nil), DefaultExtensions...),
		IgnoreDirs: append([]string(nil), DefaultIgnoreDirs...),
	}
}

// Scan walks root recursively and returns the image files in lexical order.
// The root itself must be a readable directory; unreadable subdirectories are
// skipped with a warning.
func Scan(ctx context.Context, root string, opts Options) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("input directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input directory %s: %w", root, ErrNotDirectory)
	}

	exts := extensionSet(opts.Extensions)
	ignore := make(map[string]bool, len(opts.IgnoreDirs))
	for _, d := range opts.IgnoreDirs {
		ignore[d] = true
	}

	logger.Debug("scanning directory", "root", root, "extensions", len(exts), "ignore_dirs", len(ignore))

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && ignore[d.Name()] {
				logger.Debug("skipping ignored directory", "path", path)
				return fs.SkipDir
			}
			return nil
		}

		if exts[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	logger.Debug("scan complete", "root", root, "images", len(paths))
	return paths, nil
}

func extensionSet(extensions []string) map[string]bool {
	set := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = true
	}
	return set
}
