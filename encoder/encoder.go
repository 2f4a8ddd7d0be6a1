package encoder

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/xschemadev/imgdedup/hasher"
	"github.com/xschemadev/imgdedup/logger"
	"golang.org/x/sync/errgroup"
)

// Options configures encoding behavior
type Options struct {
	Concurrency int
	// OnProgress is called once per finished file, from worker goroutines.
	OnProgress func()
}

// DefaultOptions returns sensible defaults
func DefaultOptions() Options {
	return Options{
		Concurrency: runtime.NumCPU(),
	}
}

// Failure records a file that could not be hashed.
type Failure struct {
	Path string
	Err  error
}

// Result holds the hashes of every file that could be encoded.
type Result struct {
	Hashes map[string]hasher.Hash
	Failed []Failure // sorted by path
}

// Encode hashes every path with h. Files that cannot be opened or decoded are
// recorded in Result.Failed and do not stop the run; only cancellation does.
func Encode(ctx context.Context, paths []string, h hasher.Hasher, opts Options) (*Result, error) {
	result := &Result{Hashes: make(map[string]hasher.Hash, len(paths))}
	if len(paths) == 0 {
		return result, nil
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	hashes := make([]hasher.Hash, len(paths))
	errs := make([]error, len(paths))

	logger.Debug("encoding images", "count", len(paths), "method", h.Method(), "concurrency", concurrency)

	var progressMu sync.Mutex
	progress := func() {
		if opts.OnProgress == nil {
			return
		}
		progressMu.Lock()
		defer progressMu.Unlock()
		opts.OnProgress()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			hashes[i], errs[i] = hasher.HashFile(h, path)
			if errs[i] != nil {
				logger.Debug("failed to encode image", "path", path, "error", errs[i])
			}
			progress()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, path := range paths {
		if errs[i] != nil {
			result.Failed = append(result.Failed, Failure{Path: path, Err: errs[i]})
			continue
		}
		result.Hashes[path] = hashes[i]
	}
	sort.Slice(result.Failed, func(a, b int) bool {
		return result.Failed[a].Path < result.Failed[b].Path
	})

	logger.Debug("encoding complete", "encoded", len(result.Hashes), "failed", len(result.Failed))
	return result, nil
}
