package remover

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/xschemadev/imgdedup/logger"
)

// Action describes what happened to a planned file.
type Action string

const (
	ActionDeleted     Action = "deleted"
	ActionWouldDelete Action = "dry-run"
	ActionFailed      Action = "failed"
)

// Result is the outcome for one file.
type Result struct {
	Path   string
	Size   int64 // bytes freed, or that would be freed; 0 if unknown
	Action Action
	Err    error
}

// RemoveInput lists the files to remove and whether to only report them.
type RemoveInput struct {
	Paths  []string
	DryRun bool
}

// Remove deletes the given files in order. In dry-run mode the filesystem is
// only inspected, never modified. A failure on one file does not stop the
// others; all failures are returned joined.
func Remove(ctx context.Context, input RemoveInput) ([]Result, error) {
	results := make([]Result, 0, len(input.Paths))
	var errs []error

	logger.Debug("removing duplicates", "count", len(input.Paths), "dry_run", input.DryRun)

	for _, path := range input.Paths {
		if err := ctx.Err(); err != nil {
			return results, errors.Join(append(errs, err)...)
		}

		res := Result{Path: path}
		if info, err := os.Lstat(path); err == nil {
			res.Size = info.Size()
		}

		if input.DryRun {
			res.Action = ActionWouldDelete
			results = append(results, res)
			continue
		}

		if err := os.Remove(path); err != nil {
			logger.Error("failed to delete file", "path", path, "error", err)
			res.Action = ActionFailed
			res.Size = 0
			res.Err = err
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", path, err))
		} else {
			logger.Info("deleted duplicate", "path", path, "size", res.Size)
			res.Action = ActionDeleted
		}
		results = append(results, res)
	}

	return results, errors.Join(errs...)
}

// Freed sums the sizes of deleted (or, in dry-run mode, deletable) files.
func Freed(results []Result) int64 {
	var total int64
	for _, r := range results {
		if r.Action != ActionFailed {
			total += r.Size
		}
	}
	return total
}
