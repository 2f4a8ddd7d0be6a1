package remover

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	var paths []string
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, []byte("12345"), 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	return paths
}

func TestRemoveDryRun(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, "a.jpg", "b.jpg")

	results, err := Remove(context.Background(), RemoveInput{Paths: paths, DryRun: true})
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	for i, r := range results {
		if r.Action != ActionWouldDelete {
			t.Errorf("result %d: expected %s, got %s", i, ActionWouldDelete, r.Action)
		}
		if _, err := os.Stat(paths[i]); err != nil {
			t.Errorf("dry run touched %s: %v", paths[i], err)
		}
	}
	if Freed(results) != 10 {
		t.Errorf("expected 10 freeable bytes, got %d", Freed(results))
	}
}

func TestRemoveDeletes(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, "a.jpg", "b.jpg")
	missing := filepath.Join(dir, "missing.jpg")
	input := RemoveInput{Paths: []string{paths[0], missing, paths[1]}}

	results, err := Remove(context.Background(), input)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist in joined error, got %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	want := []Action{ActionDeleted, ActionFailed, ActionDeleted}
	for i, r := range results {
		if r.Action != want[i] {
			t.Errorf("result %d: expected %s, got %s", i, want[i], r.Action)
		}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("%s still exists", p)
		}
	}
	if Freed(results) != 10 {
		t.Errorf("expected 10 freed bytes, got %d", Freed(results))
	}
}

func TestRemoveContextCancellation(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, "a.jpg")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Remove(ctx, RemoveInput{Paths: paths}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(paths[0]); err != nil {
		t.Errorf("cancelled run deleted %s", paths[0])
	}
}

// cancelAfter reports cancellation once Err has returned nil n times.
type cancelAfter struct {
	context.Context
	n int
}

func (c *cancelAfter) Err() error {
	if c.n <= 0 {
		return context.Canceled
	}
	c.n--
	return nil
}

func TestRemoveCancellationKeepsEarlierFailures(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, "a.jpg")
	missing := filepath.Join(dir, "missing.jpg")

	ctx := &cancelAfter{Context: context.Background(), n: 1}
	results, err := Remove(ctx, RemoveInput{Paths: []string{missing, paths[0]}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected earlier failure to be kept, got %v", err)
	}
	if len(results) != 1 || results[0].Action != ActionFailed {
		t.Errorf("expected one failed result, got %+v", results)
	}
	if _, err := os.Stat(paths[0]); err != nil {
		t.Errorf("cancelled run deleted %s", paths[0])
	}
}
