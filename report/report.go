// Package report writes a machine-readable summary of a dedup run.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xschemadev/imgdedup/duplicates"
	"github.com/xschemadev/imgdedup/encoder"
	"github.com/xschemadev/imgdedup/remover"
)

// File is one duplicate and what happened to it.
type File struct {
	Path     string `json:"path"`
	Distance int    `json:"distance"`
	Size     int64  `json:"size,omitempty"`
	Action   string `json:"action"` // deleted, dry-run, failed
	Error    string `json:"error,omitempty"`
}

// Group is a kept image with the duplicates planned for removal.
type Group struct {
	Keep       string `json:"keep"`
	Duplicates []File `json:"duplicates"`
}

// Failure is an image that could not be hashed.
type Failure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Report is the JSON document written by --report.
type Report struct {
	ScannedAt      time.Time `json:"scanned_at"`
	RootPath       string    `json:"root_path"`
	Method         string    `json:"method"`
	Threshold      int       `json:"threshold"`
	DryRun         bool      `json:"dry_run"`
	TotalImages    int       `json:"total_images"`
	UniqueImages   int       `json:"unique_images"`
	DuplicateCount int       `json:"duplicate_count"`
	FreedBytes     int64     `json:"freed_bytes"`
	Groups         []Group   `json:"groups"`
	Unreadable     []Failure `json:"unreadable,omitempty"`
}

// Input carries everything a report is built from.
type Input struct {
	ScannedAt time.Time
	RootPath  string
	Method    string
	Threshold int
	DryRun    bool
	Plan      duplicates.Plan
	Removed   []remover.Result
	Failed    []encoder.Failure
}

// Build assembles the report. Groups follow the plan's order.
func Build(in Input) Report {
	byPath := make(map[string]remover.Result, len(in.Removed))
	for _, r := range in.Removed {
		byPath[r.Path] = r
	}

	rep := Report{
		ScannedAt:      in.ScannedAt,
		RootPath:       in.RootPath,
		Method:         in.Method,
		Threshold:      in.Threshold,
		DryRun:         in.DryRun,
		TotalImages:    in.Plan.Total,
		UniqueImages:   in.Plan.Unique(),
		DuplicateCount: len(in.Plan.Remove),
		FreedBytes:     remover.Freed(in.Removed),
		Groups:         make([]Group, 0, len(in.Plan.Groups)),
	}

	for _, g := range in.Plan.Groups {
		group := Group{Keep: g.Keep, Duplicates: make([]File, 0, len(g.Duplicates))}
		for _, m := range g.Duplicates {
			f := File{Path: m.Key, Distance: m.Distance}
			if r, ok := byPath[m.Key]; ok {
				f.Size = r.Size
				f.Action = string(r.Action)
				if r.Err != nil {
					f.Error = r.Err.Error()
				}
			}
			group.Duplicates = append(group.Duplicates, f)
		}
		rep.Groups = append(rep.Groups, group)
	}

	for _, f := range in.Failed {
		rep.Unreadable = append(rep.Unreadable, Failure{Path: f.Path, Error: f.Err.Error()})
	}
	return rep
}

// Save writes the report as indented JSON, creating parent directories.
func Save(path string, rep Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
