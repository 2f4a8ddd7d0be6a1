package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/xschemadev/imgdedup/duplicates"
	"github.com/xschemadev/imgdedup/encoder"
	"github.com/xschemadev/imgdedup/remover"
	"github.com/xschemadev/imgdedup/report"
	"github.com/xschemadev/imgdedup/scanner"
	"github.com/xschemadev/imgdedup/ui"
)

const totalSteps = 4

// removeFiles is replaced in tests to simulate files changing under a run.
var removeFiles = remover.Remove

func runDedup(ctx context.Context, cfg *Config) error {
	start := time.Now()

	mode := "dry run"
	if cfg.Delete {
		mode = "delete"
	}
	ui.Verbosef("method=%s threshold=%d workers=%d mode=%s", cfg.hasher.Method(), cfg.Threshold, cfg.Workers, mode)

	// Step 1: Scan
	ui.Step(1, totalSteps, "Scanning "+ui.Primary.Render(cfg.InputDir)+" for images")
	paths, err := scanner.Scan(ctx, cfg.InputDir, cfg.scanOptions())
	if err != nil {
		return showError("Failed to scan input directory", err, scanHints(err)...)
	}
	ui.Detail(fmt.Sprintf("Found %d images", len(paths)))

	if len(paths) == 0 {
		ui.WarnMsg("No images found")
		return nil
	}

	// Step 2: Hash
	ui.Step(2, totalSteps, fmt.Sprintf("Generating image hashes (%s)", cfg.hasher.Method()))
	encoded, err := encode(ctx, paths, cfg)
	if err != nil {
		return showError("Failed to hash images", err)
	}
	if n := len(encoded.Failed); n > 0 {
		ui.WarnMsg(fmt.Sprintf("Skipped %d unreadable images", n))
		for _, f := range encoded.Failed {
			ui.Verbosef("%s: %v", f.Path, f.Err)
		}
	}

	// Step 3: Find duplicates
	ui.Step(3, totalSteps, fmt.Sprintf("Finding duplicates (threshold %d)", cfg.Threshold))
	var plan duplicates.Plan
	err = ui.RunWithSpinner("Searching for near-duplicates...", func() error {
		dups, findErr := duplicates.Find(encoded.Hashes, cfg.Threshold)
		if findErr != nil {
			return findErr
		}
		plan = duplicates.NewPlan(dups)
		return nil
	})
	if err != nil {
		return showError("Failed to find duplicates", err)
	}

	printSummary(plan)

	if len(plan.Remove) == 0 {
		ui.SuccessMsg(fmt.Sprintf("No duplicates found (%s)", ui.FormatDuration(time.Since(start))))
		return saveReport(cfg, start, plan, nil, encoded.Failed)
	}

	printGroups(plan)

	// Step 4: Delete or list
	if cfg.Delete {
		ui.Step(4, totalSteps, ui.Warning.Render("Deleting duplicates"))
	} else {
		ui.Step(4, totalSteps, "Dry run - files that would be deleted")
	}
	removed, removeErr := removeFiles(ctx, remover.RemoveInput{
		Paths:  plan.Remove,
		DryRun: !cfg.Delete,
	})
	printRemoval(removed)

	if err := saveReport(cfg, start, plan, removed, encoded.Failed); err != nil {
		return err
	}
	if removeErr != nil {
		return showError("Some duplicates could not be deleted", removeErr)
	}

	ui.Println()
	freed := ui.FormatBytes(remover.Freed(removed))
	if cfg.Delete {
		ui.SuccessMsg(fmt.Sprintf("Deleted %d duplicates, freed %s (%s)", len(removed), freed, ui.FormatDuration(time.Since(start))))
	} else {
		ui.SuccessMsg(fmt.Sprintf("Dry run complete, %s could be freed (%s)", freed, ui.FormatDuration(time.Since(start))))
		ui.Printf("  %s Run with --delete to actually remove these files\n", ui.Dim.Render("Tip:"))
	}
	return nil
}

func encode(ctx context.Context, paths []string, cfg *Config) (*encoder.Result, error) {
	progress := ui.NewProgress(len(paths), "Hashing images")
	defer progress.Finish()

	opts := encoder.DefaultOptions()
	opts.Concurrency = cfg.Workers
	opts.OnProgress = func() { progress.Add(1) }

	return encoder.Encode(ctx, paths, cfg.hasher, opts)
}

func scanHints(err error) []string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return []string{"Check that --input_dir points to an existing directory"}
	case errors.Is(err, scanner.ErrNotDirectory):
		return []string{"--input_dir must be a directory, not a file"}
	case errors.Is(err, fs.ErrPermission):
		return []string{"Check read permissions on the input directory"}
	}
	return nil
}

func printSummary(plan duplicates.Plan) {
	ui.Println()
	ui.Println(ui.Bold.Render("  Result summary"))
	ui.Printf("    Total images processed: %d\n", plan.Total)
	ui.Printf("    Unique images to keep:  %d\n", plan.Unique())
	ui.Printf("    Duplicates found:       %d\n", len(plan.Remove))
	ui.Println()
}

func printGroups(plan duplicates.Plan) {
	for _, g := range plan.Groups {
		ui.Printf("  %s %s\n", ui.Success.Render("keep"), ui.Primary.Render(g.Keep))
		for _, m := range g.Duplicates {
			ui.Printf("    %s %s %s\n", ui.Dim.Render("•"), m.Key, ui.Dim.Render(fmt.Sprintf("(distance %d)", m.Distance)))
		}
	}
	ui.Println()
}

func printRemoval(results []remover.Result) {
	for _, r := range results {
		switch r.Action {
		case remover.ActionDeleted:
			ui.Printf("  Deleted: %s\n", r.Path)
		case remover.ActionWouldDelete:
			ui.Printf("  Would delete: %s\n", r.Path)
		case remover.ActionFailed:
			ui.Printf("  %s %s: %v\n", ui.Error.Render("Error deleting"), r.Path, r.Err)
		}
	}
}

func saveReport(cfg *Config, start time.Time, plan duplicates.Plan, removed []remover.Result, failed []encoder.Failure) error {
	if cfg.Report == "" {
		return nil
	}

	rep := report.Build(report.Input{
		ScannedAt: start,
		RootPath:  cfg.InputDir,
		Method:    string(cfg.hasher.Method()),
		Threshold: cfg.Threshold,
		DryRun:    !cfg.Delete,
		Plan:      plan,
		Removed:   removed,
		Failed:    failed,
	})
	if err := report.Save(cfg.Report, rep); err != nil {
		return showError("Failed to save report", err)
	}
	ui.Detail("Report saved to " + ui.Primary.Render(cfg.Report))
	return nil
}
