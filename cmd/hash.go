package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/xschemadev/imgdedup/logger"
	"github.com/xschemadev/imgdedup/scanner"
	"github.com/xschemadev/imgdedup/ui"
)

func newHashCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "hash",
		Short: "Print the perceptual hash of every image",
		Long: `Print "<hash>  <path>" for every image below --input_dir, sorted by path.
Useful for choosing a --threshold: compare hashes of images you consider duplicates.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(cmd.Context(), cfg)
		},
	}
}

func runHash(ctx context.Context, cfg *Config) error {
	paths, err := scanner.Scan(ctx, cfg.InputDir, cfg.scanOptions())
	if err != nil {
		return showError("Failed to scan input directory", err, scanHints(err)...)
	}

	encoded, err := encode(ctx, paths, cfg)
	if err != nil {
		return showError("Failed to hash images", err)
	}
	for _, f := range encoded.Failed {
		logger.Warn("skipping unreadable image", "path", f.Path, "error", f.Err)
	}

	sorted := make([]string, 0, len(encoded.Hashes))
	for p := range encoded.Hashes {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	w := ui.Writer()
	for _, p := range sorted {
		fmt.Fprintf(w, "%s  %s\n", encoded.Hashes[p], p)
	}
	return nil
}
