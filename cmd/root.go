package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/xschemadev/imgdedup/config"
	"github.com/xschemadev/imgdedup/hasher"
	"github.com/xschemadev/imgdedup/logger"
	"github.com/xschemadev/imgdedup/ui"
)

// Version information set by goreleaser
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = newRootCmd()

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var shown reportedError
		if !errors.As(err, &shown) {
			ui.ErrorMsg("Invalid arguments", err, "Run 'imgdedup --help' for usage")
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	cfg := defaultConfig()

	root := &cobra.Command{
		Use:   "imgdedup --input_dir DIR",
		Short: "Find and remove near-duplicate images",
		Long: `imgdedup hashes every image below a directory with a perceptual hash and groups
images whose hashes differ in at most --threshold bits. Without --delete it only
reports what would be removed; with --delete it keeps one image per group and
deletes the rest.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return prepare(cmd, &cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDedup(cmd.Context(), &cfg)
		},
	}
	root.SetVersionTemplate("imgdedup {{.Version}} (" + commit + ", " + date + ")\n")
	root.SetGlobalNormalizationFunc(normalizeFlagName)

	pf := root.PersistentFlags()
	pf.StringVar(&cfg.InputDir, "input_dir", "", "root directory of the image dataset (required)")
	pf.StringVar(&cfg.Method, "method", cfg.Method, "hash method: "+hasher.MethodNames())
	pf.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of images hashed concurrently")
	pf.StringSliceVar(&cfg.Extensions, "ext", cfg.Extensions, "image file extensions to include")
	pf.StringSliceVar(&cfg.IgnoreDirs, "ignore_dir", cfg.IgnoreDirs, "directory names to skip")
	pf.StringVar(&cfg.ConfigFile, "config", "", "JSONC file with default settings")
	pf.BoolVarP(&cfg.Verbose, "verbose", "v", false, "show verbose output")
	_ = root.MarkPersistentFlagRequired("input_dir")

	f := root.Flags()
	f.IntVar(&cfg.Threshold, "threshold", cfg.Threshold, "max Hamming distance between duplicates; lower is stricter")
	f.BoolVar(&cfg.Delete, "delete", false, "permanently delete duplicates instead of a dry run")
	f.StringVar(&cfg.Report, "report", "", "write a JSON report to this path")

	root.AddCommand(newHashCmd(&cfg))
	return root
}

// normalizeFlagName lets --input-dir and --input_dir name the same flag.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "-", "_"))
}

// prepare sets up output, merges the config file and validates arguments
// before any file is read.
func prepare(cmd *cobra.Command, cfg *Config) error {
	ui.SetVerbose(cfg.Verbose)
	logger.SetLogger(logger.New(ui.ErrWriter(), cfg.Verbose))

	if cfg.ConfigFile != "" {
		f, err := config.Load(cfg.ConfigFile)
		if err != nil {
			return showError("Failed to load config file", err)
		}
		cfg.applyFile(f, cmd.Flags().Changed)
	}

	if err := cfg.validate(); err != nil {
		if errors.Is(err, hasher.ErrUnsupportedMethod) {
			return showError("Invalid arguments", err, "Use --method "+hasher.MethodNames())
		}
		return showError("Invalid arguments", err)
	}
	return nil
}

// reportedError marks an error that was already shown to the user.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

// showError prints err with a title and optional hints and returns it marked as shown.
func showError(title string, err error, hints ...string) error {
	ui.ErrorMsg(title, err, hints...)
	return reportedError{err}
}
