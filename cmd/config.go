package cmd

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/xschemadev/imgdedup/config"
	"github.com/xschemadev/imgdedup/hasher"
	"github.com/xschemadev/imgdedup/scanner"
)

const (
	defaultMethod    = string(hasher.PHash)
	defaultThreshold = 10
)

type Config struct {
	// Input
	InputDir   string
	Extensions []string
	IgnoreDirs []string

	// Hashing
	Method    string
	Threshold int // max Hamming distance, inclusive
	Workers   int

	// Output behavior
	Delete     bool
	Report     string
	ConfigFile string
	Verbose    bool

	hasher hasher.Hasher
}

func defaultConfig() Config {
	return Config{
		Extensions: append([]string(nil), scanner.DefaultExtensions...),
		IgnoreDirs: append([]string(nil), scanner.DefaultIgnoreDirs...),
		Method:     defaultMethod,
		Threshold:  defaultThreshold,
		Workers:    runtime.NumCPU(),
	}
}

// applyFile copies values from a config file for every flag the user did
// not set explicitly.
func (c *Config) applyFile(f *config.File, changed func(name string) bool) {
	if f.Method != "" && !changed("method") {
		c.Method = f.Method
	}
	if f.Threshold != nil && !changed("threshold") {
		c.Threshold = *f.Threshold
	}
	if f.Workers > 0 && !changed("workers") {
		c.Workers = f.Workers
	}
	if f.Extensions != nil && !changed("ext") {
		c.Extensions = f.Extensions
	}
	if f.IgnoreDirs != nil && !changed("ignore_dir") {
		c.IgnoreDirs = f.IgnoreDirs
	}
	if f.Report != "" && !changed("report") {
		c.Report = f.Report
	}
}

// validate checks everything that can be checked without touching the input
// directory and resolves the hash method.
func (c *Config) validate() error {
	h, err := hasher.ByName(c.Method)
	if err != nil {
		return err
	}
	if c.Threshold < 0 || c.Threshold > hasher.Bits {
		return fmt.Errorf("threshold must be between 0 and %d, got %d", hasher.Bits, c.Threshold)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.InputDir == "" {
		return errors.New("--input_dir must not be empty")
	}
	c.hasher = h
	return nil
}

func (c *Config) scanOptions() scanner.Options {
	return scanner.Options{
		Extensions: c.Extensions,
		IgnoreDirs: c.IgnoreDirs,
	}
}
