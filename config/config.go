// Package config loads optional JSONC defaults for a dedup run.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
	"github.com/xschemadev/imgdedup/logger"
)

// File is the raw structure of a config file. Pointer and nil-slice fields
// mean "not set"; the command line wins over any value set here.
//
//	{
//	  // comments and trailing commas are allowed
//	  "method": "dhash",
//	  "threshold": 6,
//	  "extensions": [".jpg", ".png"],
//	}
type File struct {
	Method     string   `json:"method,omitempty"`
	Threshold  *int     `json:"threshold,omitempty"`
	Workers    int      `json:"workers,omitempty"`
	Extensions []string `json:"extensions,omitempty"`
	IgnoreDirs []string `json:"ignoreDirs,omitempty"`
	Report     string   `json:"report,omitempty"`
}

// Load reads and parses a config file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	logger.Debug("loaded config", "path", path, "method", f.Method, "extensions", len(f.Extensions))
	return f, nil
}

// Parse decodes JWCC (JSON with comments and trailing commas). Unknown keys
// are rejected.
func Parse(data []byte) (*File, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(std))
	dec.DisallowUnknownFields()

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	if f.Threshold != nil && *f.Threshold < 0 {
		return nil, fmt.Errorf("threshold must be non-negative, got %d", *f.Threshold)
	}
	if f.Workers < 0 {
		return nil, fmt.Errorf("workers must be non-negative, got %d", f.Workers)
	}
	return &f, nil
}
