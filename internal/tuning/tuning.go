// Package tuning loads clustering parameters from JSON tuning files. Fields
// omitted from a file keep their defaults, so partial configs are safe to
// ship per deployment.
package tuning

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openbeamline/tpxcluster/internal/cluster"
)

// maxFileSize bounds tuning files to keep a mistyped path from slurping an
// arbitrary file into memory.
const maxFileSize = 1 * 1024 * 1024

// Tuning mirrors the clustering parameter surface as optional JSON fields.
// Pointers distinguish "absent" from zero so partial files inherit defaults.
type Tuning struct {
	Radius         *float64 `json:"radius,omitempty"`
	TemporalWindow *float64 `json:"temporal_window,omitempty"`
	MinClusterSize *int     `json:"min_cluster_size,omitempty"`
	Algorithm      *string  `json:"algorithm,omitempty"`
	Workers        *int     `json:"workers,omitempty"`
}

// Load reads a tuning file. The path must name a .json file no larger than
// maxFileSize.
func Load(path string) (*Tuning, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("tuning file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat tuning file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("tuning file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning file: %w", err)
	}

	var t Tuning
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse tuning file %s: %w", cleanPath, err)
	}
	return &t, nil
}

// Config resolves the tuning against the package defaults and validates the
// result.
func (t *Tuning) Config() (cluster.Config, error) {
	cfg := cluster.DefaultConfig()
	if t.Radius != nil {
		cfg.Radius = *t.Radius
	}
	if t.TemporalWindow != nil {
		cfg.TemporalWindow = *t.TemporalWindow
	}
	if t.MinClusterSize != nil {
		cfg.MinClusterSize = *t.MinClusterSize
	}
	if err := cfg.Validate(); err != nil {
		return cluster.Config{}, err
	}
	return cfg, nil
}

// AlgorithmOr returns the configured algorithm or the given fallback.
func (t *Tuning) AlgorithmOr(fallback cluster.Algorithm) cluster.Algorithm {
	if t.Algorithm != nil {
		return cluster.Algorithm(*t.Algorithm)
	}
	return fallback
}

// WorkersOr returns the configured worker count or the given fallback.
func (t *Tuning) WorkersOr(fallback int) int {
	if t.Workers != nil {
		return *t.Workers
	}
	return fallback
}
