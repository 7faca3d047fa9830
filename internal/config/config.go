// Package config handles lattice editor configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned by Validate for configurations that cannot be
// clamped into shape.
var ErrInvalid = errors.New("invalid config")

// Config holds all editor settings.
type Config struct {
	FFD       FFDConfig       `yaml:"ffd"`
	Trilinear TrilinearConfig `yaml:"trilinear"`
	Mesh      MeshConfig      `yaml:"mesh"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// FFDConfig holds the Bernstein lattice bounds and seeds.
type FFDConfig struct {
	MinSpanCount      int    `yaml:"min_span_count"`
	MaxSpanCount      int    `yaml:"max_span_count"`
	MinSubdLevel      int    `yaml:"min_subd_level"`
	MaxSubdLevel      int    `yaml:"max_subd_level"`
	InitialSpanCounts [3]int `yaml:"initial_span_counts"`
	InitialSubdLevel  int    `yaml:"initial_subd_level"`
	ClampParams       bool   `yaml:"clamp_params"` // clamp instead of extrapolating outside the box
}

// TrilinearConfig holds the trilinear deformer settings.
type TrilinearConfig struct {
	Resolution [3]int `yaml:"resolution"`
}

// MeshConfig selects the demo mesh the editor deforms.
type MeshConfig struct {
	Shape    string  `yaml:"shape"` // box, sphere or cylinder
	Size     float64 `yaml:"size"`
	SDFCells int     `yaml:"sdf_cells"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Mesh shapes.
const (
	ShapeBox      = "box"
	ShapeSphere   = "sphere"
	ShapeCylinder = "cylinder"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		FFD: FFDConfig{
			MinSpanCount:      1,
			MaxSpanCount:      8,
			MinSubdLevel:      0,
			MaxSubdLevel:      4,
			InitialSpanCounts: [3]int{2, 2, 2},
			InitialSubdLevel:  2,
			ClampParams:       false,
		},
		Trilinear: TrilinearConfig{
			Resolution: [3]int{2, 2, 2},
		},
		Mesh: MeshConfig{
			Shape:    ShapeBox,
			Size:     100,
			SDFCells: 48,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate rejects contradictory bounds and clamps the seeds into them.
func (c *Config) Validate() error {
	f := &c.FFD
	if f.MinSpanCount < 1 {
		return fmt.Errorf("%w: min_span_count %d must be at least 1", ErrInvalid, f.MinSpanCount)
	}
	if f.MaxSpanCount < f.MinSpanCount {
		return fmt.Errorf("%w: max_span_count %d < min_span_count %d", ErrInvalid, f.MaxSpanCount, f.MinSpanCount)
	}
	if f.MinSubdLevel < 0 {
		return fmt.Errorf("%w: min_subd_level %d is negative", ErrInvalid, f.MinSubdLevel)
	}
	if f.MaxSubdLevel < f.MinSubdLevel {
		return fmt.Errorf("%w: max_subd_level %d < min_subd_level %d", ErrInvalid, f.MaxSubdLevel, f.MinSubdLevel)
	}
	for axis, n := range c.Trilinear.Resolution {
		if n < 1 {
			return fmt.Errorf("%w: trilinear resolution %d on axis %d", ErrInvalid, n, axis)
		}
	}
	switch c.Mesh.Shape {
	case ShapeBox, ShapeSphere, ShapeCylinder:
	default:
		return fmt.Errorf("%w: unknown mesh shape %q", ErrInvalid, c.Mesh.Shape)
	}
	if !(c.Mesh.Size > 0) {
		return fmt.Errorf("%w: mesh size %v must be positive", ErrInvalid, c.Mesh.Size)
	}

	for axis := range f.InitialSpanCounts {
		f.InitialSpanCounts[axis] = f.ClampSpanCount(f.InitialSpanCounts[axis])
	}
	f.InitialSubdLevel = f.ClampSubdLevel(f.InitialSubdLevel)
	return nil
}

// ClampSpanCount limits n to [MinSpanCount, MaxSpanCount].
func (f FFDConfig) ClampSpanCount(n int) int {
	return clampInt(n, f.MinSpanCount, f.MaxSpanCount)
}

// ClampSubdLevel limits n to [MinSubdLevel, MaxSubdLevel].
func (f FFDConfig) ClampSubdLevel(n int) int {
	return clampInt(n, f.MinSubdLevel, f.MaxSubdLevel)
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
