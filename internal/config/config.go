// Package config loads the roomsnap YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/philipparndt/roomsnap/pkg/document"
	"github.com/philipparndt/roomsnap/pkg/scene"
	"gopkg.in/yaml.v3"
)

// Config holds all roomsnap configuration
type Config struct {
	Scan    ScanConfig    `yaml:"scan"`
	Edit    EditConfig    `yaml:"edit"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// ScanConfig tunes corner detection and snapping during the live scan
type ScanConfig struct {
	MinCornerAngle    float64 `yaml:"min_corner_angle"`
	MaxCornerAngle    float64 `yaml:"max_corner_angle"`
	MaxCenterDistance float64 `yaml:"max_center_distance"`
	CornerSnapRadius  float64 `yaml:"corner_snap_radius"`
	EdgeSnapRadius    float64 `yaml:"edge_snap_radius"`
}

// EditConfig tunes offsite editing. Radii and sizes are normalized units.
type EditConfig struct {
	EndpointHitRadius        float64 `yaml:"endpoint_hit_radius"`
	TextHitRadius            float64 `yaml:"text_hit_radius"`
	HandleHitRadius          float64 `yaml:"handle_hit_radius"`
	LineHitRadius            float64 `yaml:"line_hit_radius"`
	MinFrameSize             float64 `yaml:"min_frame_size"`
	MaxFrameSize             float64 `yaml:"max_frame_size"`
	DefaultFrameSize         float64 `yaml:"default_frame_size"`
	PerspectiveFrameFraction float64 `yaml:"perspective_frame_fraction"`
	FallbackMetersPerPixel   float64 `yaml:"fallback_meters_per_pixel"`
	FrameColor               string  `yaml:"frame_color"`
	TextColor                string  `yaml:"text_color"`
}

// StorageConfig locates documents and frame images
type StorageConfig struct {
	DBPath            string `yaml:"db_path"`
	ImageDir          string `yaml:"image_dir"`
	MaxImageDimension int    `yaml:"max_image_dimension"`
}

// LogConfig selects the log level and handler format (text or json)
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.defaults()
	return cfg
}

func (c *Config) defaults() {
	detector := scene.DefaultDetectorConfig()
	snap := scene.DefaultSnapConfig()
	edit := document.DefaultEditConfig()

	if c.Scan.MinCornerAngle <= 0 {
		c.Scan.MinCornerAngle = detector.MinAngleDegrees
	}
	if c.Scan.MaxCornerAngle <= 0 {
		c.Scan.MaxCornerAngle = detector.MaxAngleDegrees
	}
	if c.Scan.MaxCenterDistance <= 0 {
		c.Scan.MaxCenterDistance = detector.MaxCenterDistance
	}
	if c.Scan.CornerSnapRadius <= 0 {
		c.Scan.CornerSnapRadius = snap.CornerRadius
	}
	if c.Scan.EdgeSnapRadius <= 0 {
		c.Scan.EdgeSnapRadius = snap.EdgeRadius
	}

	if c.Edit.EndpointHitRadius <= 0 {
		c.Edit.EndpointHitRadius = edit.EndpointHitRadius
	}
	if c.Edit.TextHitRadius <= 0 {
		c.Edit.TextHitRadius = edit.TextHitRadius
	}
	if c.Edit.HandleHitRadius <= 0 {
		c.Edit.HandleHitRadius = edit.HandleHitRadius
	}
	if c.Edit.LineHitRadius <= 0 {
		c.Edit.LineHitRadius = edit.LineHitRadius
	}
	if c.Edit.MinFrameSize <= 0 {
		c.Edit.MinFrameSize = edit.MinFrameSize
	}
	if c.Edit.MaxFrameSize <= 0 {
		c.Edit.MaxFrameSize = edit.MaxFrameSize
	}
	if c.Edit.DefaultFrameSize <= 0 {
		c.Edit.DefaultFrameSize = edit.DefaultFrameSize
	}
	if c.Edit.PerspectiveFrameFraction <= 0 {
		c.Edit.PerspectiveFrameFraction = edit.PerspectiveFrameFraction
	}
	if c.Edit.FallbackMetersPerPixel <= 0 {
		c.Edit.FallbackMetersPerPixel = edit.FallbackMetersPerPixel
	}
	if c.Edit.FrameColor == "" {
		c.Edit.FrameColor = edit.FrameColor
	}
	if c.Edit.TextColor == "" {
		c.Edit.TextColor = edit.TextColor
	}

	if c.Storage.DBPath == "" {
		c.Storage.DBPath = "roomsnap.db"
	}
	if c.Storage.ImageDir == "" {
		c.Storage.ImageDir = "images"
	}
	if c.Storage.MaxImageDimension <= 0 {
		c.Storage.MaxImageDimension = 2048
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate rejects settings the engine cannot work with
func (c *Config) Validate() error {
	if c.Scan.MinCornerAngle > c.Scan.MaxCornerAngle {
		return fmt.Errorf("scan: min_corner_angle %v exceeds max_corner_angle %v", c.Scan.MinCornerAngle, c.Scan.MaxCornerAngle)
	}
	if c.Edit.MinFrameSize > c.Edit.MaxFrameSize {
		return fmt.Errorf("edit: min_frame_size %v exceeds max_frame_size %v", c.Edit.MinFrameSize, c.Edit.MaxFrameSize)
	}
	if c.Edit.MaxFrameSize > 1 {
		return fmt.Errorf("edit: max_frame_size %v exceeds the image", c.Edit.MaxFrameSize)
	}
	if c.Edit.PerspectiveFrameFraction > 1 {
		return fmt.Errorf("edit: perspective_frame_fraction %v exceeds 1", c.Edit.PerspectiveFrameFraction)
	}
	return nil
}

// LoadFile reads a YAML config file. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg.defaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.defaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Detector returns the corner detector settings
func (c *Config) Detector() scene.DetectorConfig {
	return scene.DetectorConfig{
		MinAngleDegrees:   c.Scan.MinCornerAngle,
		MaxAngleDegrees:   c.Scan.MaxCornerAngle,
		MaxCenterDistance: c.Scan.MaxCenterDistance,
	}
}

// Snap returns the snapping settings
func (c *Config) Snap() scene.SnapConfig {
	return scene.SnapConfig{
		CornerRadius: c.Scan.CornerSnapRadius,
		EdgeRadius:   c.Scan.EdgeSnapRadius,
	}
}

// Editing returns the offsite editing settings
func (c *Config) Editing() document.EditConfig {
	return document.EditConfig{
		EndpointHitRadius:        c.Edit.EndpointHitRadius,
		TextHitRadius:            c.Edit.TextHitRadius,
		HandleHitRadius:          c.Edit.HandleHitRadius,
		LineHitRadius:            c.Edit.LineHitRadius,
		MinFrameSize:             c.Edit.MinFrameSize,
		MaxFrameSize:             c.Edit.MaxFrameSize,
		DefaultFrameSize:         c.Edit.DefaultFrameSize,
		PerspectiveFrameFraction: c.Edit.PerspectiveFrameFraction,
		FallbackMetersPerPixel:   c.Edit.FallbackMetersPerPixel,
		FrameColor:               c.Edit.FrameColor,
		TextColor:                c.Edit.TextColor,
	}
}
