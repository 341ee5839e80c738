// Package config loads user-level defaults for the CLI and serve mode from
// a TOML file.
//
// Values set in the file are defaults only: any flag passed on the command
// line overrides the corresponding field. A missing config file is not an
// error - it just means every default from transform.DefaultParams and the
// CLI's own flag defaults applies unchanged.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/iongraph/iongraph/pkg/cfg/transform"
)

// DefaultPath returns ~/.config/iongraph/config.toml, falling back to a
// relative ".iongraph.toml" if the user's config directory can't be
// determined.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".iongraph.toml"
	}
	return filepath.Join(base, "iongraph", "config.toml")
}

// Config holds tunable defaults read from disk.
type Config struct {
	// Layout holds overrides for the layout engine's tuning parameters.
	// Any field left at its zero value keeps transform.DefaultParams's value.
	Layout LayoutConfig `toml:"layout"`

	// Render holds default output settings.
	Render RenderConfig `toml:"render"`

	// Cache holds cache backend selection for CLI and serve mode.
	Cache CacheConfig `toml:"cache"`

	// Serve holds defaults for the `serve` subcommand.
	Serve ServeConfig `toml:"serve"`
}

// LayoutConfig mirrors transform.Params, field for field, so a user can
// override any subset of the layout tuning constants.
type LayoutConfig struct {
	ContentPadding float64 `toml:"content_padding"`
	BlockGap       float64 `toml:"block_gap"`

	PortStart   float64 `toml:"port_start"`
	PortSpacing float64 `toml:"port_spacing"`
	ArrowRadius float64 `toml:"arrow_radius"`

	TrackPadding float64 `toml:"track_padding"`
	JointSpacing float64 `toml:"joint_spacing"`

	BackedgeArrowPushout float64 `toml:"backedge_arrow_pushout"`
	HeaderArrowPushdown  float64 `toml:"header_arrow_pushdown"`

	NearlyStraight           float64 `toml:"nearly_straight"`
	LayoutIterations         int     `toml:"layout_iterations"`
	NearlyStraightIterations int     `toml:"nearly_straight_iterations"`
}

// RenderConfig holds default output settings for the render/dot commands.
type RenderConfig struct {
	Formats []string `toml:"formats"`
	Labels  bool     `toml:"labels"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", or "none". Empty means "file".
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	Addr    string `toml:"addr"`
}

// ServeConfig holds defaults for the HTTP API.
type ServeConfig struct {
	Addr  string `toml:"addr"`
	Mongo string `toml:"mongo_uri"`
}

// Load reads and parses the config file at path. A missing file returns a
// zero-value Config and no error.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadDefault reads the config file at DefaultPath.
func LoadDefault() (Config, error) {
	return Load(DefaultPath())
}

// ApplyLayout overlays c's non-zero layout fields onto base, returning the
// merged parameters. Fields left at zero in the config keep base's value.
func (c Config) ApplyLayout(base transform.Params) transform.Params {
	l := c.Layout
	if l.ContentPadding != 0 {
		base.ContentPadding = l.ContentPadding
	}
	if l.BlockGap != 0 {
		base.BlockGap = l.BlockGap
	}
	if l.PortStart != 0 {
		base.PortStart = l.PortStart
	}
	if l.PortSpacing != 0 {
		base.PortSpacing = l.PortSpacing
	}
	if l.ArrowRadius != 0 {
		base.ArrowRadius = l.ArrowRadius
	}
	if l.TrackPadding != 0 {
		base.TrackPadding = l.TrackPadding
	}
	if l.JointSpacing != 0 {
		base.JointSpacing = l.JointSpacing
	}
	if l.BackedgeArrowPushout != 0 {
		base.BackedgeArrowPushout = l.BackedgeArrowPushout
	}
	if l.HeaderArrowPushdown != 0 {
		base.HeaderArrowPushdown = l.HeaderArrowPushdown
	}
	if l.NearlyStraight != 0 {
		base.NearlyStraight = l.NearlyStraight
	}
	if l.LayoutIterations != 0 {
		base.LayoutIterations = l.LayoutIterations
	}
	if l.NearlyStraightIterations != 0 {
		base.NearlyStraightIterations = l.NearlyStraightIterations
	}
	return base
}
