// Package config loads the tunable parameters a pipeline is constructed
// with from a TOML file: tile size, worker count, DSM compression
// epsilon and shadow map resolution.
//
// Grounded on noisetorch-NoiseTorch's config.go (BurntSushi/toml
// decode-into-struct pattern), adapted from an XDG user-config file to
// a pipeline construction descriptor with fail-fast validation instead
// of log.Fatal.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// PipelineConfig mirrors raster.ParallelConfig plus the shadow-map and
// DSM parameters the rest of the pipeline needs at construction time.
// Load decodes a file over Default's values, so a field absent from the
// file keeps its default while an explicit zero overrides it; Validate
// replaces nothing and only rejects out-of-range values. A zero Workers
// or MinTriangles is resolved later by raster.NewParallelRasterizer.
type PipelineConfig struct {
	Width, Height int `toml:"width"`

	Workers      int `toml:"workers"`
	TileSize     int `toml:"tile_size"`
	MinTriangles int `toml:"min_triangles"`

	ShadowMapWidth  int     `toml:"shadow_map_width"`
	ShadowMapHeight int     `toml:"shadow_map_height"`
	CompressionEps  float64 `toml:"compression_epsilon"`
}

// Default returns a PipelineConfig with this module's documented
// defaults: a 32px tile, one worker per CPU (resolved at construction,
// not here), the spec's preferred compression epsilon, and a shadow map
// matching the framebuffer resolution.
func Default(width, height int) PipelineConfig {
	return PipelineConfig{
		Width:           width,
		Height:          height,
		Workers:         0,
		TileSize:        32,
		MinTriangles:    10,
		ShadowMapWidth:  width,
		ShadowMapHeight: height,
		CompressionEps:  0.0125,
	}
}

// Load decodes a PipelineConfig from a TOML file at path, filling any
// field the file omits with Default's value for that field, then
// validates the result.
func Load(path string, width, height int) (PipelineConfig, error) {
	cfg := Default(width, height)
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return PipelineConfig{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	_ = meta
	if err := cfg.Validate(); err != nil {
		return PipelineConfig{}, err
	}
	return cfg, nil
}

// Validate fails fast on configuration values the pipeline cannot act
// on, per this module's boundary-validation convention (see
// scene.NewCamera, scene.NewPerspectiveLight).
func (c PipelineConfig) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("config: framebuffer dimensions must be >= 1, got %dx%d", c.Width, c.Height)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must be >= 0 (0 means runtime.NumCPU), got %d", c.Workers)
	}
	if c.TileSize < 1 {
		return fmt.Errorf("config: tile_size must be >= 1, got %d", c.TileSize)
	}
	if c.MinTriangles < 0 {
		return fmt.Errorf("config: min_triangles must be >= 0, got %d", c.MinTriangles)
	}
	if c.ShadowMapWidth < 1 || c.ShadowMapHeight < 1 {
		return fmt.Errorf("config: shadow map dimensions must be >= 1, got %dx%d", c.ShadowMapWidth, c.ShadowMapHeight)
	}
	if c.CompressionEps < 0 {
		return fmt.Errorf("config: compression_epsilon must be >= 0, got %v", c.CompressionEps)
	}
	return nil
}
