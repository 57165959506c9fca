package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default(1920, 1080)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, want nil", err)
	}
	if cfg.ShadowMapWidth != 1920 || cfg.ShadowMapHeight != 1080 {
		t.Errorf("shadow map dims = %dx%d, want 1920x1080", cfg.ShadowMapWidth, cfg.ShadowMapHeight)
	}
}

func TestLoadFillsOmittedFieldsWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.toml")
	if err := os.WriteFile(path, []byte("tile_size = 64\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, 800, 600)
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if cfg.TileSize != 64 {
		t.Errorf("TileSize = %d, want 64 (from file)", cfg.TileSize)
	}
	if cfg.CompressionEps != 0.0125 {
		t.Errorf("CompressionEps = %v, want 0.0125 (default)", cfg.CompressionEps)
	}
	if cfg.ShadowMapWidth != 800 || cfg.ShadowMapHeight != 600 {
		t.Errorf("shadow map dims = %dx%d, want 800x600 (default)", cfg.ShadowMapWidth, cfg.ShadowMapHeight)
	}
}

func TestValidateRejectsBadDimensions(t *testing.T) {
	cfg := Default(0, 100)
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for zero width")
	}
}

func TestValidateRejectsZeroTileSize(t *testing.T) {
	cfg := Default(100, 100)
	cfg.TileSize = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for zero tile_size")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"), 100, 100)
	if err == nil {
		t.Fatal("Load() = nil, want error for missing file")
	}
}
