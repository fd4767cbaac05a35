package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"sagld/internal/layout"
)

const noSagldTomlMessage = "no sagld.toml found\nplease specify the project directory explicitly, e.g.:\n  sagld emit path/to/project"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Package packageConfig `toml:"package"`
	Memory  memoryConfig  `toml:"memory"`
}

type packageConfig struct {
	Name string `toml:"name"`
}

type memoryConfig struct {
	Sag    string `toml:"sag"`
	Layout string `toml:"layout"`
	Output string `toml:"output"`
}

func findSagldToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "sagld.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findSagldToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return projectConfig{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if !meta.IsDefined("memory") {
		return projectConfig{}, fmt.Errorf("%s: missing [memory]", path)
	}
	if !meta.IsDefined("memory", "sag") || strings.TrimSpace(cfg.Memory.Sag) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [memory].sag", path)
	}
	if !meta.IsDefined("memory", "layout") {
		cfg.Memory.Layout = "ddr"
	}
	if !meta.IsDefined("memory", "output") {
		cfg.Memory.Output = "memory.x"
	}
	return cfg, nil
}

// resolveMemoryTarget turns the manifest's [memory] section into absolute
// source and output paths plus the memory map to generate against.
func resolveMemoryTarget(manifest *projectManifest) (sagPath, outputPath string, cfg *layout.Config, err error) {
	if manifest == nil {
		return "", "", nil, fmt.Errorf("missing project manifest")
	}
	sagPath = filepath.Join(manifest.Root, filepath.FromSlash(strings.TrimSpace(manifest.Config.Memory.Sag)))
	outputPath = filepath.Join(manifest.Root, filepath.FromSlash(strings.TrimSpace(manifest.Config.Memory.Output)))
	key := strings.ToLower(strings.TrimSpace(manifest.Config.Memory.Layout))
	cfg, ok := layout.Preset(key)
	if !ok {
		return "", "", nil, fmt.Errorf("%s: unknown [memory].layout %q (supported: %s)",
			manifest.Path, manifest.Config.Memory.Layout, strings.Join(layout.PresetKeys(), ", "))
	}
	return sagPath, outputPath, cfg, nil
}
