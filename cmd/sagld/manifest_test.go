package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, data string) string {
	t.Helper()
	path := filepath.Join(dir, "sagld.toml")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write sagld.toml: %v", err)
	}
	return path
}

func TestLoadProjectConfig(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, `# test manifest
[package]
name = "firmware"
version = "0.1.0"

[memory]
sag = "layouts/boot.sag"
layout = "ilm"
output = "out/memory.x"
`)
	cfg, err := loadProjectConfig(path)
	if err != nil {
		t.Fatalf("loadProjectConfig: %v", err)
	}
	if cfg.Package.Name != "firmware" {
		t.Errorf("Package.Name = %q, want firmware", cfg.Package.Name)
	}
	if cfg.Memory.Sag != "layouts/boot.sag" || cfg.Memory.Layout != "ilm" || cfg.Memory.Output != "out/memory.x" {
		t.Errorf("unexpected [memory]: %+v", cfg.Memory)
	}
}

func TestLoadProjectConfigDefaults(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, `[package]
name = "firmware"

[memory]
sag = "memory.sag"
`)
	cfg, err := loadProjectConfig(path)
	if err != nil {
		t.Fatalf("loadProjectConfig: %v", err)
	}
	if cfg.Memory.Layout != "ddr" {
		t.Errorf("Memory.Layout = %q, want default ddr", cfg.Memory.Layout)
	}
	if cfg.Memory.Output != "memory.x" {
		t.Errorf("Memory.Output = %q, want default memory.x", cfg.Memory.Output)
	}
}

func TestLoadProjectConfigMissingSag(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, `[package]
name = "firmware"

[memory]
layout = "ddr"
`)
	_, err := loadProjectConfig(path)
	if err == nil || !strings.Contains(err.Error(), "[memory].sag") {
		t.Fatalf("err = %v, want missing [memory].sag", err)
	}
}

func TestFindSagldTomlWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `[package]
name = "firmware"

[memory]
sag = "memory.sag"
`)
	nested := filepath.Join(root, "src", "boot")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, ok, err := findSagldToml(nested)
	if err != nil {
		t.Fatalf("findSagldToml: %v", err)
	}
	if !ok {
		t.Fatal("manifest not found from nested directory")
	}
	if path != filepath.Join(root, "sagld.toml") {
		t.Errorf("path = %q, want manifest at project root", path)
	}
}

func TestResolveMemoryTarget(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `[package]
name = "firmware"

[memory]
sag = "layouts/boot.sag"
layout = "ILM"
output = "memory.x"
`)
	manifest, found, err := loadProjectManifest(root)
	if err != nil || !found {
		t.Fatalf("loadProjectManifest: found=%v err=%v", found, err)
	}

	sagPath, outputPath, cfg, err := resolveMemoryTarget(manifest)
	if err != nil {
		t.Fatalf("resolveMemoryTarget: %v", err)
	}
	if sagPath != filepath.Join(root, "layouts", "boot.sag") {
		t.Errorf("sagPath = %q", sagPath)
	}
	if outputPath != filepath.Join(root, "memory.x") {
		t.Errorf("outputPath = %q", outputPath)
	}
	if cfg.Name != "AE350 ILM" {
		t.Errorf("layout = %q, want AE350 ILM", cfg.Name)
	}
}

func TestResolveMemoryTargetUnknownLayout(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `[package]
name = "firmware"

[memory]
sag = "memory.sag"
layout = "sram"
`)
	manifest, _, err := loadProjectManifest(root)
	if err != nil {
		t.Fatalf("loadProjectManifest: %v", err)
	}
	if _, _, _, err := resolveMemoryTarget(manifest); err == nil {
		t.Fatal("unknown layout accepted")
	}
}
