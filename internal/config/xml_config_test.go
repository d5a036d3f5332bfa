package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CADProfiler.config")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 8090 {
		t.Errorf("Expected default port 8090, got %d", cfg.Server.Port)
	}
	if cfg.Analysis.DefaultWorkflow != "cnc-machining" {
		t.Errorf("Expected default workflow cnc-machining, got %s", cfg.Analysis.DefaultWorkflow)
	}
	if !cfg.Storage.EnableHistory {
		t.Error("Expected history enabled by default")
	}

	// Default file should have been written with the XML header comment
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected default config file to exist: %v", err)
	}
	if !strings.Contains(string(data), "CAD File Profiler Configuration") {
		t.Error("Expected generated config header comment")
	}
}

func TestLoadConfigRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CADProfiler.config")

	cfg := DefaultConfig()
	cfg.Server.Port = 9999
	cfg.Security.AllowedFileTypes = ".stl,.obj"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Server.Port != 9999 {
		t.Errorf("Expected port 9999, got %d", loaded.Server.Port)
	}
	if loaded.Security.AllowedFileTypes != ".stl,.obj" {
		t.Errorf("Expected restricted file types, got %s", loaded.Security.AllowedFileTypes)
	}
}

func TestLoadConfigResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CADProfiler.config")

	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if !filepath.IsAbs(cfg.GetDataDir()) {
		t.Errorf("Expected absolute data dir, got %s", cfg.GetDataDir())
	}
	if !strings.HasPrefix(cfg.GetUploadDir(), dir) {
		t.Errorf("Expected upload dir under %s, got %s", dir, cfg.GetUploadDir())
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("DEFAULT_WORKFLOW", "sheet-metal")

	path := filepath.Join(t.TempDir(), "CADProfiler.config")
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Expected PORT override 7070, got %d", cfg.Server.Port)
	}
	if cfg.Analysis.DefaultWorkflow != "sheet-metal" {
		t.Errorf("Expected workflow override, got %s", cfg.Analysis.DefaultWorkflow)
	}
}

func TestGetServerAddr(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.GetServerAddr() != "0.0.0.0:8090" {
		t.Errorf("Unexpected server addr %s", cfg.GetServerAddr())
	}
}
