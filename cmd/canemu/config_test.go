package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muurk/canemu/internal/config"
)

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "canemu.yaml")

	got, err := initConfig(path, false)
	if err != nil {
		t.Fatalf("initConfig() error = %v", err)
	}
	if got != path {
		t.Errorf("initConfig() path = %q, want %q", got, path)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Version != 1 || cfg.Server.Port != config.DefaultPort {
		t.Errorf("written config = %+v, want defaults", cfg)
	}
}

func TestInitConfigExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canemu.yaml")
	if err := os.WriteFile(path, []byte("version: 1\nserver:\n  port: 9000\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := initConfig(path, false); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("initConfig() error = %v, want already exists", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("existing file was modified: port = %d", cfg.Server.Port)
	}

	if _, err := initConfig(path, true); err != nil {
		t.Fatalf("initConfig(force) error = %v", err)
	}
	cfg, err = config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != config.DefaultPort {
		t.Errorf("port after --force = %d, want %d", cfg.Server.Port, config.DefaultPort)
	}
}

func TestInitConfigDefaultLocation(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	path, err := initConfig("", false)
	if err != nil {
		t.Fatalf("initConfig() error = %v", err)
	}
	if !strings.HasPrefix(path, dir) {
		t.Errorf("initConfig() wrote %q, want a path under %q", path, dir)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not written: %v", err)
	}
}
