package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("explicit missing config must fail")
	}
	_ = cfg

	// Implicit config is optional: loading from a directory without one
	// yields defaults.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(wd) }()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}

	cfg, err = loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.DefaultFormat != "native" {
		t.Errorf("default format = %q, want native", cfg.DefaultFormat)
	}
	if cfg.ListenAddr == "" {
		t.Error("listen address default missing")
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diaflow.toml")
	content := "default_format = \"light\"\nlisten_addr = \"0.0.0.0:9000\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.DefaultFormat != "light" {
		t.Errorf("default format = %q, want light", cfg.DefaultFormat)
	}
	if cfg.ListenAddr != "0.0.0.0:9000" {
		t.Errorf("listen addr = %q", cfg.ListenAddr)
	}
}
