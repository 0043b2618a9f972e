package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestResolveConfigDirPrecedence(t *testing.T) {
	t.Setenv("ORDERDESK_CONFIG_DIR", "/env/config")

	flagConfigDir = "/flag/config"
	defer func() { flagConfigDir = "" }()
	if got := resolveConfigDir(); got != "/flag/config" {
		t.Errorf("flag should win, got %s", got)
	}

	flagConfigDir = ""
	if got := resolveConfigDir(); got != "/env/config" {
		t.Errorf("env should win over default, got %s", got)
	}

	t.Setenv("ORDERDESK_CONFIG_DIR", "")
	if got := resolveConfigDir(); got != ".orderdesk" {
		t.Errorf("expected default .orderdesk, got %s", got)
	}
}

func TestDefaultDataDir(t *testing.T) {
	t.Setenv("ORDERDESK_DATA_DIR", "/env/data")
	if got := defaultDataDir(); got != "/env/data" {
		t.Errorf("env should win, got %s", got)
	}

	t.Setenv("ORDERDESK_DATA_DIR", "")
	if got := defaultDataDir(); got != ".orderdesk-db" {
		t.Errorf("expected default .orderdesk-db, got %s", got)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv("ORDERDESK_CONFIG_DIR", configDir)
	t.Setenv("ORDERDESK_DATA_DIR", "")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.Backend != "sqlite" {
		t.Errorf("expected sqlite backend, got %s", cfg.Backend)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.ListenAddr)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %s", cfg.RequestTimeout)
	}
	if !cfg.SeedStates {
		t.Error("seeding should default on")
	}

	// First run writes the default config file.
	if _, err := os.Stat(filepath.Join(configDir, "config.yaml")); err != nil {
		t.Errorf("default config.yaml not written: %v", err)
	}
}

func TestLoadConfigFlagsWin(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv("ORDERDESK_CONFIG_DIR", configDir)

	flagDataDir = "/flag/data"
	flagListenAddr = ":9090"
	defer func() {
		flagDataDir = ""
		flagListenAddr = ""
	}()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.DataDir != "/flag/data" {
		t.Errorf("expected flag data dir, got %s", cfg.DataDir)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("expected flag listen addr, got %s", cfg.ListenAddr)
	}
}

func TestLoadConfigCascade(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv("ORDERDESK_CONFIG_DIR", configDir)

	content := []byte("backend: sqlite\ncascade:\n  customer_invoices: true\n  invoice_line_items: false\n")
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if !cfg.Cascade["customer_invoices"] {
		t.Error("customer_invoices should cascade")
	}
	if cfg.Cascade["invoice_line_items"] {
		t.Error("invoice_line_items should block")
	}
}
