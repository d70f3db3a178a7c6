// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Calderic Instruments

package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "fumarole")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

func TestLoadFileConfig(t *testing.T) {
	writeConfig(t, "port: /dev/ttyUSB3\nbaud: 230400\nurl: ws://bench.local/tephra\nusername: lab\n")

	cfg, err := loadFileConfig()
	if err != nil {
		t.Fatalf("loadFileConfig failed: %v", err)
	}
	if cfg == nil {
		t.Fatal("Expected config, got nil")
	}

	if cfg.Port != "/dev/ttyUSB3" {
		t.Errorf("Port = %q, expected /dev/ttyUSB3", cfg.Port)
	}
	if cfg.Baud != 230400 {
		t.Errorf("Baud = %d, expected 230400", cfg.Baud)
	}
	if cfg.URL != "ws://bench.local/tephra" {
		t.Errorf("URL = %q, expected ws://bench.local/tephra", cfg.URL)
	}
	if cfg.Username != "lab" {
		t.Errorf("Username = %q, expected lab", cfg.Username)
	}
}

func TestLoadFileConfigMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadFileConfig()
	if err != nil {
		t.Fatalf("Missing config file should not be an error, got: %v", err)
	}
	if cfg != nil {
		t.Errorf("Expected nil config for missing file, got %+v", cfg)
	}
}

func TestLoadFileConfigMalformed(t *testing.T) {
	writeConfig(t, "port: [this is\nnot yaml\n")

	_, err := loadFileConfig()
	if err == nil {
		t.Error("Expected parse error for malformed config")
	}
}

func TestLoadFileConfigPartial(t *testing.T) {
	writeConfig(t, "port: /dev/ttyACM0\n")

	cfg, err := loadFileConfig()
	if err != nil {
		t.Fatalf("loadFileConfig failed: %v", err)
	}
	if cfg.Port != "/dev/ttyACM0" {
		t.Errorf("Port = %q, expected /dev/ttyACM0", cfg.Port)
	}
	if cfg.Baud != 0 {
		t.Errorf("Baud = %d, expected 0 for unset key", cfg.Baud)
	}
	if cfg.URL != "" || cfg.Username != "" {
		t.Errorf("Unset keys should stay empty, got url=%q username=%q", cfg.URL, cfg.Username)
	}
}
