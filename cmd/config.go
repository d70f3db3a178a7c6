// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Calderic Instruments

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// fileConfig holds connection defaults loaded from the optional config file.
// Flags given on the command line always win over file values.
type fileConfig struct {
	Port     string `yaml:"port"`
	Baud     int    `yaml:"baud"`
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
}

// configPath returns the config file location, honoring XDG_CONFIG_HOME.
func configPath() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "fumarole", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "fumarole", "config.yaml"), nil
}

// loadFileConfig reads the config file. A missing file is not an error.
func loadFileConfig() (*fileConfig, error) {
	path, err := configPath()
	if err != nil {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := &fileConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// applyConfigDefaults fills unset connection flags from the config file.
func applyConfigDefaults(cmd *cobra.Command, args []string) error {
	cfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	if cfg == nil {
		return nil
	}

	flags := cmd.Root().PersistentFlags()
	if portName == "" && !flags.Changed("port") {
		portName = cfg.Port
	}
	if cfg.Baud > 0 && !flags.Changed("baud") {
		baudRate = cfg.Baud
	}
	if wsURL == "" && !flags.Changed("url") {
		wsURL = cfg.URL
	}
	if wsUsername == "" && !flags.Changed("username") {
		wsUsername = cfg.Username
	}

	return nil
}
