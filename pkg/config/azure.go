package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// CLIDefaults are the workspace defaults a user may have set with
// `az configure --defaults`; both fields are optional.
type CLIDefaults struct {
	Location string
	Group    string
}

// LoadCLIDefaults reads ~/.azure/config. A missing file is not an error, it
// just means no defaults were configured.
func LoadCLIDefaults() (CLIDefaults, error) {
	configDir, err := azureConfigDir()
	if err != nil {
		return CLIDefaults{}, err
	}

	configPath := filepath.Join(configDir, "config")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return CLIDefaults{}, nil
	}

	cfg, err := ini.Load(configPath)
	if err != nil {
		return CLIDefaults{}, fmt.Errorf("failed to load azure config file: %w", err)
	}

	section := cfg.Section("defaults")
	return CLIDefaults{
		Location: section.Key("location").String(),
		Group:    section.Key("group").String(),
	}, nil
}

// azureConfigDir resolves the az CLI configuration directory, honoring the
// AZURE_CONFIG_DIR override.
func azureConfigDir() (string, error) {
	if dir := os.Getenv("AZURE_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".azure"), nil
}
