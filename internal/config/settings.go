package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SettingsFileName is the optional per-product settings file.
const SettingsFileName = "settings.yaml"

// Settings are per-product overrides, stored alongside the entities so
// they travel with the repository.
type Settings struct {
	// StaleDays overrides how long a feedback may sit in new/ before the
	// check command flags it.
	StaleDays int `yaml:"stale_days"`

	// FeaturesDir overrides where promoted feature files are written,
	// relative to the repository root when not absolute.
	FeaturesDir string `yaml:"features_dir"`
}

// LoadSettings reads settings.yaml from the product directory. A missing
// file yields zero settings and no error.
func LoadSettings(productDir string) (*Settings, error) {
	path := filepath.Join(productDir, SettingsFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &settings, nil
}
