package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `default_dir = "/work/app/.product"
features_dir = "/work/app/.features"
stale_days = 21

[ui]
accent = "#7C3AED"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.DefaultDir != "/work/app/.product" {
		t.Errorf("DefaultDir = %q", cfg.DefaultDir)
	}
	if cfg.StaleDays != 21 {
		t.Errorf("StaleDays = %d", cfg.StaleDays)
	}
	if cfg.UI.Accent != "#7C3AED" {
		t.Errorf("UI.Accent = %q", cfg.UI.Accent)
	}
}

func TestLoadFromInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("default_dir = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	content := "stale_days: 7\nfeatures_dir: custom-features\n"
	if err := os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	settings, err := LoadSettings(dir)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if settings.StaleDays != 7 {
		t.Errorf("StaleDays = %d", settings.StaleDays)
	}
	if settings.FeaturesDir != "custom-features" {
		t.Errorf("FeaturesDir = %q", settings.FeaturesDir)
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	settings, err := LoadSettings(t.TempDir())
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if settings.StaleDays != 0 || settings.FeaturesDir != "" {
		t.Errorf("expected zero settings, got %+v", settings)
	}
}
