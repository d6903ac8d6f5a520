package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yourusername/yabactl/internal/wm"
)

func TestLoadConfigYAML(t *testing.T) {
	content := `
settings:
  yabaiPath: /opt/homebrew/bin/yabai
  timeoutSeconds: 5
  notifications: true
spaces:
  - label: 1_files
    icon: "📁"
    display: 1
  - label: 2_www
    display: 2
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Settings.YabaiPath != "/opt/homebrew/bin/yabai" {
		t.Errorf("yabaiPath = %q", cfg.Settings.YabaiPath)
	}
	if cfg.Settings.TimeoutSeconds != 5 {
		t.Errorf("timeoutSeconds = %d", cfg.Settings.TimeoutSeconds)
	}
	if !cfg.Settings.Notifications {
		t.Error("notifications should be on")
	}
	if len(cfg.Spaces) != 2 {
		t.Fatalf("got %d spaces, want 2", len(cfg.Spaces))
	}
	if cfg.Spaces[0].Label != "1_files" || cfg.Spaces[0].Icon != "📁" {
		t.Errorf("first def = %+v", cfg.Spaces[0])
	}
	if cfg.Spaces[1].Display != 2 {
		t.Errorf("second def display = %d, want 2", cfg.Spaces[1].Display)
	}
}

func TestLoadConfigJSON(t *testing.T) {
	content := `{"spaces": [{"label": "1_files", "display": 1}]}`
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Spaces[0].Label != "1_files" {
		t.Errorf("label = %q", cfg.Spaces[0].Label)
	}
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	cfg, err := LoadConfigFromBytes([]byte(`spaces: [{label: 1_files, display: 1}]`), "yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Settings.YabaiPath != "yabai" {
		t.Errorf("default yabaiPath = %q", cfg.Settings.YabaiPath)
	}
	if cfg.Settings.TimeoutSeconds != 10 {
		t.Errorf("default timeoutSeconds = %d", cfg.Settings.TimeoutSeconds)
	}
	if cfg.Settings.Notifications {
		t.Error("notifications should default off")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadConfigUnsupportedFormat(t *testing.T) {
	if _, err := LoadConfigFromBytes([]byte("x"), "toml"); err == nil {
		t.Fatal("expected an error for an unsupported format")
	}
}

func TestValidateRejectsBadDeclarations(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no spaces", Config{}},
		{"empty label", Config{Spaces: []SpaceDef{{Label: "  ", Display: 1}}}},
		{"padded label", Config{Spaces: []SpaceDef{{Label: " 1_files", Display: 1}}}},
		{"keyword label", Config{Spaces: []SpaceDef{{Label: "next", Display: 1}}}},
		{"direction label", Config{Spaces: []SpaceDef{{Label: "west", Display: 1}}}},
		{"numeric label", Config{Spaces: []SpaceDef{{Label: "42", Display: 1}}}},
		{"zero display", Config{Spaces: []SpaceDef{{Label: "1_files", Display: 0}}}},
		{"duplicate labels", Config{Spaces: []SpaceDef{
			{Label: "1_files", Display: 1},
			{Label: "1_FILES", Display: 2},
		}}},
		{"negative timeout", Config{
			Settings: Settings{TimeoutSeconds: -1},
			Spaces:   []SpaceDef{{Label: "1_files", Display: 1}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); !errors.Is(err, wm.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestValidateAcceptsGoodConfig(t *testing.T) {
	cfg := Config{Spaces: []SpaceDef{
		{Label: "1_files", Display: 1},
		{Label: "2_www", Display: 2},
	}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLabelsAndDefByLabel(t *testing.T) {
	defs := []SpaceDef{
		{Label: "1_files", Display: 1},
		{Label: "2_www", Display: 2},
	}
	labels := Labels(defs)
	if len(labels) != 2 || labels[0] != "1_files" || labels[1] != "2_www" {
		t.Errorf("labels = %v", labels)
	}
	if def := DefByLabel(defs, "2_www"); def == nil || def.Display != 2 {
		t.Errorf("DefByLabel(2_www) = %+v", def)
	}
	if def := DefByLabel(defs, "missing"); def != nil {
		t.Errorf("DefByLabel(missing) = %+v, want nil", def)
	}
}
