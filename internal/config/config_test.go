package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "organizer.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_LayersOverDefaults(t *testing.T) {
	path := writeConfig(t, `
[data]
root = "/srv/lrit"

[scan]
interval_seconds = 5

[station]
latitude = 40.5
longitude = -74.2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data.Root != "/srv/lrit" || cfg.Scan.IntervalSeconds != 5 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Scan.Extension != ".lrit" || cfg.Logging.Level != "info" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Station.Latitude != 40.5 || cfg.Station.GPSDHost != "localhost:2947" {
		t.Errorf("station = %+v", cfg.Station)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad toml", "[data\nroot=", ""},
		{"empty root", "[data]\nroot = \"\"", "data.root"},
		{"extension", "[scan]\nextension = \"lrit\"", "scan.extension"},
		{"interval", "[scan]\ninterval_seconds = 0", "scan.interval_seconds"},
		{"level", "[logging]\nlevel = \"loud\"", "logging.level"},
		{"elevation", "[station]\nmin_elevation = 95.0", "min_elevation"},
		{"lookahead", "[visibility]\nlookahead_hours = 0", "lookahead_hours"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	cfg, source, err := LoadOrDefault(missing, false)
	if err != nil || source != "" || cfg != Default() {
		t.Errorf("implicit missing file: cfg=%+v source=%q err=%v", cfg, source, err)
	}

	if _, _, err := LoadOrDefault(missing, true); err == nil {
		t.Error("explicit missing file: expected error")
	}

	path := writeConfig(t, "")
	if _, source, err := LoadOrDefault(path, false); err != nil || source != path {
		t.Errorf("existing file: source=%q err=%v", source, err)
	}

	bad := writeConfig(t, "[scan]\ninterval_seconds = 0\n")
	if _, _, err := LoadOrDefault(bad, false); err == nil {
		t.Error("invalid file: expected error")
	}
}
