// Package config handles loading, defaulting, and validation of the
// organizer's TOML configuration file. Every section maps to a typed struct
// so the rest of the codebase gets strong typing without manual key lookups.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration, mirroring the TOML sections.
type Config struct {
	Data       DataConfig       `toml:"data"       json:"data"`
	Scan       ScanConfig       `toml:"scan"       json:"scan"`
	Logging    LoggingConfig    `toml:"logging"    json:"logging"`
	Server     ServerConfig     `toml:"server"     json:"server"`
	Demo       DemoConfig       `toml:"demo"       json:"demo"`
	Station    StationConfig    `toml:"station"    json:"station"`
	Visibility VisibilityConfig `toml:"visibility" json:"visibility"`
}

type DataConfig struct {
	Root string `toml:"root" json:"root"`
}

type ScanConfig struct {
	Extension       string `toml:"extension"        json:"extension"`
	IntervalSeconds int    `toml:"interval_seconds" json:"interval_seconds"`
}

type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
}

type ServerConfig struct {
	Bind string `toml:"bind" json:"bind"`
}

type DemoConfig struct {
	Enabled         bool `toml:"enabled"          json:"enabled"`
	IntervalSeconds int  `toml:"interval_seconds" json:"interval_seconds"`
}

type StationConfig struct {
	Latitude     float64 `toml:"latitude"      json:"latitude"`
	Longitude    float64 `toml:"longitude"     json:"longitude"`
	Altitude     float64 `toml:"altitude"      json:"altitude"`
	MinElevation float64 `toml:"min_elevation" json:"min_elevation"`
	UseGPSD      bool    `toml:"use_gpsd"      json:"use_gpsd"`
	GPSDHost     string  `toml:"gpsd_host"     json:"gpsd_host"`
}

type VisibilityConfig struct {
	TLEURL          string `toml:"tle_url"           json:"tle_url"`
	TLERefreshHours int    `toml:"tle_refresh_hours" json:"tle_refresh_hours"`
	LookaheadHours  int    `toml:"lookahead_hours"   json:"lookahead_hours"`
}

// Default returns a Config populated with sane defaults. Values here are
// used whenever the TOML file omits a field.
func Default() Config {
	return Config{
		Data: DataConfig{
			Root: "/var/lib/lrit",
		},
		Scan: ScanConfig{
			Extension:       ".lrit",
			IntervalSeconds: 30,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Bind: "0.0.0.0:8080",
		},
		Demo: DemoConfig{
			Enabled:         false,
			IntervalSeconds: 60,
		},
		Station: StationConfig{
			MinElevation: 5,
			UseGPSD:      false,
			GPSDHost:     "localhost:2947",
		},
		Visibility: VisibilityConfig{
			TLEURL:          "https://celestrak.org/NORAD/elements/gp.php?GROUP=geo&FORMAT=tle",
			TLERefreshHours: 72,
			LookaheadHours:  24,
		},
	}
}

// Load reads the TOML file at path, layers it on top of the defaults, and
// validates the result. An error is returned if the file can't be read,
// parsed, or if any constraint is violated.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not
// exist and the caller did not ask for it explicitly. source is path when
// the file was read and empty when defaults are in use.
func LoadOrDefault(path string, explicit bool) (cfg Config, source string, err error) {
	cfg, err = Load(path)
	if err == nil {
		return cfg, path, nil
	}
	if explicit || !errors.Is(err, os.ErrNotExist) {
		return cfg, "", err
	}
	return Default(), "", nil
}

// Validate checks cross-field constraints on a loaded config.
func Validate(cfg Config) error {
	if cfg.Data.Root == "" {
		return errors.New("data.root must not be empty")
	}
	if !strings.HasPrefix(cfg.Scan.Extension, ".") {
		return errors.New("scan.extension must start with '.'")
	}
	if cfg.Scan.IntervalSeconds < 1 {
		return errors.New("scan.interval_seconds must be >= 1")
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("logging.level must be one of debug, info, warn, error")
	}
	if cfg.Demo.IntervalSeconds < 0 {
		return errors.New("demo.interval_seconds must be >= 0")
	}
	if cfg.Station.MinElevation < 0 || cfg.Station.MinElevation > 90 {
		return errors.New("station.min_elevation must be between 0 and 90")
	}
	if cfg.Visibility.TLERefreshHours < 1 {
		return errors.New("visibility.tle_refresh_hours must be >= 1")
	}
	if cfg.Visibility.LookaheadHours < 1 {
		return errors.New("visibility.lookahead_hours must be >= 1")
	}
	return nil
}
