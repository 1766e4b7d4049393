package ctl

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/large-farva/lrit-organizer/internal/config"
)

// Config fetches and displays the daemon's running configuration.
func Config(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	// Decode into a generic map to preserve all fields for both display modes.
	var raw json.RawMessage
	if err := getJSON(baseURL, "/api/config", &raw); err != nil {
		return err
	}

	if jsonOutput {
		var v any
		_ = json.Unmarshal(raw, &v)
		return printJSON(v)
	}

	var cfg config.Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(header("  DAEMON CONFIGURATION"))
	fmt.Println(rule(50))

	section := func(name string) {
		fmt.Printf("\n  %s\n", colorize(bold, "["+name+"]"))
	}
	field := func(key string, val any) {
		fmt.Printf("    %-20s %v\n", colorize(dim, key+":"), val)
	}

	section("data")
	field("root", cfg.Data.Root)

	section("scan")
	field("extension", cfg.Scan.Extension)
	field("interval_seconds", cfg.Scan.IntervalSeconds)

	section("logging")
	field("level", cfg.Logging.Level)

	section("server")
	field("bind", cfg.Server.Bind)

	section("demo")
	field("enabled", cfg.Demo.Enabled)
	field("interval_seconds", cfg.Demo.IntervalSeconds)

	section("station")
	field("latitude", cfg.Station.Latitude)
	field("longitude", cfg.Station.Longitude)
	field("altitude", cfg.Station.Altitude)
	field("min_elevation", cfg.Station.MinElevation)
	field("use_gpsd", cfg.Station.UseGPSD)
	field("gpsd_host", cfg.Station.GPSDHost)

	section("visibility")
	field("tle_url", cfg.Visibility.TLEURL)
	field("tle_refresh_hours", cfg.Visibility.TLERefreshHours)
	field("lookahead_hours", cfg.Visibility.LookaheadHours)

	fmt.Println()

	return nil
}
