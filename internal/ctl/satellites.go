package ctl

import (
	"fmt"
	"strings"
)

// Satellites lists the geostationary satellite catalog from the daemon.
func Satellites(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		Satellites []struct {
			Name      string  `json:"name"`
			NoradID   int     `json:"norad_id"`
			Longitude float64 `json:"longitude"`
			FreqHz    int     `json:"freq_hz"`
		} `json:"satellites"`
	}
	if err := getJSON(baseURL, "/api/satellites", &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  SATELLITE CATALOG"))

	t := newTable("  ", "Name", "NORAD ID", "Longitude", "Frequency")
	t.alignRight(2)
	for _, s := range resp.Satellites {
		t.row(s.Name, fmt.Sprintf("%d", s.NoradID), formatLongitude(s.Longitude), fmt.Sprintf("%.1f MHz", float64(s.FreqHz)/1e6))
	}
	t.flush()
	fmt.Println()

	return nil
}

// formatLongitude renders degrees East as "75.2°W" / "140.7°E".
func formatLongitude(lon float64) string {
	if lon < 0 {
		return fmt.Sprintf("%.1f°W", -lon)
	}
	return fmt.Sprintf("%.1f°E", lon)
}
