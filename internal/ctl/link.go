package ctl

import (
	"fmt"
	"strings"
	"time"
)

type linkReport struct {
	Station struct {
		Lat    float64 `json:"lat"`
		Lon    float64 `json:"lon"`
		Alt    float64 `json:"alt"`
		Source string  `json:"source"`
	} `json:"station"`
	MinElevation float64   `json:"min_elevation"`
	Computed     time.Time `json:"computed"`
	TLEError     string    `json:"tle_error"`
	Links        []struct {
		Satellite string  `json:"satellite"`
		NoradID   int     `json:"norad_id"`
		Longitude float64 `json:"longitude"`
		Elevation float64 `json:"elevation"`
		Azimuth   float64 `json:"azimuth"`
		Visible   bool    `json:"visible"`
		HasTLE    bool    `json:"has_tle"`
		Windows   []struct {
			Start        time.Time `json:"start"`
			End          time.Time `json:"end"`
			MaxElevation float64   `json:"max_elevation"`
		} `json:"windows"`
	} `json:"links"`
}

// Link shows which catalog satellites the station can receive. With refresh
// set the daemon downloads fresh TLEs first.
func Link(baseURL string, refresh, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	path := "/api/link"
	if refresh {
		path += "?refresh=true"
	}
	var rep linkReport
	if err := getJSON(baseURL, path, &rep); err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(rep)
	}

	fmt.Println()
	fmt.Println(header("  DOWNLINK VISIBILITY"))
	fmt.Printf("  %s %.4f, %.4f, %.0fm (%s), min elevation %.0f°\n",
		colorize(dim, "station"), rep.Station.Lat, rep.Station.Lon, rep.Station.Alt, rep.Station.Source, rep.MinElevation)
	if rep.TLEError != "" {
		fmt.Printf("  %s %s\n", colorize(yellow, "nominal positions only:"), colorize(dim, rep.TLEError))
	}

	t := newTable("  ", "Satellite", "NORAD ID", "Elevation", "Azimuth", "Link", "Window")
	t.alignRight(2)
	t.alignRight(3)
	for _, l := range rep.Links {
		link := colorize(red, "no")
		if l.Visible {
			link = colorize(green, "yes")
		}
		window := colorize(dim, "-")
		if !l.HasTLE {
			window = colorize(dim, "no TLE")
		}
		if len(l.Windows) > 0 {
			w := l.Windows[0]
			window = fmt.Sprintf("until %s", w.End.Local().Format("Jan 2 15:04"))
			if w.Start.After(time.Now()) {
				window = fmt.Sprintf("from %s", w.Start.Local().Format("Jan 2 15:04"))
			}
		}
		t.row(l.Satellite, fmt.Sprintf("%d", l.NoradID),
			fmt.Sprintf("%.1f°", l.Elevation), fmt.Sprintf("%.1f°", l.Azimuth), link, window)
	}
	t.flush()
	fmt.Println()
	return nil
}
