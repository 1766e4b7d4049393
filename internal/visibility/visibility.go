// Package visibility answers whether the ground station can hear each
// catalog satellite. Geostationary birds barely move, so the nominal look
// angle comes from the catalog longitude; when TLEs are available SGP4
// refines that into concrete visibility windows over the lookahead period.
package visibility

import (
	"fmt"
	"sort"
	"time"

	"github.com/large-farva/lrit-organizer/internal/catalog"
	"github.com/large-farva/lrit-organizer/internal/config"
	"github.com/large-farva/lrit-organizer/internal/telemetry"
)

// Window is a span during which a satellite stays above the minimum
// elevation.
type Window struct {
	Start        time.Time     `json:"start"`
	End          time.Time     `json:"end"`
	MaxElevation float64       `json:"max_elevation"`
	Duration     time.Duration `json:"duration"`
}

// Link is the per-satellite result of a check.
type Link struct {
	Satellite string   `json:"satellite"`
	NoradID   int      `json:"norad_id"`
	Longitude float64  `json:"longitude"`
	Elevation float64  `json:"elevation"`
	Azimuth   float64  `json:"azimuth"`
	Visible   bool     `json:"visible"`
	HasTLE    bool     `json:"has_tle"`
	Windows   []Window `json:"windows,omitempty"`
}

// Report bundles one check's results with the station it was computed for.
type Report struct {
	Station      Location  `json:"station"`
	MinElevation float64   `json:"min_elevation"`
	Computed     time.Time `json:"computed"`
	TLEError     string    `json:"tle_error,omitempty"`
	Links        []Link    `json:"links"`
}

// Checker resolves the station and evaluates every catalog satellite.
type Checker struct {
	station  config.StationConfig
	vis      config.VisibilityConfig
	events   *telemetry.Emitter
	tleStore *TLEStore
	locate   func(addr string, timeout time.Duration) (Location, error)
}

// NewChecker creates a checker whose TLE cache lives under cacheDir.
func NewChecker(cfg config.Config, cacheDir string, events *telemetry.Emitter) *Checker {
	if events == nil {
		events = &telemetry.Emitter{Component: "visibility"}
	}
	return &Checker{
		station:  cfg.Station,
		vis:      cfg.Visibility,
		events:   events,
		tleStore: NewTLEStore(cfg.Visibility.TLEURL, cacheDir, cfg.Visibility.TLERefreshHours),
		locate:   LocationFromGPSD,
	}
}

// ResolveLocation returns the station position, trying gpsd first when
// use_gpsd is set and falling back to the configured coordinates.
func (c *Checker) ResolveLocation() Location {
	if c.station.UseGPSD {
		loc, err := c.locate(c.station.GPSDHost, 10*time.Second)
		if err == nil {
			c.events.Logf("info", "location from gpsd: %.4f, %.4f, %.0fm", loc.Lat, loc.Lon, loc.Alt)
			return loc
		}
		c.events.Logf("warn", "gpsd failed (%v), falling back to config", err)
	}
	return Location{
		Lat:    c.station.Latitude,
		Lon:    c.station.Longitude,
		Alt:    c.station.Altitude,
		Source: "config",
	}
}

// Check evaluates every catalog satellite. A TLE failure is not fatal: the
// report still carries nominal look angles and records the error.
func (c *Checker) Check() Report {
	loc := c.ResolveLocation()
	now := time.Now().UTC()
	rep := Report{
		Station:      loc,
		MinElevation: c.station.MinElevation,
		Computed:     now,
	}

	tles, err := c.tleStore.Fetch()
	if err != nil {
		rep.TLEError = err.Error()
		c.events.Logf("warn", "no TLEs, using nominal positions: %v", err)
	}

	end := now.Add(time.Duration(c.vis.LookaheadHours) * time.Hour)

	for _, sat := range catalog.Satellites {
		el, az := LookAngle(loc.Lat, loc.Lon, sat.Longitude)
		link := Link{
			Satellite: sat.Name,
			NoradID:   sat.NoradID,
			Longitude: sat.Longitude,
			Elevation: el,
			Azimuth:   az,
			Visible:   el >= c.station.MinElevation,
		}

		if tle, ok := tles[sat.NoradID]; ok {
			link.HasTLE = true
			// Geostationary passes last the whole window, a one-minute
			// step is plenty.
			passes, err := tle.GeneratePasses(loc.Lat, loc.Lon, loc.Alt, now, end, 60)
			if err != nil {
				c.events.Logf("warn", "pass computation for %s failed: %v", sat.Name, err)
			}
			for _, p := range passes {
				if p.MaxElevation < c.station.MinElevation {
					continue
				}
				link.Windows = append(link.Windows, Window{
					Start:        p.AOS,
					End:          p.LOS,
					MaxElevation: p.MaxElevation,
					Duration:     p.Duration,
				})
			}
		}
		rep.Links = append(rep.Links, link)
	}

	sort.SliceStable(rep.Links, func(i, j int) bool {
		return rep.Links[i].Elevation > rep.Links[j].Elevation
	})

	visible := 0
	for _, l := range rep.Links {
		if l.Visible {
			visible++
		}
	}
	c.events.Logf("info", "station %.4f, %.4f sees %d of %d satellites", loc.Lat, loc.Lon, visible, len(rep.Links))
	return rep
}

// RefreshTLEs downloads TLEs regardless of cache age and returns how many
// catalog satellites were found.
func (c *Checker) RefreshTLEs() (int, error) {
	tles, err := c.tleStore.ForceRefresh()
	if err != nil {
		return 0, fmt.Errorf("refresh TLEs: %w", err)
	}
	return len(tles), nil
}
