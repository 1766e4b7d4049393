package visibility

import (
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/large-farva/lrit-organizer/internal/config"
)

func TestLookAngle(t *testing.T) {
	tests := []struct {
		name           string
		lat, lon, sat  float64
		wantEl, wantAz float64
	}{
		{"subsatellite point", 0, -75.2, -75.2, 90, -1},
		{"northern station due south", 40, -75.2, -75.2, 43.7, 180},
		{"southern station due north", -35, 140.7, 140.7, 49.3, 0},
		{"equator sat to the east", 0, 0, 30, 55.0, 90},
		{"below horizon", 45, 0, 140.7, -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el, az := LookAngle(tt.lat, tt.lon, tt.sat)
			if tt.wantEl >= 0 && math.Abs(el-tt.wantEl) > 0.5 {
				t.Errorf("elevation = %.2f, want %.2f", el, tt.wantEl)
			}
			if tt.wantEl < 0 && el >= 0 {
				t.Errorf("elevation = %.2f, want negative", el)
			}
			if tt.wantAz >= 0 && math.Abs(az-tt.wantAz) > 0.5 {
				t.Errorf("azimuth = %.2f, want %.2f", az, tt.wantAz)
			}
		})
	}
}

func TestWrapDegrees(t *testing.T) {
	for in, want := range map[float64]float64{0: 0, 190: -170, -190: 170, 360: 0, 180: 180, -180: 180} {
		if got := wrapDegrees(in); got != want {
			t.Errorf("wrapDegrees(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestLoadOrFetch_FreshCacheSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("network"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	s := NewTLEStore(srv.URL, dir, 72)
	if err := os.WriteFile(s.cachePath(), []byte("cached"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := s.loadOrFetch(s.cachePath())
	if err != nil {
		t.Fatal(err)
	}
	if got != "cached" || hits.Load() != 0 {
		t.Errorf("got %q with %d fetches", got, hits.Load())
	}
}

func TestLoadOrFetch_StaleCacheRefreshed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("network"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	s := NewTLEStore(srv.URL, dir, 1)
	if err := os.WriteFile(s.cachePath(), []byte("cached"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(s.cachePath(), old, old); err != nil {
		t.Fatal(err)
	}

	got, err := s.loadOrFetch(s.cachePath())
	if err != nil {
		t.Fatal(err)
	}
	if got != "network" {
		t.Errorf("got %q, want network body", got)
	}
	b, _ := os.ReadFile(s.cachePath())
	if string(b) != "network" {
		t.Errorf("cache not rewritten: %q", b)
	}
}

func TestLoadOrFetch_StaleCacheFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	dir := t.TempDir()
	s := NewTLEStore(srv.URL, dir, 1)
	if err := os.WriteFile(s.cachePath(), []byte("cached"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(s.cachePath(), old, old); err != nil {
		t.Fatal(err)
	}

	got, err := s.loadOrFetch(s.cachePath())
	if err != nil {
		t.Fatal(err)
	}
	if got != "cached" {
		t.Errorf("got %q, want stale cache", got)
	}
}

func TestLoadOrFetch_Exhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewTLEStore(srv.URL, filepath.Join(t.TempDir(), "cache"), 1)
	if _, err := s.loadOrFetch(s.cachePath()); err == nil {
		t.Fatal("expected error with no cache and no network")
	}
	if _, ok := s.CacheInfo(); ok {
		t.Error("cache should not exist")
	}
}

func TestParseCatalog_NoMatches(t *testing.T) {
	if _, err := parseCatalog("not\na\ntle\n"); err == nil {
		t.Fatal("expected error")
	}
}

func TestCheckWithoutTLEs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Station.Latitude = 38.9
	cfg.Station.Longitude = -77.0
	cfg.Visibility.TLEURL = srv.URL

	c := NewChecker(cfg, t.TempDir(), nil)
	rep := c.Check()
	if rep.TLEError == "" {
		t.Error("TLE error not reported")
	}
	if rep.Station.Source != "config" {
		t.Errorf("station source = %q", rep.Station.Source)
	}

	byName := map[string]Link{}
	for _, l := range rep.Links {
		byName[l.Satellite] = l
		if l.HasTLE || len(l.Windows) != 0 {
			t.Errorf("%s has TLE data without TLEs", l.Satellite)
		}
	}
	if !byName["G16"].Visible {
		t.Errorf("G16 should be visible from Washington: %+v", byName["G16"])
	}
	if byName["HIMAWARI8"].Visible {
		t.Errorf("HIMAWARI8 should not be visible from Washington: %+v", byName["HIMAWARI8"])
	}
	if rep.Links[0].Elevation < rep.Links[len(rep.Links)-1].Elevation {
		t.Error("links not sorted by elevation")
	}
}

func TestResolveLocationFallsBackToConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Station.UseGPSD = true
	cfg.Station.Latitude = 10
	c := NewChecker(cfg, t.TempDir(), nil)
	c.locate = func(string, time.Duration) (Location, error) {
		return Location{}, errors.New("no gpsd")
	}
	if loc := c.ResolveLocation(); loc.Source != "config" || loc.Lat != 10 {
		t.Errorf("location = %+v", loc)
	}

	c.locate = func(string, time.Duration) (Location, error) {
		return Location{Lat: 1, Lon: 2, Source: "gpsd"}, nil
	}
	if loc := c.ResolveLocation(); loc.Source != "gpsd" {
		t.Errorf("location = %+v", loc)
	}
}
