package visibility

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akhenakh/sgp4"

	"github.com/large-farva/lrit-organizer/internal/catalog"
)

const tleCacheFile = "geo_tle.txt"

// TLEStore fetches and caches Two-Line Element sets for the catalog
// satellites. Lookups prefer a fresh disk cache, then the network, then a
// stale cache.
type TLEStore struct {
	url      string
	cacheDir string
	maxAge   time.Duration
	client   *http.Client
}

// NewTLEStore returns a store that fetches TLEs from tleURL and caches them
// under cacheDir.
func NewTLEStore(tleURL, cacheDir string, refreshHours int) *TLEStore {
	return &TLEStore{
		url:      tleURL,
		cacheDir: cacheDir,
		maxAge:   time.Duration(refreshHours) * time.Hour,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch returns TLEs for the catalog satellites, keyed by NORAD ID.
func (s *TLEStore) Fetch() (map[int]*sgp4.TLE, error) {
	raw, err := s.loadOrFetch(s.cachePath())
	if err != nil {
		return nil, err
	}
	return parseCatalog(raw)
}

// ForceRefresh bypasses the cache age check and downloads a fresh set.
func (s *TLEStore) ForceRefresh() (map[int]*sgp4.TLE, error) {
	body, err := s.fetchFromNetwork()
	if err != nil {
		return nil, err
	}
	tles, err := parseCatalog(body)
	if err != nil {
		return nil, err
	}
	_ = s.writeCache(s.cachePath(), body)
	return tles, nil
}

// CacheInfo reports the cache file's age, or ok=false when there is none.
func (s *TLEStore) CacheInfo() (age time.Duration, ok bool) {
	info, err := os.Stat(s.cachePath())
	if err != nil {
		return 0, false
	}
	return time.Since(info.ModTime()), true
}

func (s *TLEStore) cachePath() string {
	return filepath.Join(s.cacheDir, tleCacheFile)
}

// loadOrFetch walks the fallback chain: fresh cache, network, stale cache.
func (s *TLEStore) loadOrFetch(cachePath string) (string, error) {
	info, err := os.Stat(cachePath)
	if err == nil && time.Since(info.ModTime()) < s.maxAge {
		if b, readErr := os.ReadFile(cachePath); readErr == nil && len(b) > 0 {
			return string(b), nil
		}
	}

	body, fetchErr := s.fetchFromNetwork()
	if fetchErr == nil {
		// Cache write failure is non-fatal; we already have the data in memory.
		_ = s.writeCache(cachePath, body)
		return body, nil
	}

	if b, readErr := os.ReadFile(cachePath); readErr == nil && len(b) > 0 {
		return string(b), nil
	}

	return "", fmt.Errorf("all TLE sources exhausted: %w", fetchErr)
}

func (s *TLEStore) fetchFromNetwork() (string, error) {
	resp, err := s.client.Get(s.url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("TLE fetch returned HTTP %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// writeCache atomically replaces the cache file via a temp file and rename
// so readers never see a half-written file.
func (s *TLEStore) writeCache(cachePath, data string) error {
	dir := filepath.Dir(cachePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "tle-*.tmp")
	if err != nil {
		return err
	}

	if _, err := tmp.WriteString(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), cachePath)
}

// parseCatalog extracts TLEs for catalog satellites from a 3-line (name,
// line 1, line 2) bulk dump as served by CelesTrak.
func parseCatalog(raw string) (map[int]*sgp4.TLE, error) {
	wanted := make(map[int]bool, len(catalog.Satellites))
	for _, sat := range catalog.Satellites {
		wanted[sat.NoradID] = true
	}

	result := make(map[int]*sgp4.TLE)
	lines := strings.Split(strings.TrimSpace(raw), "\n")

	for i := 0; i+2 < len(lines); i += 3 {
		group := strings.TrimSpace(lines[i]) + "\n" +
			strings.TrimSpace(lines[i+1]) + "\n" +
			strings.TrimSpace(lines[i+2])

		tle, err := sgp4.ParseTLE(group)
		if err != nil {
			continue
		}
		if wanted[tle.SatelliteNumber] {
			result[tle.SatelliteNumber] = tle
		}
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("no catalog TLEs found in %d lines of input", len(lines))
	}
	return result, nil
}
