package organizer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrFrameStartFormat is returned for frame start values in neither the
	// day-of-year nor the ISO 8601 layout.
	ErrFrameStartFormat = errors.New("unrecognized frame start format")
	// ErrShortName is returned when a relay file name is too short to hold
	// the embedded date.
	ErrShortName = errors.New("file name too short for relay timestamp")
)

// relayMarker identifies Himawari-8 files relayed with a broken header time.
const relayMarker = "IMG_DK"

// Byte offsets of the YYYYMMDDhhmm field inside a relay base name, e.g.
// IMG_DK01VIS_201704161550.lrit.
const (
	relayTimeStart = 12
	relayTimeEnd   = 24
)

// isoLayouts are tried in order for frame start values that are not in the
// day-of-year form. Layouts without a zone are read as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseFrameStart parses an ancillary "Time of frame start" value. Two forms
// occur in the wild: 2017/055/05:45:18 (year, day of year, time of day) and
// ISO 8601 such as 2017-03-27T15:45:38.2Z. The result is always UTC.
func ParseFrameStart(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > 4 && s[4] == '/' {
		return parseDayOfYear(s)
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrFrameStartFormat, s)
}

// parseDayOfYear reads YYYY/DDD/HH:MM:SS. Day 001 is January 1.
func parseDayOfYear(s string) (time.Time, error) {
	if len(s) < 17 || s[8] != '/' || s[11] != ':' || s[14] != ':' {
		return time.Time{}, fmt.Errorf("%w: %q", ErrFrameStartFormat, s)
	}
	fields := []string{s[0:4], s[5:8], s[9:11], s[12:14], s[15:17]}
	var n [5]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", ErrFrameStartFormat, s, err)
		}
		n[i] = v
	}
	year, doy, hour, minute, sec := n[0], n[1], n[2], n[3], n[4]
	t := time.Date(year, time.January, 1, hour, minute, sec, 0, time.UTC)
	return t.AddDate(0, 0, doy-1), nil
}

// GroupKey quantizes t to whole seconds since the Unix epoch, rounding down.
func GroupKey(t time.Time) int64 {
	return t.Unix()
}

// IsRelayFile reports whether path names a relayed Himawari-8 segment.
func IsRelayFile(path string) bool {
	return strings.Contains(filepath.Base(path), relayMarker)
}

// ParseRelayFileTime recovers the capture time embedded in a relay file name.
// Bytes 12–23 of the base name hold YYYYMMDDhhmm; seconds are zero.
func ParseRelayFileTime(path string) (time.Time, error) {
	base := filepath.Base(path)
	if len(base) < relayTimeEnd {
		return time.Time{}, fmt.Errorf("%w: %q", ErrShortName, base)
	}
	t, err := time.ParseInLocation("200601021504", base[relayTimeStart:relayTimeEnd], time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("relay timestamp in %q: %w", base, err)
	}
	return t, nil
}
