// Package organizer groups LRIT segment files into capture groups. It scans a
// directory incrementally, reads each new file's header, derives a group key
// from the capture time and folds the file into one of the group's bands.
//
// An Organizer is single-writer: Update must not run concurrently with itself
// or with readers of Groups. Callers that share one across goroutines supply
// their own locking (see internal/scanner).
package organizer

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/large-farva/lrit-organizer/internal/telemetry"
)

// DefaultExtension is the suffix of candidate segment files.
const DefaultExtension = ".lrit"

// ProductHimawari8 is the NOAA product ID of relayed Himawari-8 imagery.
const ProductHimawari8 = 43

// ErrNoMetadata is reported for a file whose extractor returned neither
// metadata nor an error.
var ErrNoMetadata = errors.New("extractor returned no metadata")

// Diagnostics receives leveled diagnostics. *telemetry.Emitter satisfies it.
type Diagnostics interface {
	Logf(level, format string, args ...any)
}

// Options configures an Organizer.
type Options struct {
	Dir       string
	Extension string
	Extractor Extractor
	// Log is used only when Events is nil.
	Log    *log.Logger
	Events Diagnostics
}

// Organizer owns the group store and the set of files already consumed for
// one directory. Both only ever grow.
type Organizer struct {
	dir       string
	ext       string
	extractor Extractor
	events    Diagnostics

	groups    map[int64]*Group
	processed map[string]struct{}
}

// ScanResult summarizes one Update pass.
type ScanResult struct {
	Seen      int     `json:"seen"`
	Processed int     `json:"processed"`
	Failed    int     `json:"failed"`
	Skipped   int     `json:"skipped"`
	Groups    []int64 `json:"groups"`
}

// New creates an Organizer for opts.Dir with an empty store.
func New(opts Options) *Organizer {
	ext := opts.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	events := opts.Events
	if events == nil {
		logger := opts.Log
		if logger == nil {
			logger = log.New(os.Stderr, "", log.LstdFlags)
		}
		events = &telemetry.Emitter{Log: logger, Component: "organizer"}
	}
	return &Organizer{
		dir:       opts.Dir,
		ext:       ext,
		extractor: opts.Extractor,
		events:    events,
		groups:    make(map[int64]*Group),
		processed: make(map[string]struct{}),
	}
}

// Dir returns the directory being organized.
func (o *Organizer) Dir() string {
	return o.dir
}

// Groups returns the live group store. Callers must not mutate it.
func (o *Organizer) Groups() map[int64]*Group {
	return o.groups
}

// Group returns the group for key, if any.
func (o *Organizer) Group(key int64) (*Group, bool) {
	g, ok := o.groups[key]
	return g, ok
}

// Snapshot returns deep copies of every group, safe to hand to readers
// while later passes keep mutating the store.
func (o *Organizer) Snapshot() map[int64]*Group {
	out := make(map[int64]*Group, len(o.groups))
	for k, g := range o.groups {
		out[k] = g.Clone()
	}
	return out
}

// Processed reports whether path has already been consumed.
func (o *Organizer) Processed(path string) bool {
	_, ok := o.processed[path]
	return ok
}

// ProcessedCount is the size of the processed-file set.
func (o *Organizer) ProcessedCount() int {
	return len(o.processed)
}

// Update runs one incremental pass over the directory. Every file not seen
// before is processed and then recorded, whether it succeeded or not, so no
// file is ever read twice. Only a failure to list the directory is returned
// as an error; per-file problems are reported and the pass continues.
func (o *Organizer) Update() (ScanResult, error) {
	files, err := o.candidates()
	if err != nil {
		return ScanResult{}, fmt.Errorf("list %s: %w", o.dir, err)
	}

	res := ScanResult{Seen: len(files)}
	touched := make(map[int64]struct{})

	for _, path := range files {
		if o.Processed(path) {
			continue
		}

		key, band, err := o.processFile(path)
		o.processed[path] = struct{}{}
		res.Processed++

		if err != nil {
			res.Failed++
			o.diag("error", "error reading file %s: %v", path, err)
			continue
		}
		touched[key] = struct{}{}
		if band == BandUnknown {
			res.Skipped++
		}
	}

	res.Groups = make([]int64, 0, len(touched))
	for k := range touched {
		res.Groups = append(res.Groups, k)
	}
	sort.Slice(res.Groups, func(i, j int) bool { return res.Groups[i] < res.Groups[j] })

	return res, nil
}

// candidates lists regular files in the directory carrying the segment
// extension.
func (o *Organizer) candidates() ([]string, error) {
	entries, err := os.ReadDir(o.dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), o.ext) {
			continue
		}
		files = append(files, filepath.Join(o.dir, e.Name()))
	}
	return files, nil
}

// resolved is what a file says about its capture once every override has
// been applied.
type resolved struct {
	satellite string
	region    string
	channel   int
	hasChan   bool
	segment   int
	frameTime time.Time
}

// processFile folds one file into the store. It returns the group key and
// the band the file landed in (BandUnknown when its channel did not map).
// A panic while handling the file is returned as that file's error.
func (o *Organizer) processFile(path string) (key int64, band Band, err error) {
	defer func() {
		if r := recover(); r != nil {
			key, band, err = 0, BandUnknown, fmt.Errorf("panic: %v", r)
		}
	}()

	if o.extractor == nil {
		return 0, BandUnknown, fmt.Errorf("no header extractor configured")
	}
	md, err := o.extractor.Extract(path)
	if err != nil {
		return 0, BandUnknown, fmt.Errorf("extract header: %w", err)
	}
	if md == nil {
		return 0, BandUnknown, ErrNoMetadata
	}

	r, err := o.resolve(path, md)
	if err != nil {
		return 0, BandUnknown, err
	}

	crop := strings.Contains(strings.ToLower(r.region), "full disk") || md.FullDisk
	key = GroupKey(r.frameTime)

	if key < 0 && IsRelayFile(path) {
		t, err := ParseRelayFileTime(path)
		if err != nil {
			return 0, BandUnknown, err
		}
		r.frameTime = t
		key = GroupKey(t)
	}

	grp, ok := o.groups[key]
	if !ok {
		grp = newGroup(key)
		o.groups[key] = grp
	}
	grp.Satellite = r.satellite
	grp.Region = r.region
	grp.FrameTime = r.frameTime
	grp.Crop = crop

	if !r.hasChan {
		return key, BandUnknown, nil
	}
	band, how := ResolveBand(r.satellite, r.channel)
	switch how {
	case UnresolvedReported:
		o.diag("warn", "unknown channel %d for satellite %s in %s", r.channel, r.satellite, filepath.Base(path))
		return key, BandUnknown, nil
	case UnresolvedSilent, Unmapped:
		return key, BandUnknown, nil
	}

	maxSegments := 1
	if md.Segment != nil {
		maxSegments = md.Segment.MaxSegments
	}
	var aspect float64
	if md.LineScaling != 0 {
		aspect = float64(md.ColumnScaling) / float64(md.LineScaling)
	}
	grp.Band(band).Merge(r.segment, path, md.Columns, md.Lines, aspect, md.ColumnOffset, maxSegments)

	return key, band, nil
}

// resolve applies the product and ancillary overrides in order: defaults,
// then the Himawari-8 product, then ancillary text, which wins when present.
func (o *Organizer) resolve(path string, md *Metadata) (resolved, error) {
	r := resolved{
		satellite: Unknown,
		region:    Unknown,
		frameTime: md.CaptureTime.UTC(),
	}
	if md.Segment != nil {
		r.segment = md.Segment.Sequence
	}

	if md.ProductID == ProductHimawari8 {
		r.satellite = SatelliteHimawari8
		r.region = "Full Disk"
		r.channel, r.hasChan = md.SubProductID, true
	}

	anc := md.Ancillary
	if anc == nil {
		return r, nil
	}
	if anc.Satellite != nil {
		r.satellite = *anc.Satellite
	}
	if anc.Region != nil {
		r.region = *anc.Region
	}
	if anc.Channel != nil {
		ch, err := strconv.Atoi(strings.TrimSpace(*anc.Channel))
		if err != nil {
			return r, fmt.Errorf("ancillary channel: %w", err)
		}
		r.channel, r.hasChan = ch, true
	}
	if anc.FrameStart != nil {
		t, err := ParseFrameStart(*anc.FrameStart)
		if err != nil {
			return r, err
		}
		r.frameTime = t
	} else {
		o.diag("warn", "no frame start time in %s, using capture time", filepath.Base(path))
	}
	return r, nil
}

func (o *Organizer) diag(level, format string, args ...any) {
	o.events.Logf(level, format, args...)
}
