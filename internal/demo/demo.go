// Package demo writes synthetic LRIT segment files into the data directory
// so the scanner, HTTP API and CLI can be exercised end-to-end without a
// receiver. Captures alternate between a GOES-16 full disk carrying
// ancillary text and a Himawari-8 relay whose header time is broken, the
// two shapes the organizer has to reconcile.
package demo

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/large-farva/lrit-organizer/internal/lrit"
	"github.com/large-farva/lrit-organizer/internal/organizer"
	"github.com/large-farva/lrit-organizer/internal/telemetry"
)

const (
	segmentsPerImage = 4
	columns          = 2712
	linesPerSegment  = 678
	relayColumns     = 1375
	relayLines       = 344
)

// goesChannels are the GOES-16 channels relayed over LRIT: visible, water
// vapour and longwave infrared.
var goesChannels = []int{2, 8, 13}

// himawariChannels are the relay sub-products for the same three bands.
var himawariChannels = []struct {
	sub  uint16
	name string
}{
	{1, "VIS"},
	{3, "IR1"},
	{7, "IR3"},
}

// relayEpoch is the bogus capture time relayed Himawari-8 files carry.
var relayEpoch = time.Date(1960, time.January, 1, 0, 0, 0, 0, time.UTC)

// Runner writes one synthetic capture per interval.
type Runner struct {
	Dir      string
	Interval time.Duration
	Events   *telemetry.Emitter

	captureIndex int
}

// New creates a demo runner writing into dir.
func New(dir string, interval time.Duration, events *telemetry.Emitter) *Runner {
	if events == nil {
		events = &telemetry.Emitter{Component: "demo"}
	}
	return &Runner{Dir: dir, Interval: interval, Events: events}
}

// Run writes a capture immediately, then one per interval until ctx is
// cancelled.
func (r *Runner) Run(ctx context.Context) {
	r.Events.Logf("info", "demo mode active, writing synthetic segments to %s", r.Dir)

	if _, err := r.WriteCapture(time.Now().UTC()); err != nil {
		r.Events.Logf("error", "demo capture failed: %v", err)
	}

	t := time.NewTicker(r.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if _, err := r.WriteCapture(now.UTC()); err != nil {
				r.Events.Logf("error", "demo capture failed: %v", err)
			}
		}
	}
}

// WriteCapture writes every segment of the next satellite's capture at
// frame time now (truncated to the minute) and returns the paths written.
func (r *Runner) WriteCapture(now time.Time) ([]string, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return nil, err
	}
	frame := now.Truncate(time.Minute)

	var paths []string
	var err error
	satellite := organizer.SatelliteGOES16
	if r.captureIndex%2 == 0 {
		paths, err = r.writeGOES(frame)
	} else {
		satellite = organizer.SatelliteHimawari8
		paths, err = r.writeRelay(frame)
	}
	r.captureIndex++

	for _, p := range paths {
		r.Events.Emit(telemetry.SegmentWritten{
			Event:     telemetry.Stamp(telemetry.EventSegment, r.Events.Component),
			File:      filepath.Base(p),
			Satellite: satellite,
		})
	}
	if err != nil {
		return paths, err
	}
	r.Events.Logf("info", "wrote %d %s segments for frame %s", len(paths), satellite, frame.Format(time.RFC3339))
	return paths, nil
}

func (r *Runner) writeGOES(frame time.Time) ([]string, error) {
	var paths []string
	frameStart := fmt.Sprintf("%04d/%03d/%s", frame.Year(), frame.YearDay(), frame.Format("15:04:05"))
	// The file header time lags the frame start by a few minutes, as on
	// the real downlink, so grouping must rely on the ancillary time.
	captured := frame.Add(time.Duration(3+rand.IntN(5)) * time.Minute)

	for _, ch := range goesChannels {
		for seq := 0; seq < segmentsPerImage; seq++ {
			name := fmt.Sprintf("OR_ABI-L2-CMIPF-M3C%02d_G16_s%s_%03d.lrit", ch, frame.Format("20060021504"), seq)
			h := &lrit.Header{
				ImageStructure: &lrit.ImageStructure{BitsPerPixel: 8, Columns: columns, Lines: linesPerSegment},
				Navigation: &lrit.ImageNavigation{
					ProjectionName: "GEOS(-75.0)",
					ColumnScaling:  20466275,
					LineScaling:    20466275,
					ColumnOffset:   columns / 2,
					LineOffset:     columns / 2,
				},
				Annotation: name,
				Timestamp:  &captured,
				Ancillary: map[string]string{
					"Satellite":           organizer.SatelliteGOES16,
					"Region":              "Full Disk",
					"Channel":             fmt.Sprint(ch),
					"Time of frame start": frameStart,
				},
				Segment: &lrit.SegmentIdentification{
					ImageID:     uint16(frame.Unix() & 0xffff),
					Sequence:    uint16(seq),
					StartLine:   uint16(seq * linesPerSegment),
					MaxSegments: segmentsPerImage,
					MaxColumn:   columns,
					MaxRow:      columns,
				},
				Product: &lrit.NOAAProduct{Agency: "NOAA", ProductID: lrit.ProductGOES16ABI, SubProductID: uint16(ch)},
			}
			path := filepath.Join(r.Dir, name)
			if err := lrit.WriteFile(path, h, noise(64)); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func (r *Runner) writeRelay(frame time.Time) ([]string, error) {
	var paths []string
	ts := relayEpoch

	for _, ch := range himawariChannels {
		for seq := 0; seq < segmentsPerImage; seq++ {
			name := fmt.Sprintf("IMG_DK01%s_%s_%03d.lrit", ch.name, frame.Format("200601021504"), seq)
			h := &lrit.Header{
				ImageStructure: &lrit.ImageStructure{BitsPerPixel: 8, Columns: relayColumns, Lines: relayLines},
				Navigation: &lrit.ImageNavigation{
					ProjectionName: "GEOS(140.7)",
					ColumnScaling:  10233128,
					LineScaling:    10233128,
					ColumnOffset:   relayColumns / 2,
					LineOffset:     relayColumns / 2,
				},
				Annotation: name,
				Timestamp:  &ts,
				Segment: &lrit.SegmentIdentification{
					Sequence:    uint16(seq),
					StartLine:   uint16(seq * relayLines),
					MaxSegments: segmentsPerImage,
				},
				Product: &lrit.NOAAProduct{Agency: "NOAA", ProductID: lrit.ProductHimawari8ABI, SubProductID: ch.sub},
			}
			path := filepath.Join(r.Dir, name)
			if err := lrit.WriteFile(path, h, noise(64)); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// noise returns n random bytes standing in for compressed pixel data.
func noise(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(rand.IntN(256))
	}
	return b
}
