package organizer

import (
	"encoding/json"
	"sort"
)

// Band is one of the logical spectral outputs a group tracks, independent of
// the satellite-specific channel number that maps onto it.
type Band int

const (
	BandUnknown Band = iota
	BandVisible
	BandInfrared
	BandWaterVapour
)

// Bands lists the bands every group carries, in display order.
var Bands = []Band{BandVisible, BandInfrared, BandWaterVapour}

func (b Band) String() string {
	switch b {
	case BandVisible:
		return "visible"
	case BandInfrared:
		return "infrared"
	case BandWaterVapour:
		return "water_vapour"
	default:
		return "unknown"
	}
}

// BandImage accumulates the segments of one band of one group. Geometry is
// taken from the first segment merged; every later segment only adds its
// entry and its line count, modelling vertically stacked strips.
type BandImage struct {
	Segments     map[int]string
	Columns      int
	Lines        int
	PixelAspect  float64
	ColumnOffset int
	MaxSegments  int

	initialized bool
}

func newBandImage() *BandImage {
	return &BandImage{Segments: make(map[int]string)}
}

// Merge records path as segment index seg. The first merge adopts the
// geometry verbatim; later merges overwrite any entry at the same index and
// add lines to the running total. Indices are not checked for contiguity.
func (b *BandImage) Merge(seg int, path string, columns, lines int, aspect float64, columnOffset, maxSegments int) {
	if b.Segments == nil {
		b.Segments = make(map[int]string)
	}
	b.Segments[seg] = path

	if !b.initialized {
		b.initialized = true
		b.Columns = columns
		b.Lines = lines
		b.PixelAspect = aspect
		b.ColumnOffset = columnOffset
		b.MaxSegments = maxSegments
		return
	}
	b.Lines += lines
}

// Initialized reports whether any segment has been merged yet.
func (b *BandImage) Initialized() bool {
	return b.initialized
}

// Complete reports whether at least MaxSegments distinct segments are known.
// Downstream stitching uses this to hold back partial assemblies.
func (b *BandImage) Complete() bool {
	return b.initialized && len(b.Segments) >= b.MaxSegments
}

// SegmentIndices returns the known segment indices in ascending order.
func (b *BandImage) SegmentIndices() []int {
	idx := make([]int, 0, len(b.Segments))
	for i := range b.Segments {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// SortedSegments returns the segment file paths ordered by segment index.
func (b *BandImage) SortedSegments() []string {
	idx := b.SegmentIndices()
	paths := make([]string, len(idx))
	for i, n := range idx {
		paths[i] = b.Segments[n]
	}
	return paths
}

func (b *BandImage) clone() *BandImage {
	c := *b
	c.Segments = make(map[int]string, len(b.Segments))
	for k, v := range b.Segments {
		c.Segments[k] = v
	}
	return &c
}

// MarshalJSON renders unset geometry as -1 so consumers of the HTTP API can
// tell an empty band from a zero-sized one.
func (b *BandImage) MarshalJSON() ([]byte, error) {
	columns, lines := -1, -1
	if b.initialized {
		columns, lines = b.Columns, b.Lines
	}
	return json.Marshal(struct {
		Segments     map[int]string `json:"segments"`
		Columns      int            `json:"columns"`
		Lines        int            `json:"lines"`
		PixelAspect  float64        `json:"pixel_aspect"`
		ColumnOffset int            `json:"column_offset"`
		MaxSegments  int            `json:"max_segments"`
		Complete     bool           `json:"complete"`
	}{
		Segments:     b.Segments,
		Columns:      columns,
		Lines:        lines,
		PixelAspect:  b.PixelAspect,
		ColumnOffset: b.ColumnOffset,
		MaxSegments:  b.MaxSegments,
		Complete:     b.Complete(),
	})
}
