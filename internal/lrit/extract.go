package lrit

import (
	"bufio"
	"fmt"
	"os"

	"github.com/large-farva/lrit-organizer/internal/organizer"
)

// Extractor reads segment headers from disk for the organizer.
type Extractor struct{}

var _ organizer.Extractor = Extractor{}

// Extract decodes the header of the file at path.
func (Extractor) Extract(path string) (*organizer.Metadata, error) {
	h, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return h.Metadata(), nil
}

// ReadFile decodes the header block of the file at path.
func ReadFile(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return h, nil
}

// Metadata flattens the header into the record the organizer consumes.
// A missing timestamp record yields the zero time.
func (h *Header) Metadata() *organizer.Metadata {
	md := &organizer.Metadata{
		Ancillary: organizer.AncillaryFromMap(h.Ancillary),
		FullDisk:  h.FullDisk(),
	}
	if h.Timestamp != nil {
		md.CaptureTime = *h.Timestamp
	}
	if p := h.Product; p != nil {
		md.ProductID = int(p.ProductID)
		md.SubProductID = int(p.SubProductID)
	}
	if s := h.Segment; s != nil {
		md.Segment = &organizer.SegmentInfo{
			Sequence:    int(s.Sequence),
			MaxSegments: int(s.MaxSegments),
		}
	}
	if s := h.ImageStructure; s != nil {
		md.Columns = int(s.Columns)
		md.Lines = int(s.Lines)
	}
	if n := h.Navigation; n != nil {
		md.ColumnScaling = int(n.ColumnScaling)
		md.LineScaling = int(n.LineScaling)
		md.ColumnOffset = int(n.ColumnOffset)
	}
	return md
}
