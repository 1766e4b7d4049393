package organizer

import "time"

// Recognized ancillary text keys.
const (
	KeySatellite  = "Satellite"
	KeyRegion     = "Region"
	KeyChannel    = "Channel"
	KeyFrameStart = "Time of frame start"
)

// Metadata is what a header extractor reports for one segment file.
type Metadata struct {
	CaptureTime  time.Time
	ProductID    int
	SubProductID int

	Ancillary *Ancillary
	Segment   *SegmentInfo

	Columns       int
	Lines         int
	ColumnScaling int
	LineScaling   int
	ColumnOffset  int
	FullDisk      bool
}

// SegmentInfo locates a file within a multi-segment image.
type SegmentInfo struct {
	Sequence    int
	MaxSegments int
}

// Ancillary holds the ancillary text values the organizer cares about.
// A nil field means the key was absent.
type Ancillary struct {
	Satellite  *string
	Region     *string
	Channel    *string
	FrameStart *string
}

// AncillaryFromMap picks the recognized keys out of a raw ancillary map.
// A nil map yields nil.
func AncillaryFromMap(m map[string]string) *Ancillary {
	if m == nil {
		return nil
	}
	pick := func(key string) *string {
		if v, ok := m[key]; ok {
			return &v
		}
		return nil
	}
	return &Ancillary{
		Satellite:  pick(KeySatellite),
		Region:     pick(KeyRegion),
		Channel:    pick(KeyChannel),
		FrameStart: pick(KeyFrameStart),
	}
}

// Extractor decodes the header of a segment file.
type Extractor interface {
	Extract(path string) (*Metadata, error)
}

// ExtractorFunc adapts a plain function to Extractor.
type ExtractorFunc func(path string) (*Metadata, error)

func (f ExtractorFunc) Extract(path string) (*Metadata, error) {
	return f(path)
}
