// Package lrit decodes and encodes the header records of LRIT/HRIT segment
// files. Only the headers are read; image data is never touched.
//
// Every header record starts with a one-byte type and a two-byte big-endian
// length that counts the three prefix bytes. The primary header (type 0)
// comes first and gives the total header length.
package lrit

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Header record types.
const (
	TypePrimary        = 0
	TypeImageStructure = 1
	TypeNavigation     = 2
	TypeDataFunction   = 3
	TypeAnnotation     = 4
	TypeTimestamp      = 5
	TypeAncillaryText  = 6
	TypeKey            = 7
	TypeSegment        = 128
	TypeNOAAProduct    = 129
)

// Record sizes including the 3-byte prefix.
const (
	primaryLen   = 16
	structureLen = 9
	navLen       = 51
	timestampLen = 10
	segmentLen   = 17
	noaaLen      = 14
)

// MaxHeaderLength bounds the header length a primary header may declare.
// Real LRIT headers are a few hundred bytes.
const MaxHeaderLength = 64 << 10

var (
	ErrHeaderTooLong   = errors.New("lrit: declared header length too long")
	ErrNoPrimaryHeader = errors.New("lrit: file does not start with a primary header")
	ErrTruncated       = errors.New("lrit: truncated header")
)

// cdsEpoch is day zero of the CCSDS day segmented time code.
var cdsEpoch = time.Date(1958, time.January, 1, 0, 0, 0, 0, time.UTC)

// Header is the decoded header block of one segment file. Optional records
// are nil when absent.
type Header struct {
	Primary        PrimaryHeader
	ImageStructure *ImageStructure
	Navigation     *ImageNavigation
	Annotation     string
	Timestamp      *time.Time
	Ancillary      map[string]string
	Segment        *SegmentIdentification
	Product        *NOAAProduct
}

// PrimaryHeader is record type 0: file type and the sizes of the header
// and data fields.
type PrimaryHeader struct {
	FileType     uint8
	HeaderLength uint32
	DataLength   uint64
}

// ImageStructure is record type 1: pixel depth and image dimensions.
type ImageStructure struct {
	BitsPerPixel uint8
	Columns      uint16
	Lines        uint16
	Compression  uint8
}

// ImageNavigation is record type 2: projection name and scaling factors.
type ImageNavigation struct {
	ProjectionName string
	ColumnScaling  int32
	LineScaling    int32
	ColumnOffset   int32
	LineOffset     int32
}

// SegmentIdentification is record type 128: where a segment sits in the
// full image.
type SegmentIdentification struct {
	ImageID     uint16
	Sequence    uint16
	StartColumn uint16
	StartLine   uint16
	MaxSegments uint16
	MaxColumn   uint16
	MaxRow      uint16
}

// NOAAProduct is record type 129: the NOAA product and sub-product codes.
type NOAAProduct struct {
	Agency       string
	ProductID    uint16
	SubProductID uint16
	Parameter    uint16
	Compression  uint8
}

// Decode reads the header block from r. Reading stops at the end of the
// header, leaving r positioned at the start of the data field.
func Decode(r io.Reader) (*Header, error) {
	var prefix [primaryLen]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrTruncated
		}
		return nil, err
	}
	if prefix[0] != TypePrimary || binary.BigEndian.Uint16(prefix[1:3]) != primaryLen {
		return nil, ErrNoPrimaryHeader
	}

	h := &Header{Primary: PrimaryHeader{
		FileType:     prefix[3],
		HeaderLength: binary.BigEndian.Uint32(prefix[4:8]),
		DataLength:   binary.BigEndian.Uint64(prefix[8:16]),
	}}
	if h.Primary.HeaderLength < primaryLen {
		return nil, fmt.Errorf("lrit: header length %d shorter than primary header", h.Primary.HeaderLength)
	}
	if h.Primary.HeaderLength > MaxHeaderLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLong, h.Primary.HeaderLength)
	}

	rest := make([]byte, h.Primary.HeaderLength-primaryLen)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, ErrTruncated
	}

	for len(rest) > 0 {
		if len(rest) < 3 {
			return nil, ErrTruncated
		}
		typ := rest[0]
		n := int(binary.BigEndian.Uint16(rest[1:3]))
		if n < 3 || n > len(rest) {
			return nil, fmt.Errorf("%w: record type %d claims %d bytes, %d left", ErrTruncated, typ, n, len(rest))
		}
		if err := h.decodeRecord(typ, rest[3:n]); err != nil {
			return nil, err
		}
		rest = rest[n:]
	}
	return h, nil
}

func (h *Header) decodeRecord(typ uint8, b []byte) error {
	need := func(size int) error {
		if len(b) < size-3 {
			return fmt.Errorf("%w: record type %d has %d bytes, want %d", ErrTruncated, typ, len(b)+3, size)
		}
		return nil
	}
	be := binary.BigEndian

	switch typ {
	case TypeImageStructure:
		if err := need(structureLen); err != nil {
			return err
		}
		h.ImageStructure = &ImageStructure{
			BitsPerPixel: b[0],
			Columns:      be.Uint16(b[1:3]),
			Lines:        be.Uint16(b[3:5]),
			Compression:  b[5],
		}
	case TypeNavigation:
		if err := need(navLen); err != nil {
			return err
		}
		h.Navigation = &ImageNavigation{
			ProjectionName: strings.TrimRight(string(b[0:32]), " \x00"),
			ColumnScaling:  int32(be.Uint32(b[32:36])),
			LineScaling:    int32(be.Uint32(b[36:40])),
			ColumnOffset:   int32(be.Uint32(b[40:44])),
			LineOffset:     int32(be.Uint32(b[44:48])),
		}
	case TypeAnnotation:
		h.Annotation = strings.TrimRight(string(b), " \x00")
	case TypeTimestamp:
		if err := need(timestampLen); err != nil {
			return err
		}
		days := be.Uint16(b[1:3])
		ms := be.Uint32(b[3:7])
		t := cdsEpoch.AddDate(0, 0, int(days)).Add(time.Duration(ms) * time.Millisecond)
		h.Timestamp = &t
	case TypeAncillaryText:
		h.Ancillary = ParseAncillary(string(b))
	case TypeSegment:
		if err := need(segmentLen); err != nil {
			return err
		}
		h.Segment = &SegmentIdentification{
			ImageID:     be.Uint16(b[0:2]),
			Sequence:    be.Uint16(b[2:4]),
			StartColumn: be.Uint16(b[4:6]),
			StartLine:   be.Uint16(b[6:8]),
			MaxSegments: be.Uint16(b[8:10]),
			MaxColumn:   be.Uint16(b[10:12]),
			MaxRow:      be.Uint16(b[12:14]),
		}
	case TypeNOAAProduct:
		if err := need(noaaLen); err != nil {
			return err
		}
		h.Product = &NOAAProduct{
			Agency:       strings.TrimRight(string(b[0:4]), " \x00"),
			ProductID:    be.Uint16(b[4:6]),
			SubProductID: be.Uint16(b[6:8]),
			Parameter:    be.Uint16(b[8:10]),
			Compression:  b[10],
		}
	}
	return nil
}

// FullDisk reports whether the image covers the whole Earth disk: a
// geostationary projection centred on the sub-satellite point.
func (h *Header) FullDisk() bool {
	nav := h.Navigation
	if nav == nil || !strings.HasPrefix(nav.ProjectionName, "GEOS(") {
		return false
	}
	width := 0
	if h.ImageStructure != nil {
		width = int(h.ImageStructure.Columns)
	}
	if h.Segment != nil && h.Segment.MaxColumn > 0 {
		width = int(h.Segment.MaxColumn)
	}
	return width > 0 && int(nav.ColumnOffset)*2 == width
}
