package lrit

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"
)

// Encode writes h as a header block. Primary.HeaderLength is computed from
// the records present; DataLength is written as given. Records appear in
// type order, the layout receivers produce.
func Encode(w io.Writer, h *Header) error {
	var body bytes.Buffer
	be := binary.BigEndian

	record := func(typ uint8, payload []byte) error {
		n := len(payload) + 3
		if n > 0xffff {
			return fmt.Errorf("lrit: record type %d too long (%d bytes)", typ, n)
		}
		body.WriteByte(typ)
		_ = binary.Write(&body, be, uint16(n))
		body.Write(payload)
		return nil
	}

	if s := h.ImageStructure; s != nil {
		p := make([]byte, structureLen-3)
		p[0] = s.BitsPerPixel
		be.PutUint16(p[1:3], s.Columns)
		be.PutUint16(p[3:5], s.Lines)
		p[5] = s.Compression
		_ = record(TypeImageStructure, p)
	}
	if n := h.Navigation; n != nil {
		p := make([]byte, navLen-3)
		copy(p[0:32], padded(n.ProjectionName, 32))
		be.PutUint32(p[32:36], uint32(n.ColumnScaling))
		be.PutUint32(p[36:40], uint32(n.LineScaling))
		be.PutUint32(p[40:44], uint32(n.ColumnOffset))
		be.PutUint32(p[44:48], uint32(n.LineOffset))
		_ = record(TypeNavigation, p)
	}
	if h.Annotation != "" {
		if err := record(TypeAnnotation, []byte(h.Annotation)); err != nil {
			return err
		}
	}
	if h.Timestamp != nil {
		p := make([]byte, timestampLen-3)
		p[0] = 0x40
		t := h.Timestamp.UTC()
		days := int(t.Sub(cdsEpoch) / (24 * time.Hour))
		if days < 0 || days > 0xffff {
			return fmt.Errorf("lrit: timestamp %v outside CDS range", t)
		}
		ms := t.Sub(cdsEpoch.AddDate(0, 0, days)) / time.Millisecond
		be.PutUint16(p[1:3], uint16(days))
		be.PutUint32(p[3:7], uint32(ms))
		_ = record(TypeTimestamp, p)
	}
	if h.Ancillary != nil {
		if err := record(TypeAncillaryText, []byte(FormatAncillary(h.Ancillary))); err != nil {
			return err
		}
	}
	if s := h.Segment; s != nil {
		p := make([]byte, segmentLen-3)
		be.PutUint16(p[0:2], s.ImageID)
		be.PutUint16(p[2:4], s.Sequence)
		be.PutUint16(p[4:6], s.StartColumn)
		be.PutUint16(p[6:8], s.StartLine)
		be.PutUint16(p[8:10], s.MaxSegments)
		be.PutUint16(p[10:12], s.MaxColumn)
		be.PutUint16(p[12:14], s.MaxRow)
		_ = record(TypeSegment, p)
	}
	if np := h.Product; np != nil {
		p := make([]byte, noaaLen-3)
		copy(p[0:4], padded(np.Agency, 4))
		be.PutUint16(p[4:6], np.ProductID)
		be.PutUint16(p[6:8], np.SubProductID)
		be.PutUint16(p[8:10], np.Parameter)
		p[10] = np.Compression
		_ = record(TypeNOAAProduct, p)
	}

	h.Primary.HeaderLength = uint32(primaryLen + body.Len())

	var prim [primaryLen]byte
	prim[0] = TypePrimary
	be.PutUint16(prim[1:3], primaryLen)
	prim[3] = h.Primary.FileType
	be.PutUint32(prim[4:8], h.Primary.HeaderLength)
	be.PutUint64(prim[8:16], h.Primary.DataLength)

	if _, err := w.Write(prim[:]); err != nil {
		return err
	}
	_, err := w.Write(body.Bytes())
	return err
}

// padded returns s space-padded or truncated to n bytes.
func padded(s string, n int) []byte {
	b := bytes.Repeat([]byte{' '}, n)
	copy(b, s)
	return b
}

// WriteFile writes a segment file holding h followed by data. DataLength is
// set from len(data) in bits, as the primary header specifies.
func WriteFile(path string, h *Header, data []byte) error {
	var buf bytes.Buffer
	h.Primary.DataLength = uint64(len(data)) * 8
	if err := Encode(&buf, h); err != nil {
		return err
	}
	buf.Write(data)
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
