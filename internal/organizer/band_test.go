package organizer

import (
	"encoding/json"
	"testing"
)

func TestResolveBand(t *testing.T) {
	tests := []struct {
		satellite string
		channel   int
		band      Band
		how       Resolution
	}{
		{"G16", 1, BandVisible, Resolved},
		{Unknown, 1, BandVisible, Resolved},
		{"G16", 2, BandVisible, Resolved},
		{"G13", 2, BandUnknown, UnresolvedReported},
		{"HIMAWARI8", 3, BandInfrared, Resolved},
		{"G16", 3, BandWaterVapour, Resolved},
		{Unknown, 3, BandWaterVapour, Resolved},
		{"G15", 4, BandInfrared, Resolved},
		{"HIMAWARI8", 7, BandWaterVapour, Resolved},
		{"G16", 7, BandUnknown, UnresolvedSilent},
		{"G16", 8, BandWaterVapour, Resolved},
		{"HIMAWARI8", 8, BandUnknown, UnresolvedSilent},
		{"G16", 13, BandInfrared, Resolved},
		{Unknown, 13, BandUnknown, UnresolvedSilent},
		{"G16", 0, BandUnknown, Unmapped},
		{"G16", 99, BandUnknown, Unmapped},
		{"HIMAWARI8", 14, BandUnknown, Unmapped},
	}
	for _, tt := range tests {
		band, how := ResolveBand(tt.satellite, tt.channel)
		if band != tt.band || how != tt.how {
			t.Errorf("ResolveBand(%q, %d) = %v/%d, want %v/%d", tt.satellite, tt.channel, band, how, tt.band, tt.how)
		}
	}
}

func TestBandImageMerge(t *testing.T) {
	b := newBandImage()
	b.Merge(0, "s0", 2712, 100, 1.5, 1356, 3)
	b.Merge(1, "s1", 9999, 100, 9, 9, 9)
	b.Merge(2, "s2", 1, 100, 0, 0, 0)

	if b.Lines != 300 {
		t.Errorf("lines = %d, want 300", b.Lines)
	}
	if len(b.Segments) != 3 {
		t.Errorf("segments = %d, want 3", len(b.Segments))
	}
	if b.Columns != 2712 || b.PixelAspect != 1.5 || b.ColumnOffset != 1356 || b.MaxSegments != 3 {
		t.Errorf("geometry changed after first merge: %+v", b)
	}
}

func TestBandImageMerge_OverwritesIndex(t *testing.T) {
	b := newBandImage()
	b.Merge(4, "old", 10, 50, 1, 0, 6)
	b.Merge(4, "new", 10, 50, 1, 0, 6)

	if b.Segments[4] != "new" || len(b.Segments) != 1 {
		t.Errorf("segments = %v", b.Segments)
	}
	if b.Lines != 100 {
		t.Errorf("lines = %d, want 100", b.Lines)
	}
	if b.Complete() {
		t.Error("1 of 6 segments should not be complete")
	}
	if got := b.SegmentIndices(); len(got) != 1 || got[0] != 4 {
		t.Errorf("indices = %v", got)
	}
}

func TestBandImageJSON_UnsetGeometry(t *testing.T) {
	raw, err := json.Marshal(newBandImage())
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Columns int `json:"columns"`
		Lines   int `json:"lines"`
	}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	if got.Columns != -1 || got.Lines != -1 {
		t.Errorf("unset geometry rendered as %+v", got)
	}
}

func TestAncillaryFromMap(t *testing.T) {
	if AncillaryFromMap(nil) != nil {
		t.Error("nil map should give nil ancillary")
	}
	a := AncillaryFromMap(map[string]string{"Satellite": "G16", "Channel": "13", "Other": "x"})
	if a.Satellite == nil || *a.Satellite != "G16" || a.Channel == nil || *a.Channel != "13" {
		t.Errorf("ancillary = %+v", a)
	}
	if a.Region != nil || a.FrameStart != nil {
		t.Error("absent keys should stay nil")
	}
}

func TestGroupComplete(t *testing.T) {
	g := newGroup(1)
	if g.Complete() {
		t.Fatal("empty group reported complete")
	}
	g.Visible.Merge(0, "v0", 10, 10, 1, 5, 2)
	if g.Complete() {
		t.Error("half a band reported complete")
	}
	g.Visible.Merge(1, "v1", 10, 10, 1, 5, 2)
	if !g.Complete() {
		t.Error("only band is complete, group should be too")
	}
	g.Infrared.Merge(0, "i0", 10, 10, 1, 5, 3)
	if g.Complete() {
		t.Error("started infrared band is incomplete")
	}
}
