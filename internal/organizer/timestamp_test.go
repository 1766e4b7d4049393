package organizer

import (
	"errors"
	"testing"
	"time"
)

func TestParseFrameStart(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2017/055/05:45:18", time.Date(2017, 2, 24, 5, 45, 18, 0, time.UTC)},
		{"2017/001/00:00:00", time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2016/366/23:59:59", time.Date(2016, 12, 31, 23, 59, 59, 0, time.UTC)},
		{"2017-02-24T05:45:18Z", time.Date(2017, 2, 24, 5, 45, 18, 0, time.UTC)},
		{"2017-03-27T15:45:38.2Z", time.Date(2017, 3, 27, 15, 45, 38, 200_000_000, time.UTC)},
		{"2017-03-27T17:45:38+02:00", time.Date(2017, 3, 27, 15, 45, 38, 0, time.UTC)},
		{"2017-03-27T15:45:38", time.Date(2017, 3, 27, 15, 45, 38, 0, time.UTC)},
		{"2017-02-24T05:45:18+0000", time.Date(2017, 2, 24, 5, 45, 18, 0, time.UTC)},
		{"2017-02-24T07:45:18.5+0200", time.Date(2017, 2, 24, 5, 45, 18, 500_000_000, time.UTC)},
		{"2017-02-24", time.Date(2017, 2, 24, 0, 0, 0, 0, time.UTC)},
		{" 2017/055/05:45:18 ", time.Date(2017, 2, 24, 5, 45, 18, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseFrameStart(tt.in)
		if err != nil {
			t.Errorf("ParseFrameStart(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) || got.Location() != time.UTC {
			t.Errorf("ParseFrameStart(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFrameStart_Invalid(t *testing.T) {
	for _, in := range []string{"", "2017/05", "2017/0x5/05:45:18", "2017/055-05:45:18", "Feb 24 2017"} {
		if _, err := ParseFrameStart(in); !errors.Is(err, ErrFrameStartFormat) {
			t.Errorf("ParseFrameStart(%q) err = %v, want ErrFrameStartFormat", in, err)
		}
	}
}

func TestGroupKey_SameInstantAcrossFormats(t *testing.T) {
	a, err := ParseFrameStart("2017/055/05:45:18")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseFrameStart("2017-02-24T05:45:18Z")
	if err != nil {
		t.Fatal(err)
	}
	if GroupKey(a) != GroupKey(b) {
		t.Errorf("keys differ: %d vs %d", GroupKey(a), GroupKey(b))
	}
}

func TestGroupKey_Floors(t *testing.T) {
	tests := []struct {
		t    time.Time
		want int64
	}{
		{time.Unix(100, 900_000_000), 100},
		{time.Unix(0, 0), 0},
		{time.Unix(-1, 500_000_000), -1},
		{time.Date(1969, 12, 31, 23, 59, 59, 0, time.UTC), -1},
	}
	for _, tt := range tests {
		if got := GroupKey(tt.t); got != tt.want {
			t.Errorf("GroupKey(%v) = %d, want %d", tt.t, got, tt.want)
		}
	}
}

func TestParseRelayFileTime(t *testing.T) {
	got, err := ParseRelayFileTime("/data/IMG_DK01VIS_201704161550.lrit")
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2017, 4, 16, 15, 50, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := ParseRelayFileTime("IMG_DK01VIS_2017"); !errors.Is(err, ErrShortName) {
		t.Errorf("short name err = %v, want ErrShortName", err)
	}
	if _, err := ParseRelayFileTime("IMG_DK01VIS_2017AB161550.lrit"); err == nil {
		t.Error("expected error for non-numeric date")
	}
}

func TestIsRelayFile(t *testing.T) {
	if !IsRelayFile("/x/IMG_DK01IR1_201704161550.lrit") {
		t.Error("relay name not detected")
	}
	if IsRelayFile("/IMG_DK/other.lrit") {
		t.Error("directory component should not count")
	}
}
