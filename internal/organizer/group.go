package organizer

import "time"

// Unknown is the satellite and region name used until a file says otherwise.
const Unknown = "Unknown"

// Group collects every segment believed to belong to one capture, keyed by
// the normalized capture time.
type Group struct {
	Key       int64     `json:"key"`
	Satellite string    `json:"satellite"`
	Region    string    `json:"region"`
	FrameTime time.Time `json:"frame_time"`
	Crop      bool      `json:"crop"`

	Visible     *BandImage `json:"visible"`
	Infrared    *BandImage `json:"infrared"`
	WaterVapour *BandImage `json:"water_vapour"`
}

func newGroup(key int64) *Group {
	return &Group{
		Key:         key,
		Satellite:   Unknown,
		Region:      Unknown,
		Visible:     newBandImage(),
		Infrared:    newBandImage(),
		WaterVapour: newBandImage(),
	}
}

// Band returns the image for b, or nil for BandUnknown.
func (g *Group) Band(b Band) *BandImage {
	switch b {
	case BandVisible:
		return g.Visible
	case BandInfrared:
		return g.Infrared
	case BandWaterVapour:
		return g.WaterVapour
	default:
		return nil
	}
}

// SegmentCount is the number of segments across all bands.
func (g *Group) SegmentCount() int {
	return len(g.Visible.Segments) + len(g.Infrared.Segments) + len(g.WaterVapour.Segments)
}

// Complete reports whether the group holds at least one segment and every
// band that has started is complete. Bands never seen do not count.
func (g *Group) Complete() bool {
	if g.SegmentCount() == 0 {
		return false
	}
	for _, b := range Bands {
		if img := g.Band(b); img.Initialized() && !img.Complete() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy that shares nothing with g.
func (g *Group) Clone() *Group {
	c := *g
	c.Visible = g.Visible.clone()
	c.Infrared = g.Infrared.clone()
	c.WaterVapour = g.WaterVapour.clone()
	return &c
}
