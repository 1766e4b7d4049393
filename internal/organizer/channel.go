package organizer

// Satellite names that change how channel numbers are interpreted.
const (
	SatelliteGOES16    = "G16"
	SatelliteHimawari8 = "HIMAWARI8"
)

// Resolution describes how ResolveBand handled a channel number.
type Resolution int

const (
	// Resolved means a band was found.
	Resolved Resolution = iota
	// UnresolvedReported means the channel is known but not for this
	// satellite, and the mismatch is worth a diagnostic.
	UnresolvedReported
	// UnresolvedSilent means the channel is known but not for this
	// satellite, and the mismatch is expected (other instruments share it).
	UnresolvedSilent
	// Unmapped means the channel number has no entry at all.
	Unmapped
)

// ResolveBand maps a satellite-specific channel number onto a logical band.
// The same number means different things on different instruments, so the
// satellite name must already be known.
func ResolveBand(satellite string, channel int) (Band, Resolution) {
	switch channel {
	case 1:
		return BandVisible, Resolved
	case 2:
		if satellite == SatelliteGOES16 {
			return BandVisible, Resolved
		}
		return BandUnknown, UnresolvedReported
	case 3:
		if satellite == SatelliteHimawari8 {
			return BandInfrared, Resolved
		}
		return BandWaterVapour, Resolved
	case 4:
		return BandInfrared, Resolved
	case 7:
		if satellite == SatelliteHimawari8 {
			return BandWaterVapour, Resolved
		}
		return BandUnknown, UnresolvedSilent
	case 8:
		if satellite == SatelliteGOES16 {
			return BandWaterVapour, Resolved
		}
		return BandUnknown, UnresolvedSilent
	case 13:
		if satellite == SatelliteGOES16 {
			return BandInfrared, Resolved
		}
		return BandUnknown, UnresolvedSilent
	default:
		return BandUnknown, Unmapped
	}
}
