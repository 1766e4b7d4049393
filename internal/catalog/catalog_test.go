package catalog

import (
	"testing"

	"github.com/large-farva/lrit-organizer/internal/organizer"
)

func TestLookups(t *testing.T) {
	if s := ByName("himawari8"); s == nil || s.NoradID != 40267 {
		t.Errorf("ByName(himawari8) = %+v", s)
	}
	if s := ByNoradID(41866); s == nil || s.Name != "G16" {
		t.Errorf("ByNoradID(41866) = %+v", s)
	}
	if ByName("NOAA-19") != nil || ByNoradID(1) != nil {
		t.Error("unexpected match")
	}
}

func TestCatalogCoversResolverSatellites(t *testing.T) {
	for _, name := range []string{organizer.SatelliteGOES16, organizer.SatelliteHimawari8} {
		if ByName(name) == nil {
			t.Errorf("%s missing from catalog", name)
		}
	}
}
