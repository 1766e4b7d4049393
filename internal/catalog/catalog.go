// Package catalog lists the geostationary satellites whose LRIT/HRIT
// downlinks the organizer knows how to group.
package catalog

import "strings"

// Satellite describes a geostationary weather bird: the name the organizer
// uses for it, its NORAD catalog number, nominal sub-satellite longitude and
// the downlink frequency in hertz.
type Satellite struct {
	Name      string
	NoradID   int
	Longitude float64 // degrees East
	Freq      int     // downlink frequency in Hz
}

// Satellites is the catalog. Names match the ancillary "Satellite" values
// and the organizer's product overrides.
var Satellites = []Satellite{
	{Name: "G16", NoradID: 41866, Longitude: -75.2, Freq: 1694100000},
	{Name: "G13", NoradID: 29155, Longitude: -75.0, Freq: 1691000000},
	{Name: "G15", NoradID: 36411, Longitude: -128.0, Freq: 1691000000},
	{Name: "HIMAWARI8", NoradID: 40267, Longitude: 140.7, Freq: 1691000000},
}

// ByNoradID returns the satellite with the given NORAD catalog ID, or nil.
func ByNoradID(id int) *Satellite {
	for i := range Satellites {
		if Satellites[i].NoradID == id {
			return &Satellites[i]
		}
	}
	return nil
}

// ByName returns the satellite with the given name (case-insensitive), or nil.
func ByName(name string) *Satellite {
	for i := range Satellites {
		if strings.EqualFold(Satellites[i].Name, name) {
			return &Satellites[i]
		}
	}
	return nil
}
