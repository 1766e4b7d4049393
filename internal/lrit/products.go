package lrit

// NOAA product IDs carried in the type 129 header.
const (
	ProductNOAAText     = 1
	ProductOtherSat1    = 3
	ProductOtherSat2    = 4
	ProductWeatherData  = 6
	ProductDCS          = 8
	ProductEMWIN        = 9
	ProductGOES13ABI    = 13
	ProductGOES15ABI    = 15
	ProductGOES16ABI    = 16
	ProductHimawari8ABI = 43
)

var productNames = map[uint16]string{
	ProductNOAAText:     "NOAA Text",
	ProductOtherSat1:    "Other Satellites 1",
	ProductOtherSat2:    "Other Satellites 2",
	ProductWeatherData:  "Weather Data",
	ProductDCS:          "DCS",
	ProductEMWIN:        "EMWIN",
	ProductGOES13ABI:    "GOES-13 ABI",
	ProductGOES15ABI:    "GOES-15 ABI",
	ProductGOES16ABI:    "GOES-16 ABI",
	ProductHimawari8ABI: "Himawari-8 ABI",
}

// ProductName returns a display name for a product ID, or "" if unknown.
func ProductName(id uint16) string {
	return productNames[id]
}
