package visibility

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"
)

// gpsdWatch switches gpsd into JSON streaming mode.
const gpsdWatch = `?WATCH={"enable":true,"json":true};` + "\n"

var errNoFix = errors.New("gpsd stream ended without a position fix")

// Location is a ground station position.
type Location struct {
	Lat    float64 `json:"lat"` // degrees North
	Lon    float64 `json:"lon"` // degrees East
	Alt    float64 `json:"alt"` // meters above sea level
	Source string  `json:"source"`
}

// gpsdReport holds the TPV fields a station fix needs. gpsd 3.20 and later
// report altitude as altMSL; older releases only send alt.
type gpsdReport struct {
	Class  string   `json:"class"`
	Mode   int      `json:"mode"`
	Lat    float64  `json:"lat"`
	Lon    float64  `json:"lon"`
	AltMSL *float64 `json:"altMSL"`
	Alt    *float64 `json:"alt"`
}

func (r gpsdReport) altitude() float64 {
	switch {
	case r.Mode < 3:
		return 0
	case r.AltMSL != nil:
		return *r.AltMSL
	case r.Alt != nil:
		return *r.Alt
	}
	return 0
}

// LocationFromGPSD connects to gpsd at addr and returns the first 2D or 3D
// fix it reports. The whole exchange is bounded by timeout.
func LocationFromGPSD(addr string, timeout time.Duration) (Location, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return Location{}, fmt.Errorf("dial gpsd at %s: %w", addr, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return Location{}, err
	}
	if _, err := io.WriteString(conn, gpsdWatch); err != nil {
		return Location{}, fmt.Errorf("start gpsd watch: %w", err)
	}

	loc, err := firstFix(conn)
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return Location{}, fmt.Errorf("no gpsd fix within %v", timeout)
	}
	return loc, err
}

// firstFix reads line-delimited gpsd reports until a TPV with mode 2 or 3
// arrives. VERSION, DEVICES and unparsable lines are skipped.
func firstFix(r io.Reader) (Location, error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		var rep gpsdReport
		if json.Unmarshal(sc.Bytes(), &rep) != nil {
			continue
		}
		if rep.Class != "TPV" || rep.Mode < 2 {
			continue
		}
		return Location{Lat: rep.Lat, Lon: rep.Lon, Alt: rep.altitude(), Source: "gpsd"}, nil
	}
	if err := sc.Err(); err != nil {
		return Location{}, fmt.Errorf("read gpsd reports: %w", err)
	}
	return Location{}, errNoFix
}
