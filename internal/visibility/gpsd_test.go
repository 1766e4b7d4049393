package visibility

import (
	"bufio"
	"errors"
	"net"
	"strings"
	"testing"
	"time"
)

func TestFirstFix(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   Location
	}{
		{
			name: "skips preamble and no-fix reports",
			stream: `{"class":"VERSION","release":"3.25"}
not json
{"class":"TPV","mode":1}
{"class":"TPV","mode":3,"lat":38.9,"lon":-77.0,"altMSL":120.5,"alt":150}
`,
			want: Location{Lat: 38.9, Lon: -77.0, Alt: 120.5, Source: "gpsd"},
		},
		{
			name:   "older gpsd alt field",
			stream: `{"class":"TPV","mode":3,"lat":-35.3,"lon":149.1,"alt":580}` + "\n",
			want:   Location{Lat: -35.3, Lon: 149.1, Alt: 580, Source: "gpsd"},
		},
		{
			name:   "2D fix has no altitude",
			stream: `{"class":"TPV","mode":2,"lat":1,"lon":2,"alt":99}` + "\n",
			want:   Location{Lat: 1, Lon: 2, Source: "gpsd"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := firstFix(strings.NewReader(tt.stream))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFirstFix_NoFix(t *testing.T) {
	_, err := firstFix(strings.NewReader(`{"class":"TPV","mode":1}` + "\n"))
	if !errors.Is(err, errNoFix) {
		t.Errorf("err = %v, want errNoFix", err)
	}
}

func TestLocationFromGPSD(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	watch := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		line, _ := bufio.NewReader(conn).ReadString('\n')
		watch <- line
		_, _ = conn.Write([]byte(`{"class":"VERSION"}` + "\n" +
			`{"class":"TPV","mode":3,"lat":38.9,"lon":-77.0,"altMSL":10}` + "\n"))
	}()

	loc, err := LocationFromGPSD(ln.Addr().String(), 2*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if loc.Lat != 38.9 || loc.Alt != 10 || loc.Source != "gpsd" {
		t.Errorf("location = %+v", loc)
	}
	if got := <-watch; got != gpsdWatch {
		t.Errorf("watch command = %q", got)
	}
}

func TestLocationFromGPSD_Timeout(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		<-done
	}()

	_, err = LocationFromGPSD(ln.Addr().String(), 200*time.Millisecond)
	if err == nil || !strings.Contains(err.Error(), "no gpsd fix within") {
		t.Errorf("err = %v", err)
	}
}
