package telemetry

import (
	"bytes"
	"encoding/json"
	"log"
	"strings"
	"testing"
)

type captureSink struct {
	msgs [][]byte
}

func (c *captureSink) BroadcastJSON(v any) {
	b, _ := json.Marshal(v)
	c.msgs = append(c.msgs, b)
}

func TestLevelEnabled(t *testing.T) {
	tests := []struct {
		min, level string
		want       bool
	}{
		{"info", "debug", false},
		{"info", "info", true},
		{"info", "error", true},
		{"error", "warn", false},
		{"", "debug", true},
		{"info", "trace", true},
	}
	for _, tt := range tests {
		if got := LevelEnabled(tt.min, tt.level); got != tt.want {
			t.Errorf("LevelEnabled(%q, %q) = %v, want %v", tt.min, tt.level, got, tt.want)
		}
	}
}

func TestEmitterLogf(t *testing.T) {
	var buf bytes.Buffer
	sink := &captureSink{}
	e := &Emitter{Sink: sink, Log: log.New(&buf, "", 0), Component: "scanner", MinLevel: "info"}

	e.Logf("debug", "hidden %d", 1)
	e.Logf("warn", "pass took %ds", 3)

	if len(sink.msgs) != 1 {
		t.Fatalf("got %d events, want 1", len(sink.msgs))
	}
	var ev map[string]any
	if err := json.Unmarshal(sink.msgs[0], &ev); err != nil {
		t.Fatal(err)
	}
	if ev["type"] != "log" || ev["level"] != "warn" || ev["component"] != "scanner" || ev["message"] != "pass took 3s" {
		t.Errorf("event = %v", ev)
	}
	if _, ok := ev["ts"].(string); !ok {
		t.Error("missing ts")
	}
	if got := buf.String(); !strings.Contains(got, "scanner: pass took 3s") || strings.Contains(got, "hidden") {
		t.Errorf("log = %q", got)
	}
}
