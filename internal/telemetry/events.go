// Package telemetry defines the events organizerd pushes to WebSocket
// clients and a small emitter that stamps, filters and logs them.
package telemetry

import (
	"fmt"
	"log"
	"time"
)

// EventType identifies the kind of WebSocket event.
type EventType string

const (
	EventHeartbeat    EventType = "heartbeat"
	EventState        EventType = "state"
	EventLog          EventType = "log"
	EventScanStarted  EventType = "scan_started"
	EventScanFinished EventType = "scan_finished"
	EventGroupUpdated EventType = "group_updated"
	EventSegment      EventType = "segment_written"
)

// Event is the envelope shared by every event type.
type Event struct {
	Type      EventType `json:"type"`
	TS        string    `json:"ts"`
	Component string    `json:"component,omitempty"`
}

// NowTS returns the current UTC time as an RFC 3339 nano string, matching the
// timestamp format used across all events.
func NowTS() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Heartbeat is sent periodically so clients can detect connectivity.
type Heartbeat struct {
	Event
	State         string `json:"state"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Groups        int    `json:"groups"`
}

// StateTransition is emitted when the daemon moves between states
// (e.g. IDLE -> SCANNING).
type StateTransition struct {
	Event
	From string `json:"from"`
	To   string `json:"to"`
}

// LogLine carries a human-readable message at a severity level.
type LogLine struct {
	Event
	Level   string `json:"level"`
	Message string `json:"message"`
}

// ScanStarted marks the beginning of an organizer pass.
type ScanStarted struct {
	Event
	Dir string `json:"dir"`
}

// ScanFinished reports the outcome of an organizer pass.
type ScanFinished struct {
	Event
	Seen       int   `json:"seen"`
	Processed  int   `json:"processed"`
	Failed     int   `json:"failed"`
	Skipped    int   `json:"skipped"`
	Groups     int   `json:"groups"`
	DurationMS int64 `json:"duration_ms"`
}

// GroupUpdated is sent for every group a pass touched.
type GroupUpdated struct {
	Event
	Key       int64  `json:"key"`
	Satellite string `json:"satellite"`
	Region    string `json:"region"`
	FrameTime string `json:"frame_time"`
	Segments  int    `json:"segments"`
	Complete  bool   `json:"complete"`
}

// SegmentWritten is sent by the demo writer for each synthetic file.
type SegmentWritten struct {
	Event
	File      string `json:"file"`
	Satellite string `json:"satellite"`
}

// Stamp fills the envelope of an event.
func Stamp(t EventType, component string) Event {
	return Event{Type: t, TS: NowTS(), Component: component}
}

// Sink receives JSON-serializable events. *ws.Hub satisfies it.
type Sink interface {
	BroadcastJSON(v any)
}

var levelRank = map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}

// LevelEnabled reports whether level passes a minimum level. Unknown
// levels always pass.
func LevelEnabled(min, level string) bool {
	m, ok1 := levelRank[min]
	l, ok2 := levelRank[level]
	if !ok1 || !ok2 {
		return true
	}
	return l >= m
}

// Emitter writes log lines to a logger and to a sink, tagged with the
// emitting component.
type Emitter struct {
	Sink      Sink
	Log       *log.Logger
	Component string
	MinLevel  string
}

// Logf logs a formatted message and broadcasts it as a LogLine if level
// passes MinLevel.
func (e *Emitter) Logf(level, format string, args ...any) {
	if !LevelEnabled(e.MinLevel, level) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if e.Log != nil {
		e.Log.Printf("%s: %s", e.Component, msg)
	}
	e.Emit(LogLine{Event: Stamp(EventLog, e.Component), Level: level, Message: msg})
}

// Emit broadcasts an already-built event.
func (e *Emitter) Emit(ev any) {
	if e.Sink != nil {
		e.Sink.BroadcastJSON(ev)
	}
}
