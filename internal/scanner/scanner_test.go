package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/large-farva/lrit-organizer/internal/organizer"
	"github.com/large-farva/lrit-organizer/internal/telemetry"
)

type memSink struct {
	mu     sync.Mutex
	events []map[string]any
}

func (s *memSink) BroadcastJSON(v any) {
	b, _ := json.Marshal(v)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	s.mu.Lock()
	s.events = append(s.events, m)
	s.mu.Unlock()
}

func (s *memSink) types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, ev := range s.events {
		out = append(out, ev["type"].(string))
	}
	return out
}

func visibleSegment(path string) (*organizer.Metadata, error) {
	if filepath.Base(path) == "bad.lrit" {
		return nil, errors.New("corrupt")
	}
	frame := "2017/055/05:45:18"
	ch := "1"
	return &organizer.Metadata{
		Ancillary:   &organizer.Ancillary{Channel: &ch, FrameStart: &frame},
		Segment:     &organizer.SegmentInfo{Sequence: 0, MaxSegments: 1},
		Columns:     100,
		Lines:       100,
		LineScaling: 1,
	}, nil
}

func newRunner(t *testing.T) (*Runner, string, *memSink) {
	t.Helper()
	dir := t.TempDir()
	org := organizer.New(organizer.Options{Dir: dir, Extractor: organizer.ExtractorFunc(visibleSegment)})
	sink := &memSink{}
	r := New(org, time.Hour, &telemetry.Emitter{Sink: sink, Component: "scanner", MinLevel: "info"})
	return r, dir, sink
}

func noState(string) {}

func TestScanOnce(t *testing.T) {
	r, dir, sink := newRunner(t)
	for _, n := range []string{"a.lrit", "bad.lrit"} {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var states []string
	res, err := r.ScanOnce(func(s string) { states = append(states, s) })
	if err != nil {
		t.Fatal(err)
	}
	if res.Processed != 2 || res.Failed != 1 {
		t.Errorf("result = %+v", res)
	}
	if len(states) != 2 || states[0] != "SCANNING" || states[1] != "IDLE" {
		t.Errorf("states = %v", states)
	}

	st := r.Stats()
	if st.Passes != 1 || st.FilesProcessed != 2 || st.FilesFailed != 1 || st.Groups != 1 {
		t.Errorf("stats = %+v", st)
	}

	seen := map[string]int{}
	for _, typ := range sink.types() {
		seen[typ]++
	}
	if seen["scan_started"] != 1 || seen["scan_finished"] != 1 || seen["group_updated"] != 1 {
		t.Errorf("events = %v", seen)
	}

	snap := r.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("snapshot = %v", snap)
	}
	for k := range snap {
		g, ok := r.Group(k)
		if !ok || !g.Visible.Complete() {
			t.Errorf("group %d = %+v", k, g)
		}
	}
}

func TestScanOnce_MissingDir(t *testing.T) {
	org := organizer.New(organizer.Options{Dir: filepath.Join(t.TempDir(), "gone"), Extractor: organizer.ExtractorFunc(visibleSegment)})
	r := New(org, time.Hour, nil)
	if _, err := r.ScanOnce(noState); err == nil {
		t.Fatal("expected error")
	}
	if r.Stats().LastError == "" {
		t.Error("last error not recorded")
	}
}

func send(t *testing.T, r *Runner, typ string) CommandResult {
	t.Helper()
	reply := make(chan CommandResult, 1)
	r.Commands <- Command{Type: typ, Reply: reply}
	select {
	case res := <-reply:
		return res
	case <-time.After(3 * time.Second):
		t.Fatalf("no reply to %s", typ)
		return CommandResult{}
	}
}

func TestRunCommands(t *testing.T) {
	r, dir, _ := newRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, noState)
		close(done)
	}()

	if res := send(t, r, "pause"); !res.OK || !r.IsPaused() {
		t.Errorf("pause = %+v", res)
	}
	if res := send(t, r, "pause"); res.Message != "scanner already paused" {
		t.Errorf("second pause = %+v", res)
	}

	if err := os.WriteFile(filepath.Join(dir, "a.lrit"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	res := send(t, r, "scan")
	if !res.OK || res.Scan == nil || res.Scan.Processed != 1 {
		t.Errorf("scan = %+v", res)
	}

	if res := send(t, r, "resume"); !res.OK || r.IsPaused() {
		t.Errorf("resume = %+v", res)
	}
	if res := send(t, r, "bogus"); res.OK {
		t.Errorf("bogus = %+v", res)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not stop")
	}
}
