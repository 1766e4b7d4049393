// Package scanner drives the organizer on a schedule. It runs one pass per
// interval, lets HTTP handlers request an immediate pass or pause the loop,
// and provides the locking the organizer itself leaves to its owner.
package scanner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/large-farva/lrit-organizer/internal/organizer"
	"github.com/large-farva/lrit-organizer/internal/telemetry"
)

// Command represents an external command sent to the scanner via its
// Commands channel. The Reply channel receives exactly one result.
type Command struct {
	Type  string
	Reply chan<- CommandResult
}

// CommandResult is the response sent back through a Command's Reply channel.
type CommandResult struct {
	OK      bool                  `json:"ok"`
	Message string                `json:"message,omitempty"`
	Error   string                `json:"error,omitempty"`
	Scan    *organizer.ScanResult `json:"scan,omitempty"`
}

// Stats summarizes scanner activity since start.
type Stats struct {
	Passes         int                   `json:"passes"`
	FilesProcessed int                   `json:"files_processed"`
	FilesFailed    int                   `json:"files_failed"`
	Groups         int                   `json:"groups"`
	LastScan       time.Time             `json:"last_scan"`
	LastResult     *organizer.ScanResult `json:"last_result,omitempty"`
	LastError      string                `json:"last_error,omitempty"`
	Paused         bool                  `json:"paused"`
}

// Runner owns an Organizer and is the only goroutine that calls Update.
type Runner struct {
	// Commands receives external commands from HTTP handlers. The loop
	// checks it while waiting for the next pass.
	Commands chan Command

	org      *organizer.Organizer
	interval time.Duration
	events   *telemetry.Emitter

	// mu serializes Update against readers of the group store.
	mu    sync.RWMutex
	stats Stats

	paused atomic.Bool
}

// New creates a scanner that runs a pass over org every interval.
func New(org *organizer.Organizer, interval time.Duration, events *telemetry.Emitter) *Runner {
	if events == nil {
		events = &telemetry.Emitter{Component: "scanner"}
	}
	return &Runner{
		Commands: make(chan Command, 4),
		org:      org,
		interval: interval,
		events:   events,
	}
}

// IsPaused reports whether scheduled passes are suspended.
func (r *Runner) IsPaused() bool {
	return r.paused.Load()
}

// Run is the main scanner loop. It scans immediately, then once per
// interval, handling commands in between, until ctx is cancelled.
func (r *Runner) Run(ctx context.Context, setState func(string)) {
	r.events.Logf("info", "scanner started for %s every %s", r.org.Dir(), r.interval)

	for {
		if ctx.Err() != nil {
			return
		}

		if r.paused.Load() {
			setState("PAUSED")
		} else {
			r.ScanOnce(setState)
		}

		if r.sleepOrCommand(ctx, r.interval, setState) == sleepCancelled {
			return
		}
	}
}

// ScanOnce runs a single organizer pass under the store lock and reports
// the outcome to clients.
func (r *Runner) ScanOnce(setState func(string)) (organizer.ScanResult, error) {
	setState("SCANNING")
	defer setState("IDLE")

	r.events.Emit(telemetry.ScanStarted{
		Event: telemetry.Stamp(telemetry.EventScanStarted, r.events.Component),
		Dir:   r.org.Dir(),
	})

	start := time.Now()
	r.mu.Lock()
	res, err := r.org.Update()
	var touched []*organizer.Group
	for _, k := range res.Groups {
		if g, ok := r.org.Group(k); ok {
			touched = append(touched, g.Clone())
		}
	}
	r.stats.Passes++
	r.stats.LastScan = start.UTC()
	r.stats.Groups = len(r.org.Groups())
	if err != nil {
		r.stats.LastError = err.Error()
	} else {
		r.stats.LastError = ""
		r.stats.FilesProcessed += res.Processed
		r.stats.FilesFailed += res.Failed
		r.stats.LastResult = &res
	}
	groups := r.stats.Groups
	r.mu.Unlock()

	if err != nil {
		r.events.Logf("error", "scan failed: %v", err)
		return res, err
	}

	for _, g := range touched {
		r.events.Emit(groupEvent(r.events.Component, g))
	}
	r.events.Emit(telemetry.ScanFinished{
		Event:      telemetry.Stamp(telemetry.EventScanFinished, r.events.Component),
		Seen:       res.Seen,
		Processed:  res.Processed,
		Failed:     res.Failed,
		Skipped:    res.Skipped,
		Groups:     groups,
		DurationMS: time.Since(start).Milliseconds(),
	})
	if res.Processed > 0 {
		r.events.Logf("info", "processed %d new files (%d failed) into %d groups", res.Processed, res.Failed, len(res.Groups))
	} else {
		r.events.Logf("debug", "no new files in %s", r.org.Dir())
	}
	return res, nil
}

func groupEvent(component string, g *organizer.Group) telemetry.GroupUpdated {
	return telemetry.GroupUpdated{
		Event:     telemetry.Stamp(telemetry.EventGroupUpdated, component),
		Key:       g.Key,
		Satellite: g.Satellite,
		Region:    g.Region,
		FrameTime: g.FrameTime.Format(time.RFC3339),
		Segments:  g.SegmentCount(),
		Complete:  g.Complete(),
	}
}

// Snapshot returns deep copies of every group.
func (r *Runner) Snapshot() map[int64]*organizer.Group {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.org.Snapshot()
}

// Group returns a copy of one group.
func (r *Runner) Group(key int64) (*organizer.Group, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.org.Group(key)
	if !ok {
		return nil, false
	}
	return g.Clone(), true
}

// Stats returns a copy of the running totals.
func (r *Runner) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := r.stats
	if s.LastResult != nil {
		lr := *s.LastResult
		s.LastResult = &lr
	}
	s.Paused = r.paused.Load()
	return s
}

// sleepResult indicates what ended a sleep period.
type sleepResult int

const (
	sleepCompleted   sleepResult = iota // timer expired normally
	sleepCancelled                      // context was cancelled
	sleepInterrupted                    // a command was received and handled
)

// sleepOrCommand blocks for d, until ctx is cancelled, or until a command
// arrives on r.Commands. Commands are handled inline.
func (r *Runner) sleepOrCommand(ctx context.Context, d time.Duration, setState func(string)) sleepResult {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return sleepCancelled
	case <-t.C:
		return sleepCompleted
	case cmd := <-r.Commands:
		r.handleCommand(cmd, setState)
		return sleepInterrupted
	}
}

// handleCommand dispatches an incoming command.
func (r *Runner) handleCommand(cmd Command, setState func(string)) {
	switch cmd.Type {
	case "scan":
		res, err := r.ScanOnce(setState)
		if err != nil {
			cmd.Reply <- CommandResult{OK: false, Error: "scan failed: " + err.Error()}
			return
		}
		cmd.Reply <- CommandResult{OK: true, Message: "scan complete", Scan: &res}
	case "pause":
		if r.paused.Swap(true) {
			cmd.Reply <- CommandResult{OK: true, Message: "scanner already paused"}
			return
		}
		r.events.Logf("info", "scanner paused by user")
		cmd.Reply <- CommandResult{OK: true, Message: "scanner paused"}
	case "resume":
		if !r.paused.Swap(false) {
			cmd.Reply <- CommandResult{OK: true, Message: "scanner already running"}
			return
		}
		r.events.Logf("info", "scanner resumed by user")
		cmd.Reply <- CommandResult{OK: true, Message: "scanner resumed"}
	default:
		cmd.Reply <- CommandResult{OK: false, Error: "unknown command: " + cmd.Type}
	}
}
