// Package app wires together the HTTP server, the WebSocket hub, the scanner
// that drives the organizer and, optionally, the demo segment writer. It
// owns the daemon's lifecycle and is the single source of truth for the
// current operating state.
package app

import (
	"context"
	"log"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/large-farva/lrit-organizer/internal/config"
	"github.com/large-farva/lrit-organizer/internal/demo"
	"github.com/large-farva/lrit-organizer/internal/lrit"
	"github.com/large-farva/lrit-organizer/internal/organizer"
	"github.com/large-farva/lrit-organizer/internal/scanner"
	"github.com/large-farva/lrit-organizer/internal/telemetry"
	"github.com/large-farva/lrit-organizer/internal/visibility"
	"github.com/large-farva/lrit-organizer/internal/ws"
)

const component = "organizerd"

// Options holds everything the App needs from the caller.
type Options struct {
	Logger     *log.Logger
	Cfg        config.Config
	ConfigPath string
	Bind       string
}

// App is the top-level daemon process.
type App struct {
	log        *log.Logger
	cfg        config.Config
	configPath string
	bind       string
	server     *http.Server

	startedAt time.Time
	state     atomic.Value // current state string (BOOTING, IDLE, etc.)

	wsHub   *ws.Hub
	scanner *scanner.Runner
	checker *visibility.Checker
}

// New creates an App in the BOOTING state. Call Run to start serving.
func New(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[organizerd] ", log.LstdFlags|log.Lmicroseconds)
	}
	a := &App{
		log:        logger,
		cfg:        opts.Cfg,
		configPath: opts.ConfigPath,
		bind:       opts.Bind,
		startedAt:  time.Now(),
		wsHub:      ws.NewHub(),
	}
	a.state.Store("BOOTING")

	org := organizer.New(organizer.Options{
		Dir:       a.cfg.Data.Root,
		Extension: a.cfg.Scan.Extension,
		Extractor: lrit.Extractor{},
		Events:    a.emitter("organizer"),
	})
	a.scanner = scanner.New(org,
		time.Duration(a.cfg.Scan.IntervalSeconds)*time.Second,
		a.emitter("scanner"))
	a.checker = visibility.NewChecker(a.cfg, a.cfg.Data.Root, a.emitter("visibility"))
	return a
}

// emitter returns a telemetry emitter for one component, filtered at the
// configured log level.
func (a *App) emitter(name string) *telemetry.Emitter {
	return &telemetry.Emitter{
		Sink:      a.wsHub,
		Log:       a.log,
		Component: name,
		MinLevel:  a.cfg.Logging.Level,
	}
}

// Handler returns the HTTP routes served by the daemon.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/api/status", a.handleStatus)
	mux.HandleFunc("/api/version", a.handleVersion)
	mux.HandleFunc("/api/config", a.handleConfig)
	mux.HandleFunc("/api/satellites", a.handleSatellites)
	mux.HandleFunc("/api/groups", a.handleGroups)
	mux.HandleFunc("/api/groups/{key}", a.handleGroup)
	mux.HandleFunc("/api/scan", a.handleScan)
	mux.HandleFunc("/api/pause", a.handlePause)
	mux.HandleFunc("/api/resume", a.handleResume)
	mux.HandleFunc("/api/link", a.handleLink)
	mux.Handle("/ws", a.wsHub.Handler())
	return mux
}

// Run starts the HTTP server, WebSocket hub, heartbeat ticker, scanner and,
// when enabled, the demo writer. It blocks until the context is cancelled or
// the server returns an error.
func (a *App) Run(ctx context.Context) error {
	bind := a.bind
	if bind == "" && a.cfg.Server.Bind != "" {
		bind = a.cfg.Server.Bind
	}
	if bind == "" {
		bind = "0.0.0.0:8080"
	}

	a.server = &http.Server{
		Addr:              bind,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}

	a.log.Printf("listening on http://%s", bind)
	a.log.Printf("organizing %s*%s", a.cfg.Data.Root, a.cfg.Scan.Extension)

	go a.wsHub.Run(ctx)
	a.transition("IDLE")
	go a.heartbeatLoop(ctx)

	if a.cfg.Demo.Enabled {
		interval := time.Duration(a.cfg.Demo.IntervalSeconds) * time.Second
		if interval <= 0 {
			interval = time.Minute
		}
		go demo.New(a.cfg.Data.Root, interval, a.emitter("demo")).Run(ctx)
	}
	go a.scanner.Run(ctx, a.transition)

	go func() {
		<-ctx.Done()
		a.log.Printf("shutdown requested")
		_ = a.server.Shutdown(context.Background())
	}()

	return a.server.Serve(ln)
}

func (a *App) currentState() string {
	return a.state.Load().(string)
}

// transition updates the daemon state and broadcasts the change to all
// connected WebSocket clients.
func (a *App) transition(newState string) {
	old := a.currentState()
	if old == newState {
		return
	}
	a.state.Store(newState)

	a.wsHub.BroadcastJSON(telemetry.StateTransition{
		Event: telemetry.Stamp(telemetry.EventState, component),
		From:  old,
		To:    newState,
	})
}

// heartbeatLoop sends a periodic heartbeat event so clients can detect
// connectivity and track uptime without polling.
func (a *App) heartbeatLoop(ctx context.Context) {
	t := time.NewTicker(10 * time.Second)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			a.wsHub.BroadcastJSON(telemetry.Heartbeat{
				Event:         telemetry.Stamp(telemetry.EventHeartbeat, component),
				State:         a.currentState(),
				UptimeSeconds: int64(time.Since(a.startedAt).Seconds()),
				Groups:        a.scanner.Stats().Groups,
			})
		}
	}
}
