// Organizerd is the daemon that watches an LRIT/HRIT download directory and
// groups segment files into captures.
//
// It loads configuration, starts the HTTP/WebSocket server and the periodic
// scanner, and optionally writes synthetic segments in demo mode. Shutdown
// is handled gracefully on SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/large-farva/lrit-organizer/internal/app"
	"github.com/large-farva/lrit-organizer/internal/config"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "/etc/lrit/organizer.toml", "Path to config TOML")
		bind       = pflag.String("bind", "", "HTTP bind address (overrides server.bind)")
		dir        = pflag.StringP("dir", "d", "", "Segment directory (overrides data.root)")
		demo       = pflag.Bool("demo", false, "Write synthetic segments into the data directory")
	)
	pflag.Parse()

	cfg, source, err := config.LoadOrDefault(*configPath, pflag.CommandLine.Changed("config"))
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if source == "" {
		log.Printf("no config at %s, using defaults", *configPath)
	}
	if *dir != "" {
		cfg.Data.Root = *dir
	}
	if *demo {
		cfg.Demo.Enabled = true
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := log.New(os.Stdout, "organizerd ", log.LstdFlags|log.Lmicroseconds)

	a := app.New(app.Options{
		Logger:     logger,
		Cfg:        cfg,
		ConfigPath: source,
		Bind:       *bind,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("organizerd failed: %v", err)
	}

	// Brief pause so in-flight log writes can flush before exit.
	time.Sleep(50 * time.Millisecond)
}
