package ctl

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// WatchOptions controls the watch command behavior.
type WatchOptions struct {
	Filter []string // event types to show (empty = all)
	JSON   bool     // output raw JSON per event
}

// Watch connects to the daemon's WebSocket endpoint and streams events to
// the terminal in a human-readable format until interrupted.
func Watch(baseURL string, opts WatchOptions) error {
	baseURL = strings.TrimRight(baseURL, "/")

	u, err := url.Parse(baseURL)
	if err != nil {
		return err
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	u.Path = "/ws"
	u.RawQuery = ""

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	if !opts.JSON {
		fmt.Println()
		fmt.Printf("  %s %s\n", colorize(green, "connected"), colorize(dim, u.String()))
		if len(opts.Filter) > 0 {
			fmt.Printf("  %s %s\n", colorize(dim, "filter:"), colorize(dim, strings.Join(opts.Filter, ", ")))
		}
		fmt.Println(colorize(dim, "  "+strings.Repeat("─", 50)))
		fmt.Println()
	}

	// Build a filter set for O(1) lookup.
	filterSet := make(map[string]bool, len(opts.Filter))
	for _, f := range opts.Filter {
		filterSet[f] = true
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}

			// Apply event type filter.
			if len(filterSet) > 0 {
				var ev map[string]any
				if err := json.Unmarshal(msg, &ev); err == nil {
					evType, _ := ev["type"].(string)
					if !filterSet[evType] {
						continue
					}
				}
			}

			if opts.JSON {
				fmt.Println(string(msg))
			} else {
				renderEvent(msg)
			}
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sig:
		if !opts.JSON {
			fmt.Println()
			fmt.Println(colorize(dim, "  disconnecting..."))
		}
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
			time.Now().Add(1*time.Second),
		)
		return nil
	case <-done:
		return nil
	}
}

// renderEvent prints one event in a human-friendly format.
func renderEvent(raw []byte) {
	fmt.Print(formatEvent(raw))
}

// formatEvent renders a JSON event as terminal lines. Unrecognized event
// types fall back to indented JSON so nothing is lost.
func formatEvent(raw []byte) string {
	var ev map[string]any
	if err := json.Unmarshal(raw, &ev); err != nil {
		return fmt.Sprintf("  %s\n", string(raw))
	}

	evType, _ := ev["type"].(string)
	ts := formatEventTime(ev)

	switch evType {
	case "heartbeat":
		// Heartbeats are noisy, so they are dimmed on a single line.
		state, _ := ev["state"].(string)
		uptime, _ := ev["uptime_seconds"].(float64)
		groups, _ := ev["groups"].(float64)
		return fmt.Sprintf("  %s %s  %s  up %s  %s\n",
			colorize(dim, ts),
			colorize(dim, "heartbeat"),
			colorize(stateColor(state), state),
			colorize(dim, formatDuration(time.Duration(uptime)*time.Second)),
			colorize(dim, formatCount(int(groups))+" groups"),
		)

	case "state":
		from, _ := ev["from"].(string)
		to, _ := ev["to"].(string)
		return fmt.Sprintf("  %s %s  %s %s %s\n",
			colorize(dim, ts),
			colorize(bold, "STATE"),
			colorize(stateColor(from), from),
			colorize(dim, "->"),
			colorize(stateColor(to), to),
		)

	case "log":
		level, _ := ev["level"].(string)
		message, _ := ev["message"].(string)
		component, _ := ev["component"].(string)
		src := ""
		if component != "" {
			src = colorize(dim, "["+component+"] ")
		}
		return fmt.Sprintf("  %s %s  %s%s\n", colorize(dim, ts), formatLogLevel(level), src, message)

	case "scan_started":
		dir, _ := ev["dir"].(string)
		return fmt.Sprintf("  %s %s  %s\n", colorize(dim, ts), colorize(cyan, padRight("scan", 8)), colorize(dim, dir))

	case "scan_finished":
		num := func(k string) int {
			v, _ := ev[k].(float64)
			return int(v)
		}
		ms, _ := ev["duration_ms"].(float64)
		return fmt.Sprintf("  %s %s  %s seen, %s new, %s failed, %s groups  %s\n",
			colorize(dim, ts),
			colorize(cyan, padRight("scanned", 8)),
			formatCount(num("seen")), formatCount(num("processed")), formatCount(num("failed")), formatCount(num("groups")),
			colorize(dim, (time.Duration(ms)*time.Millisecond).String()),
		)

	case "group_updated":
		key, _ := ev["key"].(float64)
		sat, _ := ev["satellite"].(string)
		region, _ := ev["region"].(string)
		frame, _ := ev["frame_time"].(string)
		segments, _ := ev["segments"].(float64)
		complete, _ := ev["complete"].(bool)
		status := colorize(yellow, "partial")
		if complete {
			status = colorize(green, "complete")
		}
		return fmt.Sprintf("  %s %s  %s %s %s  %d segments  %s  %s\n",
			colorize(dim, ts),
			colorize(blue, padRight("group", 8)),
			colorize(bold, sat), region, colorize(dim, frame),
			int(segments), status,
			colorize(dim, fmt.Sprintf("#%d", int64(key))),
		)

	case "segment_written":
		file, _ := ev["file"].(string)
		sat, _ := ev["satellite"].(string)
		return fmt.Sprintf("  %s %s  %s %s\n",
			colorize(dim, ts), colorize(dim, padRight("segment", 8)), sat, colorize(dim, file))

	default:
		pretty, err := json.MarshalIndent(ev, "  ", "  ")
		if err != nil {
			return fmt.Sprintf("  %s\n", string(raw))
		}
		return fmt.Sprintf("  %s\n", string(pretty))
	}
}

// formatEventTime extracts and shortens the timestamp from an event.
func formatEventTime(ev map[string]any) string {
	tsRaw, ok := ev["ts"].(string)
	if !ok {
		return "          "
	}
	t, err := time.Parse(time.RFC3339Nano, tsRaw)
	if err != nil {
		return padRight(tsRaw, 8)[:8]
	}
	return t.Local().Format("15:04:05")
}

// formatLogLevel returns a colored, fixed-width log level label.
func formatLogLevel(level string) string {
	switch level {
	case "debug":
		return colorize(dim, "DEBUG")
	case "info":
		return colorize(green, "INFO ")
	case "warn":
		return colorize(yellow, "WARN ")
	case "error":
		return colorize(red, "ERROR")
	default:
		return padRight(level, 5)
	}
}
