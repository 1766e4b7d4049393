// Package ctl implements the client-side commands for orgctl.
// It talks to a running organizerd over HTTP and WebSocket and renders the results to the terminal.
package ctl

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// ANSI escape codes for terminal formatting.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	cyan   = "\033[36m"
	white  = "\033[37m"
)

// colorEnabled reports whether stdout is a terminal. When output is piped
// or redirected, ANSI escape codes are suppressed.
func colorEnabled() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// stateColor returns the ANSI color code appropriate for a daemon state.
func stateColor(state string) string {
	if !colorEnabled() {
		return ""
	}
	switch state {
	case "IDLE":
		return green
	case "SCANNING":
		return cyan
	case "PAUSED":
		return yellow
	case "BOOTING":
		return dim
	default:
		return white
	}
}

// colorize wraps text with an ANSI color sequence.
// Returns the text unchanged when color output is disabled.
func colorize(color, text string) string {
	if !colorEnabled() || color == "" {
		return text
	}
	return color + text + reset
}

// header returns a bold section header, or plain text when color is off.
func header(title string) string {
	if colorEnabled() {
		return bold + title + reset
	}
	return title
}

// rule is the dim separator printed under section headers.
func rule(width int) string {
	return colorize(dim, "  "+strings.Repeat("─", width))
}

// padRight pads s with spaces to reach the given width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// formatDuration renders a duration as a compact human string like
// "2h 14m 8s" or "45s".
func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// formatCount renders an integer with thousands separators.
func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

// formatAgo renders t relative to now ("3 minutes ago"), or "never" for the
// zero time.
func formatAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// formatSegments renders "have/want", colored by completeness.
func formatSegments(have, want int, complete bool) string {
	s := fmt.Sprintf("%d/%d", have, want)
	if complete {
		return colorize(green, s)
	}
	return colorize(yellow, s)
}

// table lays out rows in aligned columns. Colored cells are measured by
// their visible width.
type table struct {
	indent  string
	headers []string
	rows    [][]string
	right   map[int]bool
}

func newTable(indent string, headers ...string) *table {
	return &table{indent: indent, headers: headers, right: map[int]bool{}}
}

// alignRight right-aligns column i.
func (t *table) alignRight(i int) {
	t.right[i] = true
}

func (t *table) row(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) flush() {
	fmt.Print(t.render())
}

func (t *table) render() string {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, r := range t.rows {
		for i, c := range r {
			if i < len(widths) && visibleLen(c) > widths[i] {
				widths[i] = visibleLen(c)
			}
		}
	}

	var b strings.Builder
	line := func(cells []string, style func(string) string) {
		b.WriteString(t.indent)
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := strings.Repeat(" ", widths[i]-visibleLen(cell))
			if t.right[i] {
				b.WriteString(pad + style(cell))
			} else {
				b.WriteString(style(cell))
				if i < len(widths)-1 {
					b.WriteString(pad)
				}
			}
			if i < len(widths)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}

	line(t.headers, func(s string) string { return colorize(dim, s) })
	total := 0
	for _, w := range widths {
		total += w + 2
	}
	b.WriteString(t.indent + colorize(dim, strings.Repeat("─", max(total-2, 0))) + "\n")
	for _, r := range t.rows {
		line(r, func(s string) string { return s })
	}
	return b.String()
}

// visibleLen counts runes outside ANSI escape sequences.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		switch {
		case inEsc:
			if r == 'm' {
				inEsc = false
			}
		case r == '\033':
			inEsc = true
		default:
			n++
		}
	}
	return n
}
