package ctl

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// StatusResponse mirrors the JSON returned by GET /api/status.
type StatusResponse struct {
	Name           string `json:"name"`
	State          string `json:"state"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	DataRoot       string `json:"data_root"`
	Extension      string `json:"extension"`
	IntervalS      int    `json:"interval_s"`
	Mode           string `json:"mode"`
	Groups         int    `json:"groups"`
	CompleteGroups int    `json:"complete_groups"`
	WSClients      int    `json:"ws_clients"`
	WSDropped      int64  `json:"ws_dropped"`
	Scanner        struct {
		Passes         int       `json:"passes"`
		FilesProcessed int       `json:"files_processed"`
		FilesFailed    int       `json:"files_failed"`
		LastScan       time.Time `json:"last_scan"`
		LastError      string    `json:"last_error"`
		Paused         bool      `json:"paused"`
	} `json:"scanner"`
	Disk *struct {
		TotalBytes     uint64 `json:"total_bytes"`
		UsedBytes      uint64 `json:"used_bytes"`
		AvailableBytes uint64 `json:"available_bytes"`
	} `json:"disk"`
}

// Status fetches the daemon status and prints a formatted summary.
func Status(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var s StatusResponse
	if err := getJSON(baseURL, "/api/status", &s); err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(s)
	}

	fmt.Println()
	fmt.Println(header("  LRIT ORGANIZER STATUS"))
	fmt.Println(rule(38))
	fmt.Print(renderStatus(s, baseURL))
	fmt.Println()
	return nil
}

func renderStatus(s StatusResponse, baseURL string) string {
	var b strings.Builder
	field := func(key, val string) {
		fmt.Fprintf(&b, "  %-12s %s\n", colorize(dim, key+":"), val)
	}

	state := colorize(stateColor(s.State), s.State)
	if s.Scanner.Paused && s.State != "PAUSED" {
		state += colorize(yellow, " (paused)")
	}

	field("Daemon", s.Name+" ("+s.Mode+")")
	field("State", state)
	field("Uptime", formatDuration(time.Duration(s.UptimeSeconds)*time.Second))
	field("Watching", s.DataRoot+"/*"+s.Extension)
	field("Interval", formatDuration(time.Duration(s.IntervalS)*time.Second))
	field("Groups", fmt.Sprintf("%s (%s complete)", formatCount(s.Groups), formatCount(s.CompleteGroups)))
	field("Files", fmt.Sprintf("%s processed, %s failed", formatCount(s.Scanner.FilesProcessed), formatCount(s.Scanner.FilesFailed)))
	field("Last scan", fmt.Sprintf("%s (%s passes)", formatAgo(s.Scanner.LastScan), formatCount(s.Scanner.Passes)))
	if s.Scanner.LastError != "" {
		field("Last error", colorize(red, s.Scanner.LastError))
	}
	if s.Disk != nil && s.Disk.TotalBytes > 0 {
		field("Disk", fmt.Sprintf("%s free of %s", humanize.IBytes(s.Disk.AvailableBytes), humanize.IBytes(s.Disk.TotalBytes)))
	}
	field("Clients", fmt.Sprintf("%d connected, %s events dropped", s.WSClients, humanize.Comma(s.WSDropped)))
	field("Host", baseURL)
	return b.String()
}
