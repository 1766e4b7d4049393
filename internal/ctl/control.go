package ctl

import (
	"fmt"
	"strings"
)

// Scan asks the daemon for an immediate organizer pass and reports what it
// found.
func Scan(baseURL string, jsonOutput bool) error {
	return scannerControl(baseURL, "/api/scan", "SCANNED", jsonOutput)
}

// Pause suspends scheduled scans on the daemon.
func Pause(baseURL string, jsonOutput bool) error {
	return scannerControl(baseURL, "/api/pause", "PAUSED", jsonOutput)
}

// Resume restarts scheduled scans.
func Resume(baseURL string, jsonOutput bool) error {
	return scannerControl(baseURL, "/api/resume", "RESUMED", jsonOutput)
}

type commandResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Scan    *struct {
		Seen      int     `json:"seen"`
		Processed int     `json:"processed"`
		Failed    int     `json:"failed"`
		Skipped   int     `json:"skipped"`
		Groups    []int64 `json:"groups"`
	} `json:"scan,omitempty"`
}

func scannerControl(baseURL, path, label string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var result commandResult
	if err := postJSON(baseURL, path, nil, &result); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(result)
	}

	if !result.OK {
		fmt.Printf("\n  %s  %s\n\n", colorize(red, "ERROR"), result.Error)
		return nil
	}
	fmt.Printf("\n  %s  %s\n", colorize(green, label), result.Message)
	if s := result.Scan; s != nil {
		fmt.Printf("    %s seen, %s new, %s failed, %s groups touched\n",
			formatCount(s.Seen), formatCount(s.Processed), formatCount(s.Failed), formatCount(len(s.Groups)))
	}
	fmt.Println()
	return nil
}
