package ctl

import (
	"fmt"
	"strings"
)

// Build-time variables set via -ldflags.
var (
	Version   = "dev"
	GoVersion = "unknown"
)

// buildInfo is one side of the version report; the daemon side mirrors
// GET /api/version.
type buildInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	BuiltAt   string `json:"built_at,omitempty"`
}

// VersionInfo prints orgctl's build next to the daemon's. A daemon that
// cannot be reached is reported, not treated as a failure.
func VersionInfo(baseURL string, jsonOutput bool) error {
	cli := buildInfo{Version: Version, GoVersion: GoVersion}

	var daemon buildInfo
	daemonErr := getJSON(baseURL, "/api/version", &daemon)

	if jsonOutput {
		resp := map[string]any{"cli": cli}
		if daemonErr != nil {
			resp["daemon_error"] = daemonErr.Error()
		} else {
			resp["daemon"] = daemon
			resp["matched"] = cli.Version == daemon.Version
		}
		return printJSON(resp)
	}

	fmt.Print(renderVersion(cli, daemon, daemonErr))
	return nil
}

func renderVersion(cli, daemon buildInfo, daemonErr error) string {
	var b strings.Builder
	b.WriteString("\n" + header("  ORGANIZER VERSION") + "\n")

	tb := newTable("  ", "Binary", "Version", "Go", "Built")
	tb.row("orgctl", cli.Version, cli.GoVersion, "")
	if daemonErr != nil {
		tb.row("organizerd", colorize(red, "unreachable"), "", "")
	} else {
		tb.row("organizerd", daemon.Version, daemon.GoVersion, daemon.BuiltAt)
	}
	b.WriteString(tb.render())

	switch {
	case daemonErr != nil:
		b.WriteString("  " + colorize(dim, daemonErr.Error()) + "\n")
	case cli.Version != daemon.Version:
		b.WriteString("  " + colorize(yellow, "orgctl and organizerd builds differ") + "\n")
	}
	b.WriteString("\n")
	return b.String()
}
