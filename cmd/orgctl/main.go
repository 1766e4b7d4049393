// Orgctl is the command-line client for monitoring and controlling a running
// organizerd instance. It connects over HTTP and WebSocket to query groups
// and status and to stream live events from the daemon.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/large-farva/lrit-organizer/internal/ctl"
)

func main() {
	var (
		host    = pflag.StringP("host", "H", "http://127.0.0.1:8080", "Organizer daemon URL (e.g. http://192.168.8.1:8080)")
		jsonOut = pflag.Bool("json", false, "Output raw JSON instead of formatted text")
		filter  = pflag.StringSlice("filter", nil, "Event types to show in watch (e.g. --filter state,group_updated)")
	)

	// Stop parsing global flags at the first non-flag argument (the command
	// name), so subcommand-specific flags like --satellite are not rejected.
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cmd := pflag.Arg(0)
	subArgs := pflag.Args()[1:]

	var err error
	switch cmd {
	// ── Query commands ────────────────────────────────────────────
	case "status":
		err = ctl.Status(*host, *jsonOut)

	case "health":
		err = ctl.Health(*host, *jsonOut)

	case "version":
		err = ctl.VersionInfo(*host, *jsonOut)

	case "satellites":
		err = ctl.Satellites(*host, *jsonOut)

	case "config":
		err = ctl.Config(*host, *jsonOut)

	case "groups":
		opts := ctl.GroupsOptions{JSON: *jsonOut}
		groupFlags := pflag.NewFlagSet("groups", pflag.ContinueOnError)
		groupFlags.StringVar(&opts.Satellite, "satellite", "", "Filter by satellite name")
		complete := groupFlags.Bool("complete", false, "Only show complete groups")
		partial := groupFlags.Bool("partial", false, "Only show partial groups")
		groupFlags.IntVar(&opts.Limit, "limit", 0, "Show only the N most recent groups")
		_ = groupFlags.Parse(subArgs)
		switch {
		case *complete:
			opts.Complete = "true"
		case *partial:
			opts.Complete = "false"
		}
		err = ctl.Groups(*host, opts)

	case "group":
		if len(subArgs) < 1 {
			fmt.Fprintln(os.Stderr, "usage: orgctl group <key>")
			os.Exit(2)
		}
		err = ctl.Group(*host, subArgs[0], *jsonOut)

	case "link":
		linkFlags := pflag.NewFlagSet("link", pflag.ContinueOnError)
		refresh := linkFlags.Bool("refresh", false, "Download fresh TLEs before computing")
		_ = linkFlags.Parse(subArgs)
		err = ctl.Link(*host, *refresh, *jsonOut)

	// ── Control commands ──────────────────────────────────────────
	case "scan":
		err = ctl.Scan(*host, *jsonOut)

	case "pause":
		err = ctl.Pause(*host, *jsonOut)

	case "resume":
		err = ctl.Resume(*host, *jsonOut)

	// ── Live streaming ────────────────────────────────────────────
	case "watch":
		err = ctl.Watch(*host, ctl.WatchOptions{
			Filter: *filter,
			JSON:   *jsonOut,
		})

	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(`
  orgctl — LRIT organizer control CLI

  USAGE
    orgctl [flags] <command> [command-flags]

  COMMANDS (query)
    status          Show daemon state, uptime, and scan totals
    health          Check daemon and component health
    version         Show CLI and daemon version information
    satellites      List the satellite catalog
    config          Show the daemon's running configuration
    groups          List capture groups
    group KEY       Show one capture group and its segment files
    link            Show which satellites the station can receive

  COMMANDS (control)
    scan            Run an organizer pass now
    pause           Pause scheduled scans
    resume          Resume scheduled scans

  COMMANDS (live)
    watch           Stream live events from the daemon (Ctrl-C to stop)

  GLOBAL FLAGS
    -H, --host URL      Daemon base URL (default: http://127.0.0.1:8080)
        --json          Output raw JSON instead of formatted text
        --filter TYPE   Event types to show in watch (comma-separated)

  COMMAND FLAGS
    groups:
        --satellite NAME    Filter by satellite name
        --complete          Only complete groups
        --partial           Only partial groups
        --limit N           Show only the N most recent groups

    link:
        --refresh           Download fresh TLEs first

  EXAMPLES
    orgctl status
    orgctl --json groups --complete
    orgctl groups --satellite HIMAWARI8 --limit 5
    orgctl group 1487915118
    orgctl scan
    orgctl link --refresh
    orgctl --host http://192.168.8.1:8080 watch --filter scan_finished,group_updated

`)
}
