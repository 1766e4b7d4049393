package ctl

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Health checks daemon liveness and per-component health via GET /healthz.
func Health(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	status, body, err := getRaw(baseURL, "/healthz", "application/json")
	if err != nil {
		if jsonOutput {
			return printJSON(map[string]any{"healthy": false, "url": baseURL, "error": err.Error()})
		}
		return err
	}

	var detail struct {
		Healthy bool                      `json:"healthy"`
		Checks  map[string]map[string]any `json:"checks"`
	}
	_ = json.Unmarshal(body, &detail)
	healthy := status == 200

	if jsonOutput {
		return printJSON(map[string]any{"healthy": healthy, "url": baseURL, "checks": detail.Checks})
	}

	fmt.Println()
	if healthy {
		fmt.Printf("  %s  organizerd is reachable at %s\n", colorize(green, "HEALTHY"), colorize(dim, baseURL))
	} else {
		fmt.Printf("  %s  organizerd returned HTTP %d at %s\n", colorize(red, "UNHEALTHY"), status, colorize(dim, baseURL))
	}

	names := make([]string, 0, len(detail.Checks))
	for name := range detail.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := detail.Checks[name]
		mark := colorize(green, "ok  ")
		if ok, _ := c["ok"].(bool); !ok {
			mark = colorize(red, "FAIL")
		}
		note := ""
		if e, _ := c["error"].(string); e != "" {
			note = colorize(dim, e)
		} else if p, _ := c["path"].(string); p != "" {
			note = colorize(dim, p)
		}
		fmt.Printf("    %s %s %s\n", mark, padRight(name, 12), note)
	}
	fmt.Println()

	return nil
}
