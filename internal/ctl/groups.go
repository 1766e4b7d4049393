package ctl

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

// GroupsOptions configures the groups command.
type GroupsOptions struct {
	Satellite string
	Complete  string // "", "true" or "false"
	Limit     int
	JSON      bool
}

type bandSummary struct {
	Segments    int  `json:"segments"`
	MaxSegments int  `json:"max_segments"`
	Complete    bool `json:"complete"`
}

type groupSummary struct {
	Key       int64                  `json:"key"`
	Satellite string                 `json:"satellite"`
	Region    string                 `json:"region"`
	FrameTime time.Time              `json:"frame_time"`
	Crop      bool                   `json:"crop"`
	Segments  int                    `json:"segments"`
	Complete  bool                   `json:"complete"`
	Bands     map[string]bandSummary `json:"bands"`
}

// bandOrder is the column order of the groups table.
var bandOrder = []string{"visible", "infrared", "water_vapour"}

// Groups lists capture groups, newest last.
func Groups(baseURL string, opts GroupsOptions) error {
	baseURL = strings.TrimRight(baseURL, "/")

	q := url.Values{}
	if opts.Satellite != "" {
		q.Set("satellite", opts.Satellite)
	}
	if opts.Complete != "" {
		q.Set("complete", opts.Complete)
	}
	path := "/api/groups"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp struct {
		Groups []groupSummary `json:"groups"`
	}
	if err := getJSON(baseURL, path, &resp); err != nil {
		return err
	}
	if opts.Limit > 0 && opts.Limit < len(resp.Groups) {
		resp.Groups = resp.Groups[len(resp.Groups)-opts.Limit:]
	}

	if opts.JSON {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  CAPTURE GROUPS"))
	if len(resp.Groups) == 0 {
		fmt.Println(rule(24))
		fmt.Println("  No groups yet.")
		fmt.Println()
		return nil
	}
	fmt.Print(renderGroups(resp.Groups))
	fmt.Println()
	return nil
}

func renderGroups(groups []groupSummary) string {
	t := newTable("  ", "Key", "Frame (UTC)", "Satellite", "Region", "VIS", "IR", "WV", "Status")
	t.alignRight(0)
	for _, g := range groups {
		cells := []string{
			fmt.Sprintf("%d", g.Key),
			g.FrameTime.UTC().Format("2006-01-02 15:04:05"),
			g.Satellite,
			g.Region,
		}
		for _, name := range bandOrder {
			b, ok := g.Bands[name]
			if !ok {
				cells = append(cells, colorize(dim, "-"))
				continue
			}
			cells = append(cells, formatSegments(b.Segments, b.MaxSegments, b.Complete))
		}
		status := colorize(yellow, "partial")
		if g.Complete {
			status = colorize(green, "complete")
		}
		t.row(append(cells, status)...)
	}
	return t.render()
}

type bandDetail struct {
	Segments     map[string]string `json:"segments"`
	Columns      int               `json:"columns"`
	Lines        int               `json:"lines"`
	PixelAspect  float64           `json:"pixel_aspect"`
	ColumnOffset int               `json:"column_offset"`
	MaxSegments  int               `json:"max_segments"`
	Complete     bool              `json:"complete"`
}

type groupDetail struct {
	Key         int64      `json:"key"`
	Satellite   string     `json:"satellite"`
	Region      string     `json:"region"`
	FrameTime   time.Time  `json:"frame_time"`
	Crop        bool       `json:"crop"`
	Visible     bandDetail `json:"visible"`
	Infrared    bandDetail `json:"infrared"`
	WaterVapour bandDetail `json:"water_vapour"`
}

// Group shows one capture group with its segment files.
func Group(baseURL, key string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var g groupDetail
	if err := getJSON(baseURL, "/api/groups/"+url.PathEscape(key), &g); err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(g)
	}

	fmt.Println()
	fmt.Println(header(fmt.Sprintf("  GROUP %d", g.Key)))
	fmt.Println(rule(50))
	fmt.Printf("  %-12s %s\n", colorize(dim, "Satellite:"), g.Satellite)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Region:"), g.Region)
	fmt.Printf("  %-12s %s (%s)\n", colorize(dim, "Frame:"), g.FrameTime.UTC().Format(time.RFC3339), formatAgo(g.FrameTime))
	fmt.Printf("  %-12s %v\n", colorize(dim, "Crop:"), g.Crop)

	for _, b := range []struct {
		name string
		img  bandDetail
	}{{"Visible", g.Visible}, {"Infrared", g.Infrared}, {"Water vapour", g.WaterVapour}} {
		fmt.Printf("\n  %s\n", colorize(bold, b.name))
		if len(b.img.Segments) == 0 {
			fmt.Println(colorize(dim, "    no segments"))
			continue
		}
		fmt.Printf("    %-14s %s\n", colorize(dim, "Segments:"), formatSegments(len(b.img.Segments), b.img.MaxSegments, b.img.Complete))
		fmt.Printf("    %-14s %d x %d (aspect %.3f, column offset %d)\n", colorize(dim, "Geometry:"),
			b.img.Columns, b.img.Lines, b.img.PixelAspect, b.img.ColumnOffset)
		for _, idx := range sortedSegmentKeys(b.img.Segments) {
			fmt.Printf("    %4s  %s\n", idx, b.img.Segments[idx])
		}
	}
	fmt.Println()
	return nil
}

// sortedSegmentKeys orders JSON segment indices numerically.
func sortedSegmentKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
