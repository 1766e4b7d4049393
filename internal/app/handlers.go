package app

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/large-farva/lrit-organizer/internal/catalog"
	"github.com/large-farva/lrit-organizer/internal/organizer"
	"github.com/large-farva/lrit-organizer/internal/scanner"
)

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	// If the client asks for JSON, return component-level health checks.
	if r.Header.Get("Accept") == "application/json" {
		a.handleHealthDetailed(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (a *App) handleHealthDetailed(w http.ResponseWriter, _ *http.Request) {
	checks := map[string]any{}
	allOK := true

	if info, err := os.Stat(a.cfg.Data.Root); err != nil {
		checks["data_dir"] = map[string]any{"ok": false, "error": err.Error()}
		allOK = false
	} else if !info.IsDir() {
		checks["data_dir"] = map[string]any{"ok": false, "error": "not a directory"}
		allOK = false
	} else {
		checks["data_dir"] = map[string]any{"ok": true, "path": a.cfg.Data.Root}
	}

	st := a.scanner.Stats()
	if st.LastError != "" {
		checks["scanner"] = map[string]any{"ok": false, "error": st.LastError}
		allOK = false
	} else {
		checks["scanner"] = map[string]any{"ok": true, "passes": st.Passes, "paused": st.Paused}
	}

	// A stale TLE cache only degrades the link report, so it never fails
	// the health check.
	tlePath := filepath.Join(a.cfg.Data.Root, "geo_tle.txt")
	if info, err := os.Stat(tlePath); err != nil {
		checks["tle_cache"] = map[string]any{"ok": false, "error": "cache file not found"}
	} else {
		age := time.Since(info.ModTime())
		fresh := age < time.Duration(a.cfg.Visibility.TLERefreshHours)*time.Hour
		checks["tle_cache"] = map[string]any{"ok": fresh, "age_s": int(age.Seconds())}
	}

	if a.configPath != "" {
		if _, err := os.Stat(a.configPath); err != nil {
			checks["config_file"] = map[string]any{"ok": false, "error": err.Error()}
			allOK = false
		} else {
			checks["config_file"] = map[string]any{"ok": true, "path": a.configPath}
		}
	}

	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"healthy": allOK,
		"checks":  checks,
	})
}

func (a *App) handleStatus(w http.ResponseWriter, _ *http.Request) {
	groups := a.scanner.Snapshot()
	complete := 0
	for _, g := range groups {
		if g.Complete() {
			complete++
		}
	}

	resp := map[string]any{
		"name":            "lrit-organizer",
		"state":           a.currentState(),
		"uptime_seconds":  int64(time.Since(a.startedAt).Seconds()),
		"data_root":       a.cfg.Data.Root,
		"extension":       a.cfg.Scan.Extension,
		"interval_s":      a.cfg.Scan.IntervalSeconds,
		"mode":            "live",
		"groups":          len(groups),
		"complete_groups": complete,
		"scanner":         a.scanner.Stats(),
		"ws_clients":      a.wsHub.Clients(),
		"ws_dropped":      a.wsHub.Dropped(),
	}
	if a.cfg.Demo.Enabled {
		resp["mode"] = "demo"
	}
	if du := diskUsage(a.cfg.Data.Root); du != nil {
		resp["disk"] = du
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *App) handleVersion(w http.ResponseWriter, _ *http.Request) {
	goVersion := GoVersion
	if goVersion == "unknown" {
		goVersion = runtime.Version()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"version":    Version,
		"go_version": goVersion,
		"built_at":   BuiltAt,
	})
}

func (a *App) handleConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.cfg)
}

func (a *App) handleSatellites(w http.ResponseWriter, _ *http.Request) {
	type satJSON struct {
		Name      string  `json:"name"`
		NoradID   int     `json:"norad_id"`
		Longitude float64 `json:"longitude"`
		FreqHz    int     `json:"freq_hz"`
	}
	sats := make([]satJSON, len(catalog.Satellites))
	for i, s := range catalog.Satellites {
		sats[i] = satJSON{Name: s.Name, NoradID: s.NoradID, Longitude: s.Longitude, FreqHz: s.Freq}
	}
	writeJSON(w, http.StatusOK, map[string]any{"satellites": sats})
}

// bandSummary and groupSummary are the list view of a group; the full
// segment maps are only served per group.
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

func summarize(g *organizer.Group) groupSummary {
	s := groupSummary{
		Key:       g.Key,
		Satellite: g.Satellite,
		Region:    g.Region,
		FrameTime: g.FrameTime,
		Crop:      g.Crop,
		Segments:  g.SegmentCount(),
		Complete:  g.Complete(),
		Bands:     make(map[string]bandSummary, len(organizer.Bands)),
	}
	for _, b := range organizer.Bands {
		img := g.Band(b)
		if !img.Initialized() {
			continue
		}
		s.Bands[b.String()] = bandSummary{
			Segments:    len(img.Segments),
			MaxSegments: img.MaxSegments,
			Complete:    img.Complete(),
		}
	}
	return s
}

func (a *App) handleGroups(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	satFilter := q.Get("satellite")

	var wantComplete *bool
	if v := q.Get("complete"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, "complete must be a boolean", http.StatusBadRequest)
			return
		}
		wantComplete = &b
	}

	groups := a.scanner.Snapshot()
	result := make([]groupSummary, 0, len(groups))
	for _, g := range groups {
		if satFilter != "" && !strings.EqualFold(g.Satellite, satFilter) {
			continue
		}
		s := summarize(g)
		if wantComplete != nil && s.Complete != *wantComplete {
			continue
		}
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })

	writeJSON(w, http.StatusOK, map[string]any{"groups": result})
}

func (a *App) handleGroup(w http.ResponseWriter, r *http.Request) {
	key, err := strconv.ParseInt(r.PathValue("key"), 10, 64)
	if err != nil {
		jsonError(w, "group key must be an integer", http.StatusBadRequest)
		return
	}
	g, ok := a.scanner.Group(key)
	if !ok {
		jsonError(w, "group not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (a *App) handleScan(w http.ResponseWriter, r *http.Request) {
	a.scannerCommand(w, r, "scan")
}

func (a *App) handlePause(w http.ResponseWriter, r *http.Request) {
	a.scannerCommand(w, r, "pause")
}

func (a *App) handleResume(w http.ResponseWriter, r *http.Request) {
	a.scannerCommand(w, r, "resume")
}

func (a *App) handleLink(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") == "true" {
		if _, err := a.checker.RefreshTLEs(); err != nil {
			jsonError(w, err.Error(), http.StatusBadGateway)
			return
		}
	}
	writeJSON(w, http.StatusOK, a.checker.Check())
}

// scannerCommand forwards a POSTed command to the scanner loop and waits for
// its reply or for the client to go away.
func (a *App) scannerCommand(w http.ResponseWriter, r *http.Request, cmdType string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reply := make(chan scanner.CommandResult, 1)
	select {
	case a.scanner.Commands <- scanner.Command{Type: cmdType, Reply: reply}:
	case <-r.Context().Done():
		return
	}

	select {
	case result := <-reply:
		writeCommandResult(w, result)
	case <-r.Context().Done():
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]any{
		"ok":    false,
		"error": msg,
	})
}

// writeCommandResult writes a scanner.CommandResult as JSON.
func writeCommandResult(w http.ResponseWriter, result scanner.CommandResult) {
	status := http.StatusOK
	if !result.OK {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
