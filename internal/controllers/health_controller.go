package controllers

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"emt/internal/store"
	"emt/internal/structures"
	"emt/internal/trending"
)

type HealthController struct {
	conf       *structures.Config
	store      store.EngagementStoreInterface
	recomputer *trending.Recomputer
	startTime  time.Time
}

type healthResponse struct {
	Status           string  `json:"status"`
	Uptime           string  `json:"uptime"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
	Backend          string  `json:"backend"`
	Items            int64   `json:"items"`
	TrendingAt       string  `json:"trending_generated_at,omitempty"`
	TrendingAgeHours float64 `json:"trending_age_hours,omitempty"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	items, err := hc.store.ItemCount(r.Context())
	if err != nil {
		// The store being down is exactly what health checks exist to report.
		writeHealthJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:  "store unavailable",
			Backend: hc.conf.Store.Backend,
		})
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Backend:       hc.conf.Store.Backend,
		Items:         items,
	}
	if last := hc.recomputer.LastSuccess(); !last.IsZero() {
		resp.TrendingAt = last.UTC().Format(time.RFC3339)
		resp.TrendingAgeHours = time.Since(last).Hours()
	}
	writeHealthJSON(w, http.StatusOK, resp)
}

func writeHealthJSON(w http.ResponseWriter, status int, resp healthResponse) {
	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(conf *structures.Config, engagementStore store.EngagementStoreInterface, recomputer *trending.Recomputer) *HealthController {
	return &HealthController{
		conf:       conf,
		store:      engagementStore,
		recomputer: recomputer,
		startTime:  time.Now(),
	}
}
