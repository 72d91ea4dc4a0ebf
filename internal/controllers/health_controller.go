package controllers

import (
	"fmt"
	"net/http"
	"time"
	"wolwake/internal/services"
	"wolwake/internal/structures"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	scheduler services.SchedulerInterface
	conf      *structures.Config
	startTime time.Time
}

type healthResponse struct {
	Status           string  `json:"status"`
	Uptime           string  `json:"uptime"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
	SnapshotPath     string  `json:"snapshot_path"`
	LastCheck        string  `json:"last_check,omitempty"`
	LastCheckOutcome string  `json:"last_check_outcome,omitempty"`
	LastRefresh      string  `json:"last_refresh,omitempty"`
	LastRefreshError string  `json:"last_refresh_error,omitempty"`
}

// Health reports "degraded" with 503 while the latest refresh has failed.
func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(hc.startTime)
	run := hc.scheduler.Status()

	resp := healthResponse{
		Status:           "ok",
		Uptime:           formatDuration(uptime),
		UptimeSeconds:    uptime.Seconds(),
		SnapshotPath:     hc.conf.Cache.Path,
		LastCheck:        formatTime(run.LastCheck),
		LastCheckOutcome: run.LastCheckOutcome,
		LastRefresh:      formatTime(run.LastRefresh),
		LastRefreshError: run.LastRefreshError,
	}
	code := http.StatusOK
	if run.LastRefreshError != "" {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func NewHealthController(scheduler services.SchedulerInterface, conf *structures.Config) *HealthController {
	return &HealthController{
		scheduler: scheduler,
		conf:      conf,
		startTime: time.Now(),
	}
}
