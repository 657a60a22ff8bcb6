package handlers

import (
	"net/http"
	"time"

	"github.com/sqlpeek/sqlpeek/internal/scheduler"
)

// StatusHandler handles GET /api/status.
type StatusHandler struct {
	Sched *scheduler.Scheduler
}

type statusResponse struct {
	Status   string       `json:"status"`
	Schedule scheduleInfo `json:"schedule"`
}

type scheduleInfo struct {
	Cron      string     `json:"cron"`
	NextRunAt *time.Time `json:"next_run_at"`
}

// ServeHTTP returns the service status and the re-analysis schedule as JSON.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Status: "ok"}
	if h.Sched != nil {
		resp.Schedule = scheduleInfo{
			Cron:      h.Sched.CronExpr(),
			NextRunAt: h.Sched.NextRunAt(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
