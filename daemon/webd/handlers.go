package webd

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rotblauer/stopd/cache"
	"github.com/rotblauer/stopd/params"
	"github.com/rotblauer/stopd/state"
)

func pingPong(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

type webDaemonStatus struct {
	StartedAt time.Time               `json:"started_at"`
	Uptime    string                  `json:"uptime"`
	Config    *params.WebDaemonConfig `json:"config"`
	WSOpen    bool                    `json:"ws_open"`
	WSConns   int                     `json:"ws_conns"`
}

func (s *WebDaemon) statusReport(w http.ResponseWriter, r *http.Request) {
	st := webDaemonStatus{
		StartedAt: s.started,
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		WSOpen:    !s.melodyInstance.IsClosed(),
		WSConns:   s.melodyInstance.Len(),
		Config:    s.Config,
	}
	j, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		s.logger.Error("Failed to marshal status", "error", err)
		http.Error(w, "Failed to marshal status", http.StatusInternalServerError)
		return
	}
	if _, err := w.Write(j); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}

// handleParams reports the detection configuration HTTP runs use.
func (s *WebDaemon) handleParams(w http.ResponseWriter, r *http.Request) {
	if err := json.NewEncoder(w).Encode(s.Config.Detection); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}

// handleLastRun reports the most recent completed run, preferring the
// hot cache and falling back to the state DB.
func (s *WebDaemon) handleLastRun(w http.ResponseWriter, r *http.Request) {
	if rec := cache.GetLastRun(s.Config.DataDir); rec != nil {
		if err := json.NewEncoder(w).Encode(rec); err != nil {
			s.logger.Warn("Failed to write response", "error", err)
		}
		return
	}

	rs, err := state.NewRunState(s.Config.DataDir, true)
	if err != nil {
		s.logger.Warn("Failed to open run state", "error", err)
		http.Error(w, "Failed to open run state", http.StatusInternalServerError)
		return
	}
	defer rs.Close()

	rec, err := rs.ReadLastRun()
	if err != nil {
		s.logger.Warn("No last run", "error", err)
		http.Error(w, "No last run", http.StatusNoContent)
		return
	}
	cache.SetLastRun(s.Config.DataDir, rec)
	if err := json.NewEncoder(w).Encode(rec); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}
