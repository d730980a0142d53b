package webd

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rotblauer/stopd/api"
	"github.com/rotblauer/stopd/cache"
	"github.com/rotblauer/stopd/export"
	"github.com/rotblauer/stopd/feed"
	"github.com/rotblauer/stopd/geo/detector"
	"github.com/rotblauer/stopd/reports"
	"github.com/rotblauer/stopd/state"
	"github.com/rotblauer/stopd/types/fix"
)

// detectResponse is what a successful POST /detect returns.
type detectResponse struct {
	*export.Doc
	Summary *reports.Summary `json:"summary"`
	Quality *reports.Quality `json:"quality"`
}

// requestFeedFormat picks the feed codec from a ?format= param first,
// then the Content-Type. CSV is the default; telematics exports
// usually are.
func requestFeedFormat(r *http.Request) feed.Format {
	f := r.URL.Query().Get("format")
	if f == "" {
		f = r.Header.Get("Content-Type")
	}
	if strings.Contains(f, "ndjson") || strings.Contains(f, "json") {
		return feed.FormatNDJSON
	}
	return feed.FormatCSV
}

// requestStrategies parses a ?strategies=timegap,speed param. Empty or
// absent means all.
func requestStrategies(r *http.Request) (detector.Set, error) {
	raw := r.URL.Query().Get("strategies")
	if raw == "" {
		return detector.NewSet(detector.All...), nil
	}
	set := detector.Set{}
	for _, name := range strings.Split(raw, ",") {
		st, err := detector.ParseStrategy(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		set[st] = true
	}
	return set, nil
}

// readRequestFeed reads and parses the request body as a fix feed.
func (s *WebDaemon) readRequestFeed(w http.ResponseWriter, r *http.Request) ([]fix.Fix, bool) {
	if r.Body == nil {
		s.logger.Error("No request body", "method", r.Method, "url", r.URL)
		http.Error(w, "Please send a request body", http.StatusBadRequest)
		return nil, false
	}
	defer r.Body.Close()

	fixes, err := feed.Read(r.Body, requestFeedFormat(r))
	if err != nil {
		s.logger.Error("Failed to read feed", "error", err)
		http.Error(w, "Failed to read feed", http.StatusUnprocessableEntity)
		return nil, false
	}
	if len(fixes) == 0 {
		http.Error(w, "No usable fixes in feed", http.StatusUnprocessableEntity)
		return nil, false
	}
	return fixes, true
}

// handleDetect runs the whole pipeline over a posted feed and returns
// trips, stoppages, and aggregates. The run record is persisted so
// /last works across restarts, and the stoppages are broadcast to
// websocket clients.
func (s *WebDaemon) handleDetect(w http.ResponseWriter, r *http.Request) {
	fixes, ok := s.readRequestFeed(w, r)
	if !ok {
		return
	}
	strategies, err := requestStrategies(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	key := cache.ResultKey(s.Config.Detection, strategies.Names(), fixes)
	res, hit := cache.GetResult(key)
	if hit {
		s.logger.Info("Detection result cache hit", "fixes", len(fixes))
	} else {
		d := api.NewDetector(s.Config.Detection)
		d.Strategies = strategies
		res, err = d.Run(r.Context(), fixes)
		if err != nil {
			s.logger.Error("Detection run failed", "error", err)
			http.Error(w, "Detection run failed", http.StatusInternalServerError)
			return
		}
		cache.AddResult(key, res)
	}

	summary := reports.NewSummary(res.Stoppages)
	quality := reports.NewQuality(res.Fixes, res.Trips)
	s.storeRunRecord(res, summary, quality)

	resp := detectResponse{
		Doc:     export.NewDoc(res.Trips, res.Stoppages),
		Summary: summary,
		Quality: quality,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}

	s.feedDetected.Send(res.Stoppages)
}

func (s *WebDaemon) storeRunRecord(res *api.Result, summary *reports.Summary, quality *reports.Quality) {
	rec := &state.RunRecord{
		StartedAt: time.Now().UTC(),
		Took:      res.Took,
		Fixes:     len(res.Fixes),
		Trips:     len(res.Trips),
		Stoppages: len(res.Stoppages),
		Summary:   summary,
		Quality:   quality,
		Config:    s.Config.Detection,
	}

	cache.SetLastRun(s.Config.DataDir, rec)

	rs, err := state.NewRunState(s.Config.DataDir, false)
	if err != nil {
		s.logger.Error("Failed to open run state", "error", err)
		return
	}
	defer rs.Close()
	if err := rs.StoreLastRun(rec); err != nil {
		s.logger.Error("Failed to store run record", "error", err)
	}
}

// handleCompare runs every strategy over the posted feed and returns
// per-algorithm statistics on the raw, un-merged candidates.
func (s *WebDaemon) handleCompare(w http.ResponseWriter, r *http.Request) {
	fixes, ok := s.readRequestFeed(w, r)
	if !ok {
		return
	}

	d := api.NewDetector(s.Config.Detection)
	trips := d.SegmentTrips(d.Preprocess(fixes))
	comparison := reports.Compare(trips, s.Config.Detection)

	if err := json.NewEncoder(w).Encode(comparison); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}
