package state

import (
	"time"

	"github.com/rotblauer/stopd/params"
	"github.com/rotblauer/stopd/reports"
)

// RunRecord summarizes one completed detection run for later recall.
// It deliberately carries aggregates, not raw fixes; feeds can be huge
// and the record is read back on every /last request.
type RunRecord struct {
	StartedAt time.Time               `json:"startedAt"`
	Took      time.Duration           `json:"took"`
	Fixes     int                     `json:"fixes"`
	Trips     int                     `json:"trips"`
	Stoppages int                     `json:"stoppages"`
	Summary   *reports.Summary        `json:"summary"`
	Quality   *reports.Quality        `json:"quality,omitempty"`
	Config    *params.DetectionConfig `json:"config"`
}

func (s *RunState) StoreLastRun(r *RunRecord) error {
	return s.StoreKVMarshalJSON(KeyLastRun, r)
}

func (s *RunState) ReadLastRun() (*RunRecord, error) {
	r := &RunRecord{}
	if err := s.ReadKVUnmarshalJSON(KeyLastRun, r); err != nil {
		return nil, err
	}
	return r, nil
}
