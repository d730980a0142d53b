// Package segmenter splits each asset's fix record into trips wherever
// the time gap between consecutive fixes exceeds a threshold.
//
// Segmentation is a full rebuild: re-running with a new threshold
// replaces the entire trip collection, there is no incremental update.
package segmenter

import (
	"slices"
	"time"

	"github.com/rotblauer/stopd/types/fix"
	"github.com/rotblauer/stopd/types/trip"
)

// State walks one asset's chronological fixes accumulating a current
// trip buffer, flushing it whenever a discontinuity appears.
type State struct {
	Interval time.Duration
	AssetID  string

	buffer   []fix.Fix
	timeLast time.Time
	n        int // trips flushed so far, 1-based numbering
	trips    []*trip.Trip
}

func NewState(assetID string, interval time.Duration) *State {
	return &State{
		Interval: interval,
		AssetID:  assetID,
		buffer:   make([]fix.Fix, 0),
	}
}

func (s *State) Add(f fix.Fix) {
	if s.IsDiscontinuous(&f) {
		s.Flush()
	}
	s.buffer = append(s.buffer, f)
	s.timeLast = f.Time()
}

func (s *State) IsDiscontinuous(f *fix.Fix) bool {
	if s.timeLast.IsZero() || len(s.buffer) == 0 {
		return false
	}
	return f.Time().Sub(s.timeLast) > s.Interval
}

// Flush closes the current buffer. Runs of fewer than 2 fixes are
// discarded, but still consume a trip number; numbering follows
// encounter order of runs, discarded or not.
func (s *State) Flush() {
	s.n++
	if t := trip.New(s.AssetID, s.n, slices.Clone(s.buffer)); t != nil {
		s.trips = append(s.trips, t)
	}
	s.buffer = s.buffer[:0]
}

// Close flushes the final buffer and returns the asset's trips.
func (s *State) Close() []*trip.Trip {
	if len(s.buffer) > 0 {
		s.Flush()
	}
	out := s.trips
	s.trips = nil
	return out
}

// Segment groups fixes by asset, sorts each group chronologically, and
// splits each into trips on gaps exceeding interval. Assets appear in
// the output ordered by id, trips in encounter order within an asset.
func Segment(fixes []fix.Fix, interval time.Duration) []*trip.Trip {
	byAsset := make(map[string][]fix.Fix)
	assetIDs := []string{}
	for _, f := range fixes {
		if _, ok := byAsset[f.AssetID]; !ok {
			assetIDs = append(assetIDs, f.AssetID)
		}
		byAsset[f.AssetID] = append(byAsset[f.AssetID], f)
	}
	slices.Sort(assetIDs)

	trips := []*trip.Trip{}
	for _, id := range assetIDs {
		group := byAsset[id]
		slices.SortStableFunc(group, fix.SortFunc)
		st := NewState(id, interval)
		for _, f := range group {
			st.Add(f)
		}
		trips = append(trips, st.Close()...)
	}
	return trips
}
