package detector

import (
	"fmt"

	"github.com/rotblauer/stopd/params"
	"github.com/rotblauer/stopd/types/fix"
	"github.com/rotblauer/stopd/types/stoppage"
	"github.com/rotblauer/stopd/types/trip"
)

// DetectSpeed finds runs of consecutive fixes whose reported speed sits
// at or under the creep threshold. A run only becomes a stoppage once a
// faster fix closes it: the transition fix supplies the end time, and
// the run duration is measured from the first slow fix to that
// transition. A run still open at the end of the trip is never emitted;
// the vehicle may simply have parked past the end of the record.
func DetectSpeed(t *trip.Trip, cfg params.SpeedConfig) []stoppage.Stoppage {
	var out []stoppage.Stoppage
	var runStart *fix.Fix
	var run []fix.Fix

	for i := range t.Fixes {
		f := t.Fixes[i]
		if f.SpeedKmh <= cfg.MaxSpeedKmh {
			if runStart == nil {
				runStart = &t.Fixes[i]
				run = run[:0]
			}
			run = append(run, f)
			continue
		}

		if runStart != nil && len(run) > 1 {
			duration := stoppage.Minutes(runStart.Time(), f.Time())
			if duration >= cfg.MinDurationMinutes {
				center := stoppage.Centroid(fix.Points(run))
				out = append(out, stoppage.Stoppage{
					ID:              fmt.Sprintf("speed_%s_%d", t.ID, len(out)),
					TripID:          t.ID,
					AssetID:         t.AssetID,
					Algorithm:       params.AlgorithmSpeed,
					Category:        stoppage.CategoryLowSpeed,
					Start:           runStart.Time(),
					End:             f.Time(),
					DurationMinutes: duration,
					Latitude:        center.Lat(),
					Longitude:       center.Lon(),
					Confidence:      min(1, duration/10),
				})
			}
		}
		runStart = nil
		run = run[:0]
	}
	return out
}
