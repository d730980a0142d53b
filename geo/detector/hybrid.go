package detector

import (
	"fmt"

	"github.com/rotblauer/stopd/common"
	"github.com/rotblauer/stopd/params"
	"github.com/rotblauer/stopd/types/stoppage"
	"github.com/rotblauer/stopd/types/trip"
)

// Radii for the hybrid scoring neighborhoods. The speed component reads
// fixes near the candidate during its window; the location component
// counts revisits over the whole trip.
const (
	hybridSpeedRadiusMeters    = 200.0
	hybridLocationRadiusMeters = 100.0
)

// DetectHybrid re-runs the other three strategies on the trip, pools
// their candidates without deduplication, and re-scores each one as a
// weighted sum of speed, time, and location evidence. Candidates that
// clear the confidence threshold are re-labeled; a location detected by
// several base strategies appears several times, each scored on its own
// candidate window.
func DetectHybrid(t *trip.Trip, cfg *params.DetectionConfig) []stoppage.Stoppage {
	pool := DetectTimeGap(t, cfg.TimeGap)
	pool = append(pool, DetectSpeed(t, cfg.Speed)...)
	pool = append(pool, DetectClustering(t, cfg.Cluster)...)

	hp := cfg.Hybrid
	var out []stoppage.Stoppage
	for _, cand := range pool {
		score := 0.0

		avgSpeed := averageSpeedNear(t, cand.Latitude, cand.Longitude, cand)
		score += max(0, 1-avgSpeed/10) * hp.SpeedWeight

		score += min(1, cand.DurationMinutes/20) * hp.TimeWeight

		score += locationSignificance(t, cand.Latitude, cand.Longitude) * hp.LocationWeight

		if score < hp.ConfidenceThreshold {
			continue
		}
		s := cand
		s.ID = fmt.Sprintf("hybrid_%s_%d", t.ID, len(out))
		s.Algorithm = params.AlgorithmHybrid
		s.Category = stoppage.CategoryMultiCriteria
		s.Confidence = score
		out = append(out, s)
	}
	return out
}

// averageSpeedNear means the reported speeds of trip fixes within the
// speed radius of (lat, lng) and inside the candidate's time window.
// No qualifying fixes reads as zero speed, full marks for stillness.
func averageSpeedNear(t *trip.Trip, lat, lng float64, cand stoppage.Stoppage) float64 {
	var sum float64
	var n int
	for i := range t.Fixes {
		f := &t.Fixes[i]
		if common.DistanceMeters(lat, lng, f.Latitude, f.Longitude) > hybridSpeedRadiusMeters {
			continue
		}
		ft := f.Time()
		if ft.Before(cand.Start) || ft.After(cand.End) {
			continue
		}
		sum += f.SpeedKmh
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// locationSignificance scores how often the trip revisits (lat, lng):
// the count of fixes within the location radius, saturating at five.
func locationSignificance(t *trip.Trip, lat, lng float64) float64 {
	n := 0
	for i := range t.Fixes {
		f := &t.Fixes[i]
		if common.DistanceMeters(lat, lng, f.Latitude, f.Longitude) <= hybridLocationRadiusMeters {
			n++
		}
	}
	return min(1, float64(n)/5)
}
