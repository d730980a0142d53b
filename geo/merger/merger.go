// Package merger reconciles the stoppage candidates that several
// strategies raised for the same physical stop.
package merger

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotblauer/stopd/common"
	"github.com/rotblauer/stopd/params"
	"github.com/rotblauer/stopd/types/stoppage"
)

// Merge collapses near-duplicate candidates from one trip in a single
// greedy pass. The first unclaimed candidate seeds a group; every later
// unclaimed candidate within the distance bound of the seed and within
// the interval bound of the seed's start joins it. Grouping is
// seed-anchored, not transitive, and a claimed candidate is never
// reconsidered, so input order matters. Singleton groups pass through
// unchanged; larger groups collapse to one record spanning the earliest
// start to the latest end, centered on the mean position, labeled with
// the distinct member algorithms in first-appearance order, and carrying
// the members' best confidence.
func Merge(tripID string, candidates []stoppage.Stoppage, cfg params.MergeConfig) []stoppage.Stoppage {
	merged := make([]stoppage.Stoppage, 0, len(candidates))
	claimed := make([]bool, len(candidates))

	for i := range candidates {
		if claimed[i] {
			continue
		}
		seed := candidates[i]
		claimed[i] = true
		group := []stoppage.Stoppage{seed}

		for j := i + 1; j < len(candidates); j++ {
			if claimed[j] {
				continue
			}
			other := candidates[j]
			d := common.DistanceMeters(seed.Latitude, seed.Longitude, other.Latitude, other.Longitude)
			dt := math.Abs(stoppage.Minutes(seed.Start, other.Start))
			if d <= cfg.DistanceMeters && dt <= cfg.Interval.Minutes() {
				group = append(group, other)
				claimed[j] = true
			}
		}

		if len(group) == 1 {
			merged = append(merged, seed)
			continue
		}
		merged = append(merged, collapse(tripID, len(merged), group))
	}
	return merged
}

func collapse(tripID string, n int, group []stoppage.Stoppage) stoppage.Stoppage {
	start, end := group[0].Start, group[0].End
	var sumLat, sumLng float64
	confidence := group[0].Confidence
	var labels []string
	seen := map[string]bool{}

	for _, s := range group {
		if s.Start.Before(start) {
			start = s.Start
		}
		if s.End.After(end) {
			end = s.End
		}
		sumLat += s.Latitude
		sumLng += s.Longitude
		confidence = max(confidence, s.Confidence)
		if !seen[s.Algorithm] {
			seen[s.Algorithm] = true
			labels = append(labels, s.Algorithm)
		}
	}

	return stoppage.Stoppage{
		ID:              fmt.Sprintf("merged_%s_%d", tripID, n),
		TripID:          tripID,
		AssetID:         group[0].AssetID,
		Algorithm:       strings.Join(labels, " + "),
		Category:        stoppage.CategoryMerged,
		Start:           start,
		End:             end,
		DurationMinutes: stoppage.Minutes(start, end),
		Latitude:        sumLat / float64(len(group)),
		Longitude:       sumLng / float64(len(group)),
		Confidence:      confidence,
	}
}
