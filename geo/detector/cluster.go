package detector

import (
	"fmt"
	"slices"

	"github.com/rotblauer/stopd/common"
	"github.com/rotblauer/stopd/params"
	"github.com/rotblauer/stopd/types/fix"
	"github.com/rotblauer/stopd/types/stoppage"
	"github.com/rotblauer/stopd/types/trip"
)

// spatialCluster accumulates fixes around a running-mean center.
type spatialCluster struct {
	centerLat, centerLng float64
	fixes                []fix.Fix
}

func (c *spatialCluster) add(f fix.Fix) {
	c.fixes = append(c.fixes, f)
	var sumLat, sumLng float64
	for i := range c.fixes {
		sumLat += c.fixes[i].Latitude
		sumLng += c.fixes[i].Longitude
	}
	c.centerLat = sumLat / float64(len(c.fixes))
	c.centerLng = sumLng / float64(len(c.fixes))
}

// DetectClustering groups a trip's fixes by greedy single-pass
// assignment: each fix joins the first existing cluster whose running
// centroid lies within the radius, else seeds a new one. Assignment is
// first-match, so results depend on fix order; the centroid drifts as
// members join, and a fix is never reassigned. Clusters dense enough in
// points and long enough in dwell time become stoppages.
func DetectClustering(t *trip.Trip, cfg params.ClusterConfig) []stoppage.Stoppage {
	var clusters []*spatialCluster

	for i := range t.Fixes {
		f := t.Fixes[i]
		assigned := false
		for _, c := range clusters {
			d := common.DistanceMeters(f.Latitude, f.Longitude, c.centerLat, c.centerLng)
			if d <= cfg.ClusterRadiusMeters {
				c.add(f)
				assigned = true
				break
			}
		}
		if !assigned {
			clusters = append(clusters, &spatialCluster{
				centerLat: f.Latitude,
				centerLng: f.Longitude,
				fixes:     []fix.Fix{f},
			})
		}
	}

	var out []stoppage.Stoppage
	for idx, c := range clusters {
		if len(c.fixes) < cfg.MinPointsInCluster {
			continue
		}
		slices.SortStableFunc(c.fixes, func(a, b fix.Fix) int {
			switch {
			case a.EpochMillis < b.EpochMillis:
				return -1
			case a.EpochMillis > b.EpochMillis:
				return 1
			}
			return 0
		})
		first, last := c.fixes[0], c.fixes[len(c.fixes)-1]
		duration := stoppage.Minutes(first.Time(), last.Time())
		if duration < cfg.MinDurationMinutes {
			continue
		}
		out = append(out, stoppage.Stoppage{
			ID:              fmt.Sprintf("cluster_%s_%d", t.ID, idx),
			TripID:          t.ID,
			AssetID:         t.AssetID,
			Algorithm:       params.AlgorithmClustering,
			Category:        stoppage.CategoryCluster,
			Start:           first.Time(),
			End:             last.Time(),
			DurationMinutes: duration,
			Latitude:        c.centerLat,
			Longitude:       c.centerLng,
			Confidence:      min(1, float64(len(c.fixes))/10),
		})
	}
	return out
}
