package detector

import (
	"fmt"

	"github.com/rotblauer/stopd/common"
	"github.com/rotblauer/stopd/params"
	"github.com/rotblauer/stopd/types/stoppage"
	"github.com/rotblauer/stopd/types/trip"
)

// DetectTimeGap flags consecutive fix pairs where the report interval
// blew past the configured gap while the asset barely moved. The vehicle
// was somewhere in between the whole time; the stoppage is pinned to the
// pair midpoint.
func DetectTimeGap(t *trip.Trip, cfg params.TimeGapConfig) []stoppage.Stoppage {
	var out []stoppage.Stoppage
	for i := 1; i < len(t.Fixes); i++ {
		prev, cur := t.Fixes[i-1], t.Fixes[i]

		gapMinutes := stoppage.Minutes(prev.Time(), cur.Time())
		dist := common.DistanceMeters(prev.Latitude, prev.Longitude, cur.Latitude, cur.Longitude)

		if gapMinutes < cfg.MinGapMinutes || dist > cfg.MaxDistanceMeters {
			continue
		}
		out = append(out, stoppage.Stoppage{
			ID:              fmt.Sprintf("timegap_%s_%d", t.ID, i),
			TripID:          t.ID,
			AssetID:         t.AssetID,
			Algorithm:       params.AlgorithmTimeGap,
			Category:        stoppage.CategoryTimeGap,
			Start:           prev.Time(),
			End:             cur.Time(),
			DurationMinutes: gapMinutes,
			Latitude:        (prev.Latitude + cur.Latitude) / 2,
			Longitude:       (prev.Longitude + cur.Longitude) / 2,
			Confidence:      min(1, gapMinutes/10),
		})
	}
	return out
}
