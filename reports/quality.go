package reports

import (
	"github.com/montanaflynn/stats"
	"github.com/rotblauer/stopd/types/fix"
	"github.com/rotblauer/stopd/types/trip"
)

// Quality describes how trustworthy a feed looked after preprocessing.
type Quality struct {
	TotalFixes         int     `json:"totalFixes"`
	Trips              int     `json:"trips"`
	Assets             int     `json:"assets"`
	Outliers           int     `json:"outliers"`
	OutlierRate        float64 `json:"outlierRate"`
	TimeSpanHours      float64 `json:"timeSpanHours"`
	AvgSamplingSeconds float64 `json:"avgSamplingSeconds"`
}

// NewQuality measures an annotated fix slice. The time span runs from
// the earliest to the latest fix across all assets; the sampling rate
// means the positive inter-fix intervals.
func NewQuality(fixes []fix.Fix, trips []*trip.Trip) *Quality {
	q := &Quality{TotalFixes: len(fixes), Trips: len(trips)}
	if len(fixes) == 0 {
		return q
	}

	assets := map[string]bool{}
	var minMillis, maxMillis int64
	var intervals stats.Float64Data
	for i, f := range fixes {
		assets[f.AssetID] = true
		if f.Outlier {
			q.Outliers++
		}
		if i == 0 || f.EpochMillis < minMillis {
			minMillis = f.EpochMillis
		}
		if f.EpochMillis > maxMillis {
			maxMillis = f.EpochMillis
		}
		if f.ElapsedSeconds > 0 {
			intervals = append(intervals, f.ElapsedSeconds)
		}
	}

	q.Assets = len(assets)
	q.OutlierRate = float64(q.Outliers) / float64(q.TotalFixes)
	q.TimeSpanHours = float64(maxMillis-minMillis) / 1000 / 60 / 60
	if len(intervals) > 0 {
		q.AvgSamplingSeconds, _ = stats.Mean(intervals)
	}
	return q
}
