package reports

import (
	"github.com/rotblauer/stopd/geo/detector"
	"github.com/rotblauer/stopd/params"
	"github.com/rotblauer/stopd/types/stoppage"
	"github.com/rotblauer/stopd/types/trip"
)

// Comparison holds each strategy's raw output over the same trips,
// before merge reconciliation, so the algorithms can be judged against
// each other on equal footing.
type Comparison struct {
	Trips      int              `json:"trips"`
	Algorithms []AlgorithmStats `json:"algorithms"`
}

// Compare runs every strategy over every trip regardless of which
// strategies the caller has enabled for detection.
func Compare(trips []*trip.Trip, cfg *params.DetectionConfig) *Comparison {
	pooled := map[detector.Strategy][]stoppage.Stoppage{}
	for _, t := range trips {
		for _, st := range detector.All {
			pooled[st] = append(pooled[st], detector.Detect(st, t, cfg)...)
		}
	}

	c := &Comparison{Trips: len(trips)}
	labels := map[detector.Strategy]string{
		detector.TimeGap:    params.AlgorithmTimeGap,
		detector.Speed:      params.AlgorithmSpeed,
		detector.Clustering: params.AlgorithmClustering,
		detector.Hybrid:     params.AlgorithmHybrid,
	}
	for _, st := range detector.All {
		c.Algorithms = append(c.Algorithms, NewAlgorithmStats(labels[st], pooled[st]))
	}
	return c
}
