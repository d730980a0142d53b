// Package reports aggregates detection output for people: run
// summaries, duration histograms, feed-quality metrics, and
// per-algorithm comparisons.
package reports

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/rotblauer/stopd/types/stoppage"
)

// Histogram bin edges in minutes, last bin unbounded.
var (
	DurationBins      = []float64{0, 5, 10, 20, 30, 60, 120, math.Inf(1)}
	DurationBinLabels = []string{"0-5m", "5-10m", "10-20m", "20-30m", "30-60m", "1-2h", "2h+"}
)

// Summary rolls one detection run up into headline numbers.
type Summary struct {
	TotalStoppages     int            `json:"totalStoppages"`
	TotalStopMinutes   float64        `json:"totalStopMinutes"`
	AvgStopMinutes     float64        `json:"avgStopMinutes"`
	LongestStopMinutes float64        `json:"longestStopMinutes"`
	ByAlgorithm        map[string]int `json:"byAlgorithm"`
	ByCategory         map[string]int `json:"byCategory"`
	DurationHistogram  []int          `json:"durationHistogram"`
}

func NewSummary(stoppages []stoppage.Stoppage) *Summary {
	s := &Summary{
		TotalStoppages:    len(stoppages),
		ByAlgorithm:       map[string]int{},
		ByCategory:        map[string]int{},
		DurationHistogram: make([]int, len(DurationBins)-1),
	}
	for _, st := range stoppages {
		s.TotalStopMinutes += st.DurationMinutes
		s.LongestStopMinutes = max(s.LongestStopMinutes, st.DurationMinutes)
		s.ByAlgorithm[st.Algorithm]++
		s.ByCategory[st.Category]++
		for i := 0; i < len(DurationBins)-1; i++ {
			if st.DurationMinutes >= DurationBins[i] && st.DurationMinutes < DurationBins[i+1] {
				s.DurationHistogram[i]++
				break
			}
		}
	}
	if s.TotalStoppages > 0 {
		s.AvgStopMinutes = s.TotalStopMinutes / float64(s.TotalStoppages)
	}
	return s
}

// AlgorithmStats describes one strategy's raw (pre-merge) output.
type AlgorithmStats struct {
	Algorithm      string  `json:"algorithm"`
	Count          int     `json:"count"`
	MeanMinutes    float64 `json:"meanMinutes"`
	MedianMinutes  float64 `json:"medianMinutes"`
	MaxMinutes     float64 `json:"maxMinutes"`
	MeanConfidence float64 `json:"meanConfidence"`
	TotalStopHours float64 `json:"totalStopHours"`
}

func NewAlgorithmStats(algorithm string, stoppages []stoppage.Stoppage) AlgorithmStats {
	as := AlgorithmStats{Algorithm: algorithm, Count: len(stoppages)}
	if len(stoppages) == 0 {
		return as
	}
	durations := make(stats.Float64Data, len(stoppages))
	confidences := make(stats.Float64Data, len(stoppages))
	for i, s := range stoppages {
		durations[i] = s.DurationMinutes
		confidences[i] = s.Confidence
	}
	as.MeanMinutes, _ = stats.Mean(durations)
	as.MedianMinutes, _ = stats.Median(durations)
	as.MaxMinutes, _ = stats.Max(durations)
	as.MeanConfidence, _ = stats.Mean(confidences)
	total, _ := stats.Sum(durations)
	as.TotalStopHours = total / 60
	return as
}

// FormatDuration renders minutes the way the report surfaces show them.
func FormatDuration(minutes float64) string {
	if minutes < 1 {
		return fmt.Sprintf("%.0fs", math.Round(minutes*60))
	}
	if minutes < 60 {
		return fmt.Sprintf("%.0fm", math.Round(minutes))
	}
	hours := math.Floor(minutes / 60)
	mins := math.Round(math.Mod(minutes, 60))
	return fmt.Sprintf("%.0fh %.0fm", hours, mins)
}
