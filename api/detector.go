// Package api is the orchestration surface: feed in, stoppages out.
// It strings the geo packages together and owns run-level concerns
// (parallelism, caching, run records) so callers — the CLI and the web
// daemon — stay thin.
package api

import (
	"log/slog"

	"github.com/rotblauer/stopd/geo/detector"
	"github.com/rotblauer/stopd/params"
)

// Detector runs the detection pipeline under one configuration.
// A Detector is cheap; make one per run rather than mutating Config
// on a shared instance mid-flight.
type Detector struct {
	Config *params.DetectionConfig

	// Strategies limits which algorithms run. Empty means all.
	Strategies detector.Set

	logger *slog.Logger
}

func NewDetector(cfg *params.DetectionConfig) *Detector {
	if cfg == nil {
		cfg = params.DefaultDetectionConfig()
	}
	return &Detector{
		Config:     cfg,
		Strategies: detector.NewSet(detector.All...),
		logger:     slog.With("d", "detect"),
	}
}

// enabled returns the strategies to run, in canonical order.
func (d *Detector) enabled() []detector.Strategy {
	var out []detector.Strategy
	for _, st := range detector.All {
		if d.Strategies.IsEmpty() || d.Strategies.Has(st) {
			out = append(out, st)
		}
	}
	return out
}
