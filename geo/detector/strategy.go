// Package detector holds the four stoppage-detection strategies.
//
// Each strategy is a pure function over one trip's immutable fix list,
// returning candidate stoppages. Strategies never see other trips and
// never mutate shared state, so any subset may run concurrently.
package detector

import (
	"fmt"

	"github.com/rotblauer/stopd/params"
	"github.com/rotblauer/stopd/types/stoppage"
	"github.com/rotblauer/stopd/types/trip"
)

// Strategy identifies one detection algorithm.
type Strategy string

const (
	TimeGap    Strategy = "timegap"
	Speed      Strategy = "speed"
	Clustering Strategy = "clustering"
	Hybrid     Strategy = "hybrid"
)

// All lists the strategies in canonical run order. Candidate order is
// load-bearing for the merge reconciler, which is order-dependent.
var All = []Strategy{TimeGap, Speed, Clustering, Hybrid}

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case TimeGap, Speed, Clustering, Hybrid:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown strategy: %q", s)
}

// Set is an enabled-strategy set. The zero value is empty.
type Set map[Strategy]bool

func NewSet(strategies ...Strategy) Set {
	s := Set{}
	for _, st := range strategies {
		s[st] = true
	}
	return s
}

func (s Set) Has(st Strategy) bool { return s[st] }

// Names lists the enabled strategies in canonical order.
func (s Set) Names() []string {
	var out []string
	for _, st := range All {
		if s[st] {
			out = append(out, string(st))
		}
	}
	return out
}

func (s Set) IsEmpty() bool {
	for _, on := range s {
		if on {
			return false
		}
	}
	return true
}

// Detect runs one strategy over one trip.
func Detect(st Strategy, t *trip.Trip, cfg *params.DetectionConfig) []stoppage.Stoppage {
	switch st {
	case TimeGap:
		return DetectTimeGap(t, cfg.TimeGap)
	case Speed:
		return DetectSpeed(t, cfg.Speed)
	case Clustering:
		return DetectClustering(t, cfg.Cluster)
	case Hybrid:
		return DetectHybrid(t, cfg)
	}
	return nil
}
