package api

import (
	"context"
	"sync"
	"time"

	"github.com/rotblauer/stopd/geo/detector"
	"github.com/rotblauer/stopd/geo/merger"
	"github.com/rotblauer/stopd/types/fix"
	"github.com/rotblauer/stopd/types/stoppage"
	"github.com/rotblauer/stopd/types/trip"
)

// Result is one complete detection run.
type Result struct {
	Fixes     []fix.Fix           `json:"-"`
	Trips     []*trip.Trip        `json:"trips"`
	Stoppages []stoppage.Stoppage `json:"stoppages"`
	Took      time.Duration       `json:"took"`
}

// DetectTrip runs the enabled strategies over one trip and reconciles
// their candidates. Strategies run in canonical order and their outputs
// are pooled in that order before the merge pass, which is
// order-dependent.
func (d *Detector) DetectTrip(t *trip.Trip) []stoppage.Stoppage {
	var pool []stoppage.Stoppage
	for _, st := range d.enabled() {
		pool = append(pool, detector.Detect(st, t, d.Config)...)
	}
	return merger.Merge(t.ID, pool, d.Config.Merge)
}

// DetectAll fans trips out over a bounded worker pool. Workers process
// trips independently; the final slice concatenates per-trip results in
// trip order, so identical inputs yield identical output regardless of
// scheduling.
func (d *Detector) DetectAll(ctx context.Context, trips []*trip.Trip) []stoppage.Stoppage {
	workers := d.Config.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(trips) {
		workers = len(trips)
	}

	perTrip := make([][]stoppage.Stoppage, len(trips))
	work := make(chan int)
	wg := sync.WaitGroup{}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				perTrip[i] = d.DetectTrip(trips[i])
			}
		}()
	}

feed:
	for i := range trips {
		select {
		case work <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(work)
	wg.Wait()

	var out []stoppage.Stoppage
	for _, ss := range perTrip {
		out = append(out, ss...)
	}
	return out
}

// Run is the whole pipeline: preprocess, segment, detect, reconcile.
func (d *Detector) Run(ctx context.Context, raw []fix.Fix) (*Result, error) {
	started := time.Now()

	fixes := d.Preprocess(raw)
	trips := d.SegmentTrips(fixes)
	stoppages := d.DetectAll(ctx, trips)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		Fixes:     fixes,
		Trips:     trips,
		Stoppages: stoppages,
		Took:      time.Since(started),
	}
	d.logger.Info("Detection run complete",
		"fixes", len(fixes), "trips", len(trips),
		"stoppages", len(stoppages), "took", res.Took.Round(time.Millisecond))
	return res, nil
}
