package api

import (
	"github.com/rotblauer/stopd/geo/segmenter"
	"github.com/rotblauer/stopd/types/fix"
	"github.com/rotblauer/stopd/types/trip"
)

// SegmentTrips splits preprocessed fixes into per-asset trips wherever
// consecutive reports sit further apart than the segmentation interval.
func (d *Detector) SegmentTrips(fixes []fix.Fix) []*trip.Trip {
	trips := segmenter.Segment(fixes, d.Config.SegmentationInterval)
	d.logger.Info("Segmented trips", "fixes", len(fixes), "trips", len(trips))
	return trips
}
