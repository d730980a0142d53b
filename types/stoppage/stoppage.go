// Package stoppage defines the detected stationary interval the whole
// pipeline exists to produce.
package stoppage

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/rotblauer/stopd/common"
)

// Categories label the kind of evidence behind a stoppage.
const (
	CategoryTimeGap       = "Time Gap"
	CategoryLowSpeed      = "Low Speed"
	CategoryCluster       = "Cluster"
	CategoryMultiCriteria = "Multi-Criteria"
	CategoryMerged        = "Merged"
)

// Stoppage is a detected stationary interval.
// Stoppages are produced fresh on every run; no identity persists
// across runs. IDs are assigned by the orchestrator from the trip id
// and a local sequence number, never from a global counter.
type Stoppage struct {
	ID        string `json:"id"`
	TripID    string `json:"tripId,omitempty"`
	AssetID   string `json:"assetId,omitempty"`
	Algorithm string `json:"algorithm"`
	Category  string `json:"type"`

	Start time.Time `json:"startTime"`
	End   time.Time `json:"endTime"`

	// DurationMinutes = (End-Start)/60000ms. Kept denormalized because
	// every consumer (scoring, merge, reports, export) reads it.
	DurationMinutes float64 `json:"duration"`

	// Latitude/Longitude is the strategy-specific representative
	// location (pair midpoint, run centroid, or cluster centroid).
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Confidence is a heuristic score in [0,1], not a calibrated
	// probability.
	Confidence float64 `json:"confidence"`
}

func (s *Stoppage) Point() orb.Point {
	return orb.Point{s.Longitude, s.Latitude}
}

// Minutes returns the span between two instants in fractional minutes.
func Minutes(from, to time.Time) float64 {
	return float64(to.Sub(from).Milliseconds()) / 1000 / 60
}

// Centroid returns the arithmetic mean of the given points.
func Centroid(pts []orb.Point) orb.Point {
	c, _ := planar.CentroidArea(orb.MultiPoint(pts))
	return c
}

// Feature returns the stoppage as a GeoJSON Point feature,
// for rendering and export collaborators.
func (s *Stoppage) Feature() *geojson.Feature {
	f := geojson.NewFeature(s.Point())
	f.Properties["ID"] = s.ID
	f.Properties["TripID"] = s.TripID
	f.Properties["AssetID"] = s.AssetID
	f.Properties["Algorithm"] = s.Algorithm
	f.Properties["Category"] = s.Category
	f.Properties["Time_Start_Unix"] = s.Start.Unix()
	f.Properties["Time_Start_RFC3339"] = s.Start.Format(time.RFC3339)
	f.Properties["Time_End_Unix"] = s.End.Unix()
	f.Properties["Time_End_RFC3339"] = s.End.Format(time.RFC3339)
	f.Properties["Duration_Minutes"] = common.DecimalToFixed(s.DurationMinutes, 2)
	f.Properties["Confidence"] = common.DecimalToFixed(s.Confidence, 3)
	return f
}
