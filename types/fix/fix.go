// Package fix defines the position report every other package consumes.
package fix

import (
	"fmt"
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/rotblauer/stopd/common"
)

// UnknownAssetID stands in for feeds that omit the asset column.
const UnknownAssetID = "unknown"

// Fix is one observed position report for an asset.
// It's as much a point in time as it is a point in space.
// The derived fields are zero until the preprocessor annotates them,
// and stay zero on the first fix of an asset's sequence.
type Fix struct {
	AssetID     string  `json:"assetId"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	SpeedKmh    float64 `json:"speed"`
	EpochMillis int64   `json:"eventGeneratedTime"`

	// Derived by geo/preprocess.
	ElapsedSeconds  float64 `json:"elapsedSeconds,omitempty"`
	DistanceMeters  float64 `json:"distanceMeters,omitempty"`
	ImpliedSpeedKmh float64 `json:"impliedSpeedKmh,omitempty"`

	// Outlier marks a fix whose implied speed is unrealistic.
	// Outliers stay in the sequence; renderers skip them, algorithms don't.
	Outlier bool `json:"outlier,omitempty"`
}

// Time returns the report time at millisecond granularity, UTC.
func (f *Fix) Time() time.Time {
	return time.UnixMilli(f.EpochMillis).UTC()
}

// Point returns the position as an orb (lon, lat) point.
func (f *Fix) Point() orb.Point {
	return orb.Point{f.Longitude, f.Latitude}
}

// Validate checks the fix for basic validity.
// It returns the first error it encounters.
func (f *Fix) Validate() error {
	if math.IsNaN(f.Latitude) || math.IsNaN(f.Longitude) {
		return fmt.Errorf("missing coordinate")
	}
	if f.Latitude < -90 || f.Latitude > 90 {
		return fmt.Errorf("invalid coordinate: lat=%.14f", f.Latitude)
	}
	if f.Longitude < -180 || f.Longitude > 180 {
		return fmt.Errorf("invalid coordinate: lng=%.14f", f.Longitude)
	}
	if f.EpochMillis <= 0 {
		return fmt.Errorf("missing or zero timestamp")
	}
	return nil
}

func (f *Fix) IsValid() bool {
	return f.Validate() == nil
}

// Sanitize normalizes a fix: empty asset ids become UnknownAssetID,
// and negative reported speeds (some trackers use -1 for "no reading")
// become 0.
func Sanitize(f Fix) Fix {
	if f.AssetID == "" {
		f.AssetID = UnknownAssetID
	}
	if f.SpeedKmh < 0 || math.IsNaN(f.SpeedKmh) {
		f.SpeedKmh = 0
	}
	return f
}

// SortFunc implements slices.SortFunc ordering for Fix slices:
// by asset, then chronologically at millisecond granularity.
// > cmp(a, b) should return a negative number when a < b,
// > a positive number when a > b, and zero when a == b
func SortFunc(a, b Fix) int {
	if a.AssetID < b.AssetID {
		return -1
	}
	if a.AssetID > b.AssetID {
		return 1
	}
	if a.EpochMillis < b.EpochMillis {
		return -1
	}
	if a.EpochMillis > b.EpochMillis {
		return 1
	}
	return 0
}

// Points projects a fix slice to orb (lon, lat) points.
func Points(fixes []Fix) []orb.Point {
	pts := make([]orb.Point, len(fixes))
	for i := range fixes {
		pts[i] = fixes[i].Point()
	}
	return pts
}

func (f *Fix) StringPretty() string {
	return fmt.Sprintf("%s %s [%v,%v] %.1fkm/h",
		f.AssetID,
		f.Time().Format("2006-01-02 15:04:05"),
		common.DecimalToFixed(f.Latitude, 5),
		common.DecimalToFixed(f.Longitude, 5),
		f.SpeedKmh,
	)
}
