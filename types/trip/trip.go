// Package trip coerces an asset's fix record into trips: maximal runs
// of fixes with no internal time gap exceeding the segmentation
// threshold. Trips are immutable once built; re-segmentation replaces
// the whole collection.
package trip

import (
	"fmt"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/stopd/common"
	"github.com/rotblauer/stopd/types/fix"
)

type Trip struct {
	// ID is AssetID and the 1-based trip number, e.g. "EQPT-4_Trip1".
	ID      string    `json:"id"`
	AssetID string    `json:"assetId"`
	N       int       `json:"tripNumber"`
	Fixes   []fix.Fix `json:"-"`

	Start time.Time `json:"startTime"`
	End   time.Time `json:"endTime"`

	// DistanceMeters is the sum of consecutive great-circle distances.
	DistanceMeters float64 `json:"totalDistance"`

	// AvgReportedSpeedKmh is the mean of the non-negative reported speeds.
	AvgReportedSpeedKmh float64 `json:"avgSpeed"`
}

// New builds a Trip from an ordered fix run.
// Runs of fewer than 2 fixes don't make a trip; New returns nil.
func New(assetID string, n int, fixes []fix.Fix) *Trip {
	if len(fixes) < 2 {
		return nil
	}

	t := &Trip{
		ID:      fmt.Sprintf("%s_Trip%d", assetID, n),
		AssetID: assetID,
		N:       n,
		Fixes:   fixes,
		Start:   fixes[0].Time(),
		End:     fixes[len(fixes)-1].Time(),
	}

	speedSum, speedN := 0.0, 0
	for i := range fixes {
		if i > 0 {
			prev, curr := &fixes[i-1], &fixes[i]
			t.DistanceMeters += common.DistanceMeters(
				prev.Latitude, prev.Longitude, curr.Latitude, curr.Longitude)
		}
		if fixes[i].SpeedKmh >= 0 {
			speedSum += fixes[i].SpeedKmh
			speedN++
		}
	}
	if speedN > 0 {
		t.AvgReportedSpeedKmh = speedSum / float64(speedN)
	}
	return t
}

func (t *Trip) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// Feature returns the trip as a GeoJSON LineString feature with
// aggregate properties, for rendering and export collaborators.
func (t *Trip) Feature() *geojson.Feature {
	ls := make(orb.LineString, 0, len(t.Fixes))
	reported := make([]float64, 0, len(t.Fixes))
	implied := make([]float64, 0, len(t.Fixes))
	for i := range t.Fixes {
		ls = append(ls, t.Fixes[i].Point())
		reported = append(reported, t.Fixes[i].SpeedKmh)
		if i > 0 {
			implied = append(implied, t.Fixes[i].ImpliedSpeedKmh)
		}
	}

	f := geojson.NewFeature(ls)
	f.Properties["ID"] = t.ID
	f.Properties["AssetID"] = t.AssetID
	f.Properties["TripNumber"] = t.N
	f.Properties["RawPointCount"] = len(t.Fixes)
	f.Properties["Time_Start_Unix"] = t.Start.Unix()
	f.Properties["Time_Start_RFC3339"] = t.Start.Format(time.RFC3339)
	f.Properties["Time_End_Unix"] = t.End.Unix()
	f.Properties["Time_End_RFC3339"] = t.End.Format(time.RFC3339)
	f.Properties["Duration"] = t.Duration().Round(time.Second).Seconds()
	f.Properties["Distance_Traversed"] = common.DecimalToFixed(t.DistanceMeters, 0)

	statsMustFloat := func(fn func() (float64, error), def float64) float64 {
		out, err := fn()
		if err != nil {
			return def
		}
		return out
	}
	installStats := func(key string, data []float64, precision int) {
		statsData := stats.Float64Data(data)
		f.Properties[key+"_Mean"] = common.DecimalToFixed(statsMustFloat(statsData.Mean, 0), precision)
		f.Properties[key+"_Median"] = common.DecimalToFixed(statsMustFloat(statsData.Median, 0), precision)
		f.Properties[key+"_Min"] = common.DecimalToFixed(statsMustFloat(statsData.Min, 0), precision)
		f.Properties[key+"_Max"] = common.DecimalToFixed(statsMustFloat(statsData.Max, 0), precision)
	}
	installStats("Speed_Reported", reported, 1)
	if len(implied) > 0 {
		installStats("Speed_Implied", implied, 1)
	}

	return f
}
