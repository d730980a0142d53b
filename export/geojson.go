package export

import (
	"encoding/json"
	"io"

	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/stopd/types/stoppage"
	"github.com/rotblauer/stopd/types/trip"
)

// WriteGeoJSON writes one FeatureCollection holding trip LineStrings
// followed by stoppage Points.
func WriteGeoJSON(w io.Writer, trips []*trip.Trip, stoppages []stoppage.Stoppage) error {
	fc := geojson.NewFeatureCollection()
	for _, t := range trips {
		fc.Append(t.Feature())
	}
	for i := range stoppages {
		fc.Append(stoppages[i].Feature())
	}
	return json.NewEncoder(w).Encode(fc)
}
