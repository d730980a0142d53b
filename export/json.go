package export

import (
	"encoding/json"
	"io"

	"github.com/rotblauer/stopd/types/stoppage"
	"github.com/rotblauer/stopd/types/trip"
)

// Doc is the JSON export document: trips plus stoppages.
type Doc struct {
	Trips     []TripRecord     `json:"trips"`
	Stoppages []StoppageRecord `json:"stoppages"`
}

func NewDoc(trips []*trip.Trip, stoppages []stoppage.Stoppage) *Doc {
	doc := &Doc{
		Trips:     make([]TripRecord, 0, len(trips)),
		Stoppages: make([]StoppageRecord, 0, len(stoppages)),
	}
	for _, t := range trips {
		doc.Trips = append(doc.Trips, NewTripRecord(t))
	}
	for _, s := range stoppages {
		doc.Stoppages = append(doc.Stoppages, NewStoppageRecord(s))
	}
	return doc
}

// WriteJSON writes the indented export document.
func WriteJSON(w io.Writer, trips []*trip.Trip, stoppages []stoppage.Stoppage) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDoc(trips, stoppages))
}
