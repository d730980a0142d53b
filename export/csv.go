package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/rotblauer/stopd/types/stoppage"
)

var csvHeader = []string{
	"id", "tripId", "equipmentId", "algorithm",
	"startTime", "endTime", "duration",
	"latitude", "longitude", "confidence", "type",
}

// WriteCSV writes stoppages as CSV with a fixed header row.
func WriteCSV(w io.Writer, stoppages []stoppage.Stoppage) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range stoppages {
		r := NewStoppageRecord(s)
		row := []string{
			r.ID, r.TripID, r.EquipmentID, r.Algorithm,
			r.StartTime, r.EndTime,
			fmt.Sprintf("%v", r.Duration),
			fmt.Sprintf("%v", r.Latitude),
			fmt.Sprintf("%v", r.Longitude),
			fmt.Sprintf("%v", r.Confidence),
			r.Type,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
