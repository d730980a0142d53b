// Package export writes detection results in the formats downstream
// tools eat: CSV, JSON, and GeoJSON, to plain or gzipped files, with an
// optional S3 push.
package export

import (
	"io"
	"strings"
	"time"

	"github.com/rotblauer/stopd/types/stoppage"
	"github.com/rotblauer/stopd/types/trip"
	"github.com/rotblauer/stopd/zfile"
)

// StoppageRecord is the flat export row for one stoppage. Times are
// ISO-8601 UTC.
type StoppageRecord struct {
	ID          string  `json:"id"`
	TripID      string  `json:"tripId"`
	EquipmentID string  `json:"equipmentId"`
	Algorithm   string  `json:"algorithm"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Duration    float64 `json:"duration"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Confidence  float64 `json:"confidence"`
	Type        string  `json:"type"`
}

// TripRecord is the flat export row for one trip.
type TripRecord struct {
	ID            string  `json:"id"`
	EquipmentID   string  `json:"equipmentId"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	TotalDistance float64 `json:"totalDistance"`
	AvgSpeed      float64 `json:"avgSpeed"`
}

func iso(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func NewStoppageRecord(s stoppage.Stoppage) StoppageRecord {
	return StoppageRecord{
		ID:          s.ID,
		TripID:      s.TripID,
		EquipmentID: s.AssetID,
		Algorithm:   s.Algorithm,
		StartTime:   iso(s.Start),
		EndTime:     iso(s.End),
		Duration:    s.DurationMinutes,
		Latitude:    s.Latitude,
		Longitude:   s.Longitude,
		Confidence:  s.Confidence,
		Type:        s.Category,
	}
}

func NewTripRecord(t *trip.Trip) TripRecord {
	return TripRecord{
		ID:            t.ID,
		EquipmentID:   t.AssetID,
		StartTime:     iso(t.Start),
		EndTime:       iso(t.End),
		TotalDistance: t.DistanceMeters,
		AvgSpeed:      t.AvgReportedSpeedKmh,
	}
}

// ToFile writes an export to path via fn. A ".gz" suffix gets a
// gzipped, flocked file; anything else a plain one.
func ToFile(path string, fn func(io.Writer) error) error {
	if strings.HasSuffix(path, ".gz") {
		w, err := zfile.NewGZFileWriter(path, nil)
		if err != nil {
			return err
		}
		if err := fn(w); err != nil {
			_ = w.Close()
			return err
		}
		return w.Close()
	}
	w, err := zfile.NewPlainFileWriter(path)
	if err != nil {
		return err
	}
	if err := fn(w); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
