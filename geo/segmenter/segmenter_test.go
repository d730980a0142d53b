package segmenter

import (
	"testing"
	"time"

	"github.com/rotblauer/stopd/types/fix"
)

const base = int64(1716229800000)

func fixAtMinute(assetID string, m int) fix.Fix {
	return fix.Fix{
		AssetID:     assetID,
		Latitude:    12.9,
		Longitude:   74.91,
		EpochMillis: base + int64(m)*60_000,
	}
}

func TestSegmentSplitsOnGap(t *testing.T) {
	fixes := []fix.Fix{
		fixAtMinute("EQPT-1", 0),
		fixAtMinute("EQPT-1", 1),
		fixAtMinute("EQPT-1", 3),
		fixAtMinute("EQPT-1", 503), // 500 minute gap
		fixAtMinute("EQPT-1", 506),
	}
	trips := Segment(fixes, time.Hour)
	if len(trips) != 2 {
		t.Fatalf("got %d trips, want 2", len(trips))
	}
	if trips[0].ID != "EQPT-1_Trip1" {
		t.Errorf("first trip id: got %q, want EQPT-1_Trip1", trips[0].ID)
	}
	if trips[1].ID != "EQPT-1_Trip2" {
		t.Errorf("second trip id: got %q, want EQPT-1_Trip2", trips[1].ID)
	}
	if n := len(trips[0].Fixes); n != 3 {
		t.Errorf("first trip fixes: got %d, want 3", n)
	}
	if n := len(trips[1].Fixes); n != 2 {
		t.Errorf("second trip fixes: got %d, want 2", n)
	}
	if wantEnd := fixAtMinute("EQPT-1", 3); !trips[0].End.Equal(wantEnd.Time()) {
		t.Errorf("first trip end: got %v", trips[0].End)
	}
	if wantStart := fixAtMinute("EQPT-1", 503); !trips[1].Start.Equal(wantStart.Time()) {
		t.Errorf("second trip start: got %v", trips[1].Start)
	}
}

func TestSegmentGapExactlyAtIntervalDoesNotSplit(t *testing.T) {
	fixes := []fix.Fix{
		fixAtMinute("EQPT-1", 0),
		fixAtMinute("EQPT-1", 60),
		fixAtMinute("EQPT-1", 61),
	}
	trips := Segment(fixes, time.Hour)
	if len(trips) != 1 {
		t.Fatalf("got %d trips, want 1 (gap equal to interval must not split)", len(trips))
	}
}

// A run of fewer than 2 fixes is discarded but still consumes a trip
// number.
func TestSegmentShortRunConsumesNumber(t *testing.T) {
	fixes := []fix.Fix{
		fixAtMinute("EQPT-1", 0),
		fixAtMinute("EQPT-1", 100),
		fixAtMinute("EQPT-1", 101),
	}
	trips := Segment(fixes, time.Hour)
	if len(trips) != 1 {
		t.Fatalf("got %d trips, want 1", len(trips))
	}
	if trips[0].ID != "EQPT-1_Trip2" {
		t.Errorf("trip id: got %q, want EQPT-1_Trip2", trips[0].ID)
	}
}

func TestSegmentOrdersAssetsByID(t *testing.T) {
	fixes := []fix.Fix{
		fixAtMinute("EQPT-9", 0),
		fixAtMinute("EQPT-9", 1),
		fixAtMinute("EQPT-2", 5),
		fixAtMinute("EQPT-2", 6),
	}
	trips := Segment(fixes, time.Hour)
	if len(trips) != 2 {
		t.Fatalf("got %d trips, want 2", len(trips))
	}
	if trips[0].AssetID != "EQPT-2" || trips[1].AssetID != "EQPT-9" {
		t.Errorf("asset order: got %s, %s", trips[0].AssetID, trips[1].AssetID)
	}
}

func TestSegmentSortsUnorderedFixes(t *testing.T) {
	fixes := []fix.Fix{
		fixAtMinute("EQPT-1", 3),
		fixAtMinute("EQPT-1", 0),
		fixAtMinute("EQPT-1", 1),
	}
	trips := Segment(fixes, time.Hour)
	if len(trips) != 1 {
		t.Fatalf("got %d trips, want 1", len(trips))
	}
	got := trips[0].Fixes
	for i := 1; i < len(got); i++ {
		if got[i].EpochMillis < got[i-1].EpochMillis {
			t.Errorf("fixes not chronological at %d", i)
		}
	}
}
