package trip

import (
	"math"
	"testing"
	"time"

	"github.com/rotblauer/stopd/types/fix"
)

func tripFix(lat, lng, speed float64, epoch int64) fix.Fix {
	return fix.Fix{AssetID: "EQPT-1", Latitude: lat, Longitude: lng, SpeedKmh: speed, EpochMillis: epoch}
}

func TestNew(t *testing.T) {
	base := int64(1716229800000)
	fixes := []fix.Fix{
		tripFix(12.9, 74.91, 10, base),
		tripFix(12.901, 74.91, 20, base+60_000),
		tripFix(12.902, 74.91, 30, base+120_000),
	}
	tr := New("EQPT-1", 3, fixes)
	if tr == nil {
		t.Fatal("constructor returned nil for a 3-fix run")
	}
	if tr.ID != "EQPT-1_Trip3" {
		t.Errorf("id: got %q, want EQPT-1_Trip3", tr.ID)
	}
	if tr.N != 3 || tr.AssetID != "EQPT-1" {
		t.Errorf("identity: %+v", tr)
	}
	if !tr.Start.Equal(time.UnixMilli(base).UTC()) || !tr.End.Equal(time.UnixMilli(base+120_000).UTC()) {
		t.Errorf("bounds: [%v, %v]", tr.Start, tr.End)
	}
	if tr.Duration() != 2*time.Minute {
		t.Errorf("duration: got %v", tr.Duration())
	}
	// Two hops of 0.001 degrees latitude, ~111.19m each.
	if math.Abs(tr.DistanceMeters-222.39) > 1 {
		t.Errorf("distance: got %v, want ~222.39", tr.DistanceMeters)
	}
	if tr.AvgReportedSpeedKmh != 20 {
		t.Errorf("avg speed: got %v, want 20", tr.AvgReportedSpeedKmh)
	}
}

func TestNewRejectsShortRuns(t *testing.T) {
	if tr := New("EQPT-1", 1, nil); tr != nil {
		t.Errorf("expected nil for empty run")
	}
	if tr := New("EQPT-1", 1, []fix.Fix{tripFix(12.9, 74.91, 0, 1716229800000)}); tr != nil {
		t.Errorf("expected nil for single-fix run")
	}
}

func TestFeature(t *testing.T) {
	base := int64(1716229800000)
	tr := New("EQPT-1", 1, []fix.Fix{
		tripFix(12.9, 74.91, 10, base),
		tripFix(12.901, 74.91, 20, base+60_000),
	})
	f := tr.Feature()
	if f.Properties["ID"] != "EQPT-1_Trip1" {
		t.Errorf("feature id: got %v", f.Properties["ID"])
	}
	if f.Properties["RawPointCount"] != 2 {
		t.Errorf("point count: got %v", f.Properties["RawPointCount"])
	}
	if f.Properties["Speed_Reported_Mean"] != 15.0 {
		t.Errorf("mean reported speed: got %v", f.Properties["Speed_Reported_Mean"])
	}
}
