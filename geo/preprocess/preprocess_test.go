package preprocess

import (
	"math"
	"testing"

	"github.com/rotblauer/stopd/types/fix"
)

func fixAt(assetID string, lat, lng, speed float64, epoch int64) fix.Fix {
	return fix.Fix{AssetID: assetID, Latitude: lat, Longitude: lng, SpeedKmh: speed, EpochMillis: epoch}
}

func TestAnnotate(t *testing.T) {
	base := int64(1716229800000)
	fixes := []fix.Fix{
		fixAt("EQPT-1", 12.9, 74.91, 10, base),
		fixAt("EQPT-1", 12.901, 74.91, 10, base+60_000),
	}
	Annotate(fixes)

	first := fixes[0]
	if first.ElapsedSeconds != 0 || first.DistanceMeters != 0 || first.ImpliedSpeedKmh != 0 {
		t.Errorf("first fix should keep zero derived values: %+v", first)
	}

	second := fixes[1]
	if second.ElapsedSeconds != 60 {
		t.Errorf("elapsed seconds: got %v, want 60", second.ElapsedSeconds)
	}
	// 0.001 degrees of latitude is about 111.19 meters.
	if math.Abs(second.DistanceMeters-111.19) > 1 {
		t.Errorf("distance meters: got %v, want ~111.19", second.DistanceMeters)
	}
	// 111.19m over 60s is about 6.67 km/h.
	if math.Abs(second.ImpliedSpeedKmh-6.67) > 0.1 {
		t.Errorf("implied speed: got %v, want ~6.67", second.ImpliedSpeedKmh)
	}
	if second.Outlier {
		t.Errorf("6.67 km/h is not an outlier")
	}
}

func TestAnnotateZeroElapsed(t *testing.T) {
	base := int64(1716229800000)
	fixes := []fix.Fix{
		fixAt("EQPT-1", 12.9, 74.91, 0, base),
		fixAt("EQPT-1", 12.901, 74.91, 0, base),
	}
	Annotate(fixes)
	if fixes[1].ImpliedSpeedKmh != 0 {
		t.Errorf("zero elapsed must imply zero speed, got %v", fixes[1].ImpliedSpeedKmh)
	}
	if fixes[1].DistanceMeters == 0 {
		t.Errorf("distance should still be computed for zero elapsed")
	}
}

func TestAnnotateFlagsOutliers(t *testing.T) {
	base := int64(1716229800000)
	// 0.1 degrees of latitude (~11km) in 60 seconds is ~667 km/h.
	fixes := []fix.Fix{
		fixAt("EQPT-1", 12.9, 74.91, 0, base),
		fixAt("EQPT-1", 13.0, 74.91, 0, base+60_000),
		fixAt("EQPT-1", 13.0001, 74.91, 0, base+120_000),
	}
	Annotate(fixes)
	if !fixes[1].Outlier {
		t.Errorf("expected outlier flag at implied %v km/h", fixes[1].ImpliedSpeedKmh)
	}
	if fixes[2].Outlier {
		t.Errorf("unexpected outlier flag at implied %v km/h", fixes[2].ImpliedSpeedKmh)
	}
	// Flagged, not dropped.
	if len(fixes) != 3 {
		t.Fatalf("annotation must not drop fixes")
	}
}

func TestAnnotateGroupedResetsAtAssetBoundary(t *testing.T) {
	base := int64(1716229800000)
	fixes := []fix.Fix{
		fixAt("EQPT-1", 12.9, 74.91, 0, base),
		fixAt("EQPT-1", 12.901, 74.91, 0, base+60_000),
		fixAt("EQPT-2", 50.0, 8.0, 0, base+120_000),
		fixAt("EQPT-2", 50.001, 8.0, 0, base+180_000),
	}
	AnnotateGrouped(fixes)

	if fixes[2].ElapsedSeconds != 0 || fixes[2].DistanceMeters != 0 {
		t.Errorf("first fix of second asset should keep zero derived values: %+v", fixes[2])
	}
	if fixes[3].ElapsedSeconds != 60 {
		t.Errorf("second asset annotation: got %v, want 60", fixes[3].ElapsedSeconds)
	}
}
