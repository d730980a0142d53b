package detector

import (
	"math"
	"testing"

	"github.com/rotblauer/stopd/params"
	"github.com/rotblauer/stopd/types/stoppage"
)

func TestDetectSpeed(t *testing.T) {
	cfg := params.DefaultDetectionConfig().Speed

	// Three slow fixes two minutes apart, then a fast one closing the run.
	tr := testTrip(t,
		testFix(0, 0, 0, 0),
		testFix(0.00001, 0, 1, 120),
		testFix(0.00002, 0, 0, 240),
		testFix(0.001, 0, 20, 360),
	)
	got := DetectSpeed(tr, cfg)
	if len(got) != 1 {
		t.Fatalf("got %d stoppages, want 1", len(got))
	}

	s := got[0]
	if s.ID != "speed_EQPT-1_Trip1_0" {
		t.Errorf("id: got %q", s.ID)
	}
	if s.Algorithm != params.AlgorithmSpeed || s.Category != stoppage.CategoryLowSpeed {
		t.Errorf("labels: got %q / %q", s.Algorithm, s.Category)
	}
	// Duration runs from the first slow fix to the transition fix.
	if s.DurationMinutes != 6 {
		t.Errorf("duration: got %v, want 6", s.DurationMinutes)
	}
	if !s.Start.Equal(tr.Fixes[0].Time()) || !s.End.Equal(tr.Fixes[3].Time()) {
		t.Errorf("window: got [%v, %v]", s.Start, s.End)
	}
	if math.Abs(s.Confidence-0.6) > 1e-9 {
		t.Errorf("confidence: got %v, want 0.6", s.Confidence)
	}
	// Center is the centroid of the slow run only.
	if math.Abs(s.Latitude-(12.9+0.00001)) > 1e-9 {
		t.Errorf("latitude: got %v, want centroid of slow fixes", s.Latitude)
	}
}

// A run still open at the end of the trip is never emitted.
func TestDetectSpeedOpenRun(t *testing.T) {
	cfg := params.DefaultDetectionConfig().Speed
	tr := testTrip(t,
		testFix(0, 0, 0, 0),
		testFix(0, 0, 0, 300),
		testFix(0, 0, 0, 600),
	)
	if got := DetectSpeed(tr, cfg); len(got) != 0 {
		t.Errorf("got %d stoppages, want 0 for an unclosed run", len(got))
	}
}

// A single slow fix between fast ones is not a run.
func TestDetectSpeedSingleSlowFix(t *testing.T) {
	cfg := params.DefaultDetectionConfig().Speed
	tr := testTrip(t,
		testFix(0, 0, 30, 0),
		testFix(0.001, 0, 0, 300),
		testFix(0.002, 0, 30, 600),
	)
	if got := DetectSpeed(tr, cfg); len(got) != 0 {
		t.Errorf("got %d stoppages, want 0 for a one-fix run", len(got))
	}
}

func TestDetectSpeedTooBrief(t *testing.T) {
	cfg := params.DefaultDetectionConfig().Speed
	// Two slow fixes 30 seconds apart, closed after one minute: under
	// the 2 minute duration floor.
	tr := testTrip(t,
		testFix(0, 0, 0, 0),
		testFix(0, 0, 0, 30),
		testFix(0.001, 0, 20, 60),
	)
	if got := DetectSpeed(tr, cfg); len(got) != 0 {
		t.Errorf("got %d stoppages, want 0", len(got))
	}
}

// Speed at exactly the threshold counts as slow.
func TestDetectSpeedThresholdInclusive(t *testing.T) {
	cfg := params.DefaultDetectionConfig().Speed
	tr := testTrip(t,
		testFix(0, 0, 5, 0),
		testFix(0, 0, 5, 120),
		testFix(0.001, 0, 5.01, 240),
	)
	got := DetectSpeed(tr, cfg)
	if len(got) != 1 {
		t.Fatalf("got %d stoppages, want 1", len(got))
	}
	if got[0].DurationMinutes != 4 {
		t.Errorf("duration: got %v, want 4", got[0].DurationMinutes)
	}
}
