package cache

import (
	"testing"
	"time"

	"github.com/rotblauer/stopd/api"
	"github.com/rotblauer/stopd/params"
	"github.com/rotblauer/stopd/state"
	"github.com/rotblauer/stopd/types/fix"
)

func TestLastRunCache(t *testing.T) {
	if got := GetLastRun("/tmp/never-set"); got != nil {
		t.Errorf("unset datadir: got %+v", got)
	}

	rec := &state.RunRecord{StartedAt: time.Now().UTC(), Fixes: 14}
	SetLastRun("/tmp/stopd-cache-test", rec)
	got := GetLastRun("/tmp/stopd-cache-test")
	if got == nil || got.Fixes != 14 {
		t.Errorf("got %+v", got)
	}
}

func TestResultKey(t *testing.T) {
	cfg := params.DefaultDetectionConfig()
	fixes := []fix.Fix{
		{AssetID: "EQPT-1", Latitude: 12.9, Longitude: 74.91, EpochMillis: 1716229800000},
	}
	strategies := []string{"timegap", "speed"}

	a := ResultKey(cfg, strategies, fixes)
	b := ResultKey(cfg, strategies, fixes)
	if a != b {
		t.Errorf("identical runs must hash alike: %d vs %d", a, b)
	}

	other := params.DefaultDetectionConfig()
	other.TimeGap.MinGapMinutes = 6
	if ResultKey(other, strategies, fixes) == a {
		t.Errorf("config change should change the key")
	}
	if ResultKey(cfg, []string{"timegap"}, fixes) == a {
		t.Errorf("strategy change should change the key")
	}
	moved := []fix.Fix{fixes[0]}
	moved[0].EpochMillis += 1000
	if ResultKey(cfg, strategies, moved) == a {
		t.Errorf("feed change should change the key")
	}
}

func TestResultLRU(t *testing.T) {
	key := ResultKey(params.DefaultDetectionConfig(), []string{"speed"}, nil)
	if _, ok := GetResult(key); ok {
		t.Fatalf("unexpected cache hit")
	}
	AddResult(key, &api.Result{Took: time.Second})
	got, ok := GetResult(key)
	if !ok || got.Took != time.Second {
		t.Errorf("got %+v, ok=%v", got, ok)
	}
	PurgeResults()
	if _, ok := GetResult(key); ok {
		t.Errorf("purge should empty the cache")
	}
}
