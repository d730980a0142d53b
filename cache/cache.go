// Package cache holds process-scope caches shared by the CLI and the
// web daemon.
package cache

import (
	"github.com/hashicorp/golang-lru/v2"
	"github.com/jellydator/ttlcache/v3"
	"github.com/mitchellh/hashstructure/v2"
	"github.com/rotblauer/stopd/api"
	"github.com/rotblauer/stopd/params"
	"github.com/rotblauer/stopd/state"
	"github.com/rotblauer/stopd/types/fix"
)

// LastRunTTLCache keeps the most recent run record hot so /last
// requests don't hit bbolt. The key is the data dir.
var LastRunTTLCache = ttlcache.New[string, *state.RunRecord](
	ttlcache.WithTTL[string, *state.RunRecord](params.CacheLastRunTTL))

func SetLastRun(datadir string, r *state.RunRecord) {
	LastRunTTLCache.Set(datadir, r, ttlcache.DefaultTTL)
}

func GetLastRun(datadir string) *state.RunRecord {
	item := LastRunTTLCache.Get(datadir)
	if item == nil {
		return nil
	}
	return item.Value()
}

// resultsLRU memoizes full detection results keyed by run hash. The
// daemon re-runs detection on every parameter tweak; runs over the
// same feed with identical parameters are pure replays.
var resultsLRU, _ = lru.New[uint64, *api.Result](params.CacheResultsLRUSize)

// runKey is the hashed identity of a detection run: what ran, on what.
type runKey struct {
	Config     *params.DetectionConfig
	Strategies []string
	Fixes      []fix.Fix
}

// ResultKey hashes a run's configuration, enabled strategies, and
// input feed for result memoization. Hash failure reads as key 0;
// those results simply collide and the cache stays merely less useful.
func ResultKey(cfg *params.DetectionConfig, strategies []string, fixes []fix.Fix) uint64 {
	hash, err := hashstructure.Hash(runKey{cfg, strategies, fixes}, hashstructure.FormatV2, nil)
	if err != nil {
		return 0
	}
	return hash
}

func GetResult(key uint64) (*api.Result, bool) {
	return resultsLRU.Get(key)
}

func AddResult(key uint64, res *api.Result) {
	resultsLRU.Add(key, res)
}

func PurgeResults() {
	resultsLRU.Purge()
}
