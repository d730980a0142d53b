package fix

import (
	"fmt"

	"github.com/golang/groupcache/lru"
	"github.com/mitchellh/hashstructure/v2"
	"github.com/rotblauer/stopd/params"
)

// NewDedupeLRUFunc returns a filter reporting whether a fix is novel.
// Duplicate reports are common when a feed replays on reconnect; the
// LRU window means a duplicate only goes unnoticed if it arrives more
// than a cache-full of fixes after the original.
func NewDedupeLRUFunc() func(Fix) bool {
	var dedupeCache = lru.New(params.CacheDedupeLRUSize)
	return func(f Fix) bool {
		hash, err := hashstructure.Hash(f, hashstructure.FormatV2, nil)
		if err != nil {
			return false
		}
		key := fmt.Sprintf("%d", hash)
		_, ok := dedupeCache.Get(key)
		if ok {
			return false
		}
		dedupeCache.Add(key, true)
		return true
	}
}
