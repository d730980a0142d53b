// Package preprocess annotates consecutive fix pairs with elapsed time,
// travelled distance, and the speed the pair implies, then flags
// physically implausible jumps as outliers.
//
// Outliers are flagged, never dropped: downstream detectors see the
// full sequence; only renderers skip flagged fixes.
package preprocess

import (
	"github.com/rotblauer/stopd/common"
	"github.com/rotblauer/stopd/types/fix"
)

// Annotate fills the derived fields of a time-sorted fix slice for one
// asset, in place, and returns the same slice. The first fix keeps
// zero derived values. An elapsed time of 0 yields implied speed 0.
func Annotate(fixes []fix.Fix) []fix.Fix {
	for i := 1; i < len(fixes); i++ {
		prev, curr := &fixes[i-1], &fixes[i]
		curr.ElapsedSeconds = float64(curr.EpochMillis-prev.EpochMillis) / 1000
		curr.DistanceMeters = common.DistanceMeters(
			prev.Latitude, prev.Longitude, curr.Latitude, curr.Longitude)
		if curr.ElapsedSeconds > 0 {
			curr.ImpliedSpeedKmh = curr.DistanceMeters / curr.ElapsedSeconds * common.MPSToKMH
		} else {
			curr.ImpliedSpeedKmh = 0
		}
	}
	for i := range fixes {
		fixes[i].Outlier = fixes[i].ImpliedSpeedKmh > common.SpeedKmhUnrealistic
	}
	return fixes
}

// AnnotateGrouped annotates a slice sorted by asset then time,
// restarting the pairwise derivations at each asset boundary so the
// first fix of every asset keeps zero derived values.
func AnnotateGrouped(fixes []fix.Fix) []fix.Fix {
	start := 0
	for i := 1; i <= len(fixes); i++ {
		if i == len(fixes) || fixes[i].AssetID != fixes[start].AssetID {
			Annotate(fixes[start:i])
			start = i
		}
	}
	return fixes
}
