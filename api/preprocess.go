package api

import (
	"slices"

	"github.com/rotblauer/stopd/geo/preprocess"
	"github.com/rotblauer/stopd/types/fix"
)

// Preprocess turns a raw feed into the canonical fix sequence the rest
// of the pipeline assumes: sanitized, valid, deduplicated, ordered by
// asset then time, and annotated with elapsed/distance/implied-speed
// derivations. Invalid fixes are dropped, not repaired.
func (d *Detector) Preprocess(raw []fix.Fix) []fix.Fix {
	dedupe := fix.NewDedupeLRUFunc()

	fixes := make([]fix.Fix, 0, len(raw))
	dropped, duped := 0, 0
	for _, f := range raw {
		f = fix.Sanitize(f)
		if err := f.Validate(); err != nil {
			dropped++
			continue
		}
		if !dedupe(f) {
			duped++
			continue
		}
		fixes = append(fixes, f)
	}

	slices.SortStableFunc(fixes, fix.SortFunc)
	preprocess.AnnotateGrouped(fixes)

	if dropped > 0 || duped > 0 {
		d.logger.Warn("Preprocess filtered fixes",
			"in", len(raw), "out", len(fixes),
			"invalid", dropped, "duplicate", duped)
	}
	return fixes
}
