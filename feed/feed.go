// Package feed reads raw fix feeds into memory.
//
// Two source formats are supported: header-mapped CSV like telematics
// vendors export, and newline-delimited JSON. Both readers are tolerant
// of bad rows. Feeds are messy; a feed with a few mangled lines is the
// normal case, not an error, so malformed rows are dropped with a log
// line and the rest of the feed survives.
package feed

import (
	"io"
	"log/slog"
	"time"

	"github.com/rotblauer/stopd/types/fix"
)

// meterLogInterval is how often a running scan reports progress.
const meterLogInterval = 15 * time.Second

// Format names a feed encoding.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatNDJSON Format = "ndjson"
)

// Read scans a feed of the given format.
func Read(r io.Reader, format Format) ([]fix.Fix, error) {
	switch format {
	case FormatNDJSON:
		return ReadNDJSON(r)
	default:
		return ReadCSV(r)
	}
}

func logDroppedRow(kind string, line int, err error) {
	slog.Warn("Dropped feed row", "format", kind, "line", line, "error", err)
}
