package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotblauer/stopd/types/fix"
)

// CSV column names the reader understands. Matching is
// case-insensitive; unrecognized columns are ignored.
const (
	colAsset     = "equipmentid"
	colLatitude  = "latitude"
	colLongitude = "longitude"
	colSpeed     = "speed"
	colEventTime = "eventgeneratedtime"
)

// ReadCSV scans a header-mapped CSV feed. The first record names the
// columns; each following record becomes a fix if its coordinates and
// timestamp parse, and is dropped with a warning if they don't. A
// missing or unparseable speed reads as zero rather than killing the
// row. Timestamps are epoch milliseconds, with RFC3339 accepted as a
// fallback.
func ReadCSV(r io.Reader) ([]fix.Fix, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{colLatitude, colLongitude, colEventTime} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csv header missing column %q", required)
		}
	}

	meter := newTickScanMeter(meterLogInterval)
	defer meter.stop()

	var fixes []fix.Fix
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logDroppedRow("csv", line, err)
			continue
		}
		f, err := recordToFix(cols, record)
		if err != nil {
			logDroppedRow("csv", line, err)
			continue
		}
		f = fix.Sanitize(f)
		meter.mark(f.AssetID, f.Time(), recordSize(record))
		fixes = append(fixes, f)
	}
	return fixes, nil
}

func recordToFix(cols map[string]int, record []string) (fix.Fix, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	lat, err := strconv.ParseFloat(field(colLatitude), 64)
	if err != nil {
		return fix.Fix{}, fmt.Errorf("latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(field(colLongitude), 64)
	if err != nil {
		return fix.Fix{}, fmt.Errorf("longitude: %w", err)
	}
	epoch, err := parseEventTime(field(colEventTime))
	if err != nil {
		return fix.Fix{}, fmt.Errorf("eventGeneratedTime: %w", err)
	}

	speed, err := strconv.ParseFloat(field(colSpeed), 64)
	if err != nil {
		speed = 0
	}

	f := fix.Fix{
		AssetID:     field(colAsset),
		Latitude:    lat,
		Longitude:   lng,
		SpeedKmh:    speed,
		EpochMillis: epoch,
	}
	if err := f.Validate(); err != nil {
		return fix.Fix{}, err
	}
	return f, nil
}

func parseEventTime(s string) (int64, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

func recordSize(record []string) int {
	n := len(record)
	for _, v := range record {
		n += len(v)
	}
	return n
}
