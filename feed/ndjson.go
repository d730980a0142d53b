package feed

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rotblauer/stopd/types/fix"
	"github.com/tidwall/gjson"
)

// ReadNDJSON scans a newline-delimited JSON feed, one fix object per
// line. Field access goes through gjson rather than strict decoding so
// lines carrying extra vendor fields pass straight through; lines
// missing coordinates or a timestamp are dropped with a warning.
func ReadNDJSON(r io.Reader) ([]fix.Fix, error) {
	meter := newTickScanMeter(meterLogInterval)
	defer meter.stop()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)

	var fixes []fix.Fix
	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		if !gjson.ValidBytes(data) {
			logDroppedRow("ndjson", line, fmt.Errorf("invalid json"))
			continue
		}
		parsed := gjson.ParseBytes(data)
		f := fix.Fix{
			AssetID:     parsed.Get("assetId").String(),
			Latitude:    parsed.Get("latitude").Float(),
			Longitude:   parsed.Get("longitude").Float(),
			SpeedKmh:    parsed.Get("speed").Float(),
			EpochMillis: parsed.Get("eventGeneratedTime").Int(),
		}
		if f.AssetID == "" {
			// Some vendors label the asset column the CSV way.
			f.AssetID = parsed.Get("EquipmentId").String()
		}
		if err := f.Validate(); err != nil {
			logDroppedRow("ndjson", line, err)
			continue
		}
		f = fix.Sanitize(f)
		meter.mark(f.AssetID, f.Time(), len(data))
		fixes = append(fixes, f)
	}
	if err := scanner.Err(); err != nil {
		return fixes, fmt.Errorf("scan ndjson feed: %w", err)
	}
	return fixes, nil
}
