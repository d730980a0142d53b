package fix

import (
	"math"
	"slices"
	"testing"
)

func TestValidate(t *testing.T) {
	good := Fix{AssetID: "EQPT-1", Latitude: 12.9, Longitude: 74.91, EpochMillis: 1716229800000}
	if err := good.Validate(); err != nil {
		t.Errorf("valid fix rejected: %v", err)
	}

	cases := []struct {
		name string
		f    Fix
	}{
		{"lat out of range", Fix{Latitude: 91, Longitude: 0, EpochMillis: 1}},
		{"lng out of range", Fix{Latitude: 0, Longitude: -181, EpochMillis: 1}},
		{"lat NaN", Fix{Latitude: math.NaN(), Longitude: 0, EpochMillis: 1}},
		{"zero timestamp", Fix{Latitude: 12.9, Longitude: 74.91, EpochMillis: 0}},
		{"negative timestamp", Fix{Latitude: 12.9, Longitude: 74.91, EpochMillis: -1}},
	}
	for _, c := range cases {
		if err := c.f.Validate(); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}

func TestSanitize(t *testing.T) {
	f := Sanitize(Fix{SpeedKmh: -1})
	if f.AssetID != UnknownAssetID {
		t.Errorf("asset: got %q, want %q", f.AssetID, UnknownAssetID)
	}
	if f.SpeedKmh != 0 {
		t.Errorf("speed: got %v, want 0", f.SpeedKmh)
	}

	f = Sanitize(Fix{AssetID: "EQPT-1", SpeedKmh: 7})
	if f.AssetID != "EQPT-1" || f.SpeedKmh != 7 {
		t.Errorf("sanitize must not touch good values: %+v", f)
	}
}

func TestSortFunc(t *testing.T) {
	fixes := []Fix{
		{AssetID: "B", EpochMillis: 1},
		{AssetID: "A", EpochMillis: 2},
		{AssetID: "A", EpochMillis: 1},
	}
	slices.SortFunc(fixes, SortFunc)
	if fixes[0].AssetID != "A" || fixes[0].EpochMillis != 1 {
		t.Errorf("sort order wrong: %+v", fixes)
	}
	if fixes[2].AssetID != "B" {
		t.Errorf("sort order wrong: %+v", fixes)
	}
}

func TestTimeUTC(t *testing.T) {
	f := Fix{EpochMillis: 1716229815000}
	got := f.Time()
	if got.Location() != f.Time().UTC().Location() {
		t.Errorf("time zone: got %v", got.Location())
	}
	if got.Unix() != 1716229815 {
		t.Errorf("unix: got %v", got.Unix())
	}
}

func TestDedupeLRUFunc(t *testing.T) {
	novel := NewDedupeLRUFunc()
	a := Fix{AssetID: "EQPT-1", Latitude: 12.9, Longitude: 74.91, EpochMillis: 1716229800000}
	b := a
	c := a
	c.EpochMillis += 1000

	if !novel(a) {
		t.Errorf("first sighting should be novel")
	}
	if novel(b) {
		t.Errorf("identical fix should be a duplicate")
	}
	if !novel(c) {
		t.Errorf("different timestamp should be novel")
	}
}
