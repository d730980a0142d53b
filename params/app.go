package params

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"time"
)

const (
	StoppagesFileName   = "stoppages.json"
	StoppagesCSVName    = "stoppages.csv"
	StoppagesGeoJSON    = "stoppages.geojson"
	TripsGeoJSON        = "trips.geojson"
	RunStateDBName      = "runs.db"
	GZExt               = ".gz"
)

var DatadirRoot = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return filepath.Join(home, ".stopd")
}()

var RunStateBucket = []byte("runs")

var DefaultBatchSize = 10_000

var DefaultGZipCompressionLevel = gzip.BestCompression

var (
	CacheLastRunTTL     = 7 * 24 * time.Hour
	CacheResultsLRUSize = 128
	CacheDedupeLRUSize  = 10_000
)

// AWS_BUCKETNAME is the fallback bucket for export uploads, for the
// purpose of running stopd _without_ an S3 config.
var AWS_BUCKETNAME = os.Getenv("AWS_BUCKETNAME")

// InfluxDB export configuration. Export is skipped when URL is unset.
var (
	INFLUXDB_URL    = os.Getenv("INFLUXDB_URL")
	INFLUXDB_TOKEN  = os.Getenv("INFLUXDB_TOKEN")
	INFLUXDB_ORG    = os.Getenv("INFLUXDB_ORG")
	INFLUXDB_BUCKET = os.Getenv("INFLUXDB_BUCKET")
)
