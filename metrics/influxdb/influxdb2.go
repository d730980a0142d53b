package influxdb

import (
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/rotblauer/stopd/params"
	"github.com/rotblauer/stopd/types/stoppage"
)

// ExportStoppages posts stoppages to an InfluxDB Write API.
// Because it accepts a slice, use batches. The Write API will buffer and flush.
// The last error encountered is returned.
func ExportStoppages(stoppages []stoppage.Stoppage) error {
	opts := influxdb2.DefaultOptions()
	opts.SetPrecision(time.Second)
	client := influxdb2.NewClientWithOptions(params.INFLUXDB_URL, params.INFLUXDB_TOKEN, opts)
	writeAPI := client.WriteAPI(params.INFLUXDB_ORG, params.INFLUXDB_BUCKET)

	// Errors returns a channel for reading errors which occurs during async writes.
	// Must be called before performing any writes for errors to be collected.
	// The chan is unbuffered and must be drained or the writer will block.
	// https://github.com/influxdata/influxdb-client-go?tab=readme-ov-file#reading-async-errors
	errorsCh := writeAPI.Errors()
	var err error
	wait := sync.WaitGroup{}
	wait.Add(1)
	go func() {
		defer wait.Done()
		for e := range errorsCh {
			if e != nil {
				err = e
			}
		}
	}()

	for _, s := range stoppages {
		p := influxdb2.NewPointWithMeasurement("stoppage").
			SetTime(s.Start).
			AddTag("asset", s.AssetID).
			AddTag("trip", s.TripID).
			AddTag("algorithm", s.Algorithm).
			AddTag("category", s.Category).
			AddField("latitude", s.Latitude).
			AddField("longitude", s.Longitude).
			AddField("duration_minutes", s.DurationMinutes).
			AddField("confidence", s.Confidence).
			AddField("end_time", s.End.Unix())

		writeAPI.WritePoint(p)
	}

	writeAPI.Flush()
	client.Close()
	wait.Wait()
	return err
}
