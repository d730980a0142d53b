/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rotblauer/stopd/api"
	"github.com/rotblauer/stopd/common"
	"github.com/rotblauer/stopd/export"
	"github.com/rotblauer/stopd/feed"
	"github.com/rotblauer/stopd/geo/detector"
	"github.com/rotblauer/stopd/metrics/influxdb"
	"github.com/rotblauer/stopd/reports"
	"github.com/rotblauer/stopd/state"
	"github.com/rotblauer/stopd/testing/testdata"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var optDetectInput string
var optDetectFormat string
var optDetectStrategies []string
var optDetectOutput string
var optDetectExportCSV string
var optDetectExportGeoJSON string
var optDetectS3Key string
var optDetectInflux bool
var optDetectSample bool

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect stoppages in a GPS fix feed",
	Long: `Reads a fix feed, segments trips, runs the enabled detection
strategies, reconciles overlapping findings per trip, and writes the
combined trips+stoppages JSON document.

The feed comes from --input, or stdin when --input is "-". CSV feeds
need a header row (EquipmentId, latitude, longitude, speed,
eventGeneratedTime); NDJSON feeds one fix object per line.

Examples:

  stopd detect --input fleet.csv -o results.json
  cat fixes.ndjson | stopd detect --format ndjson --strategies timegap,speed
  stopd detect --input fleet.csv --export-csv stoppages.csv.gz --s3-key fleet/2024/stoppages.csv.gz
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			sig := <-common.Interrupted()
			slog.Warn("Received signal", "signal", sig)
			cancel()
		}()

		var in io.Reader = os.Stdin
		if optDetectSample {
			in = bytes.NewReader(testdata.SampleFleetCSV)
			optDetectFormat = string(feed.FormatCSV)
		} else if optDetectInput != "" && optDetectInput != "-" {
			f, err := os.Open(optDetectInput)
			if err != nil {
				log.Fatalln(err)
			}
			defer f.Close()
			in = f
		}

		fixes, err := feed.Read(in, feed.Format(optDetectFormat))
		if err != nil {
			log.Fatalln(err)
		}

		d := api.NewDetector(detectionConfig())
		if len(optDetectStrategies) > 0 {
			set := detector.Set{}
			for _, name := range optDetectStrategies {
				st, err := detector.ParseStrategy(strings.TrimSpace(name))
				if err != nil {
					log.Fatalln(err)
				}
				set[st] = true
			}
			d.Strategies = set
		}

		res, err := d.Run(ctx, fixes)
		if err != nil {
			log.Fatalln(err)
		}

		summary := reports.NewSummary(res.Stoppages)
		storeLastRun(res, summary, reports.NewQuality(res.Fixes, res.Trips))

		out := optDetectOutput
		if out == "" || out == "-" {
			if err := export.WriteJSON(os.Stdout, res.Trips, res.Stoppages); err != nil {
				log.Fatalln(err)
			}
		} else {
			if err := export.ToFile(out, func(w io.Writer) error {
				return export.WriteJSON(w, res.Trips, res.Stoppages)
			}); err != nil {
				log.Fatalln(err)
			}
			slog.Info("Wrote results", "path", out)
		}

		if optDetectExportCSV != "" {
			if err := export.ToFile(optDetectExportCSV, func(w io.Writer) error {
				return export.WriteCSV(w, res.Stoppages)
			}); err != nil {
				log.Fatalln(err)
			}
			slog.Info("Wrote CSV export", "path", optDetectExportCSV)
		}

		if optDetectExportGeoJSON != "" {
			if err := export.ToFile(optDetectExportGeoJSON, func(w io.Writer) error {
				return export.WriteGeoJSON(w, res.Trips, res.Stoppages)
			}); err != nil {
				log.Fatalln(err)
			}
			slog.Info("Wrote GeoJSON export", "path", optDetectExportGeoJSON)
		}

		if optDetectS3Key != "" {
			uploadExportS3(optDetectS3Key, res)
		}

		if optDetectInflux {
			if err := influxdb.ExportStoppages(res.Stoppages); err != nil {
				slog.Error("InfluxDB export failed", "error", err)
			}
		}

		slog.Info("Detect done",
			"stoppages", summary.TotalStoppages,
			"stopped", reports.FormatDuration(summary.TotalStopMinutes),
			"longest", reports.FormatDuration(summary.LongestStopMinutes))
	},
}

// storeLastRun persists the run record; CLI runs and webd share /last.
func storeLastRun(res *api.Result, summary *reports.Summary, quality *reports.Quality) {
	rs, err := state.NewRunState(optDatadir, false)
	if err != nil {
		slog.Error("Failed to open run state", "error", err)
		return
	}
	defer rs.Close()
	rec := &state.RunRecord{
		StartedAt: time.Now().UTC(),
		Took:      res.Took,
		Fixes:     len(res.Fixes),
		Trips:     len(res.Trips),
		Stoppages: len(res.Stoppages),
		Summary:   summary,
		Quality:   quality,
	}
	if err := rs.StoreLastRun(rec); err != nil {
		slog.Error("Failed to store run record", "error", err)
	}
}

func uploadExportS3(key string, res *api.Result) {
	var buf strings.Builder
	if err := export.WriteJSON(&buf, res.Trips, res.Stoppages); err != nil {
		slog.Error("Failed to build S3 export body", "error", err)
		return
	}
	if err := export.UploadS3(key, []byte(buf.String()), "application/json"); err != nil {
		slog.Error("S3 upload failed", "error", err)
	}
}

func init() {
	rootCmd.AddCommand(detectCmd)

	flags := detectCmd.Flags()
	flags.StringVarP(&optDetectInput, "input", "i", "-", "feed path, or - for stdin")
	flags.StringVar(&optDetectFormat, "format", string(feed.FormatCSV), "feed format: csv or ndjson")
	flags.StringSliceVar(&optDetectStrategies, "strategies", nil, "strategies to run: timegap,speed,clustering,hybrid (default all)")
	flags.StringVarP(&optDetectOutput, "output", "o", "-", "results path (.gz for gzip), or - for stdout")
	flags.StringVar(&optDetectExportCSV, "export-csv", "", "also write stoppages CSV to this path")
	flags.StringVar(&optDetectExportGeoJSON, "export-geojson", "", "also write trips+stoppages GeoJSON to this path")
	flags.StringVar(&optDetectS3Key, "s3-key", "", "also upload the JSON document to s3://$AWS_BUCKETNAME/<key>")
	flags.BoolVar(&optDetectInflux, "influxdb", false, "also post stoppages to InfluxDB ($INFLUXDB_URL et al.)")
	flags.BoolVar(&optDetectSample, "sample", false, "run against the built-in sample fleet feed")

	flags.Duration("segmentation-interval", 60*time.Minute, "time gap that splits an asset's record into trips")
	flags.Int("workers", 8, "per-trip detection parallelism")
	cobra.CheckErr(viper.BindPFlag("segmentation-interval", flags.Lookup("segmentation-interval")))
	cobra.CheckErr(viper.BindPFlag("workers", flags.Lookup("workers")))
}
