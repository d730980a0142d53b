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
	"encoding/json"
	"io"
	"log"
	"os"

	"github.com/rotblauer/stopd/api"
	"github.com/rotblauer/stopd/feed"
	"github.com/rotblauer/stopd/reports"
	"github.com/spf13/cobra"
)

var optCompareInput string
var optCompareFormat string

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare detection algorithms over one feed",
	Long: `Runs all four strategies over every trip in the feed and prints
per-algorithm statistics on the raw candidates, before any merge
reconciliation. Useful for tuning parameters against a known fleet.`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		var in io.Reader = os.Stdin
		if optCompareInput != "" && optCompareInput != "-" {
			f, err := os.Open(optCompareInput)
			if err != nil {
				log.Fatalln(err)
			}
			defer f.Close()
			in = f
		}

		fixes, err := feed.Read(in, feed.Format(optCompareFormat))
		if err != nil {
			log.Fatalln(err)
		}

		cfg := detectionConfig()
		d := api.NewDetector(cfg)
		trips := d.SegmentTrips(d.Preprocess(fixes))
		comparison := reports.Compare(trips, cfg)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(comparison); err != nil {
			log.Fatalln(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	flags := compareCmd.Flags()
	flags.StringVarP(&optCompareInput, "input", "i", "-", "feed path, or - for stdin")
	flags.StringVar(&optCompareFormat, "format", string(feed.FormatCSV), "feed format: csv or ndjson")
}
