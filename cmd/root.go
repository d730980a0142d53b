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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rotblauer/stopd/params"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var optDatadir string
var optVerbosity int

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stopd",
	Short: "Vehicle stoppage detection from GPS fix feeds",
	Long: `stopd reads GPS fix feeds (CSV or NDJSON), segments them into
per-asset trips, and hunts stoppages with four algorithms:
time-gap, speed-threshold, spatial clustering, and a hybrid
re-scorer. Overlapping findings are reconciled per trip.

Results go to stdout, to flat (optionally gzipped) files, to S3,
to InfluxDB, or over HTTP via the webd daemon.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.stopd.yaml)")
	rootCmd.PersistentFlags().StringVar(&optDatadir, "datadir", params.DatadirRoot, "data directory for run state and exports")
	rootCmd.PersistentFlags().IntVarP(&optVerbosity, "verbosity", "v", 0, "log verbosity (0=info, 1=debug, negative=quieter)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".stopd" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(filepath.Join(home, ".stopd"))
		viper.SetConfigType("yaml")
		viper.SetConfigName(".stopd")
	}

	viper.SetEnvPrefix("STOPD")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaultSlog installs the process logger at the flagged verbosity.
// Debug level adds source attribution.
func setDefaultSlog(cmd *cobra.Command, args []string) {
	level := slog.LevelInfo - slog.Level(optVerbosity*4)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	})))
}

// detectionConfig resolves the run configuration: defaults, then config
// file and env via viper, then explicit flags (bound by the commands).
func detectionConfig() *params.DetectionConfig {
	cfg := params.DefaultDetectionConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		slog.Warn("Failed to unmarshal config, using defaults", "error", err)
		return params.DefaultDetectionConfig()
	}
	return cfg
}
