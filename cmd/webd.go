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
	"log"
	"log/slog"

	"github.com/rotblauer/stopd/daemon/webd"
	"github.com/rotblauer/stopd/params"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var optHTTPAddr string

// webdCmd represents the serve command
var webdCmd = &cobra.Command{
	Use:   "webd",
	Short: "Start the webserver",
	Long: `Serves stoppage detection over HTTP.

POST a feed to /detect and get trips, stoppages, and aggregates back.
GET /last replays the most recent run record; POST /compare judges the
algorithms against each other. Completed runs are broadcast to
websocket clients connected at /socket. Set STOPD_TOKEN to require a
token on mutating routes.`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		slog.Info("webd.Run")
		server, err := webd.NewWebDaemon(&params.WebDaemonConfig{
			DataDir: optDatadir,
			ListenerConfig: params.ListenerConfig{
				Address: optHTTPAddr,
				Network: "tcp",
			},
			Detection: detectionConfig(),
		})
		if err != nil {
			log.Fatalln(err)
		}

		if err := server.Run(); err != nil {
			log.Fatalln(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(webdCmd)

	defaults := params.DefaultWebDaemonConfig()

	pFlags := webdCmd.PersistentFlags()
	pFlags.AddFlagSet(&pflag.FlagSet{})
	pFlags.StringVar(&optHTTPAddr, "address", defaults.Address, "HTTP address to listen on")
}
