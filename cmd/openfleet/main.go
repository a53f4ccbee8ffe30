// Package main is the entry point for the openfleet CLI.
//
// openfleet keeps a local inventory of OpenStack clusters in sync: it pulls
// hypervisors, instances, volumes and BMC data from each cluster's API,
// reconciles them into a SQLite database and derives cost and utilization
// views on top.
//
// Commands: sync, summary, cost, hardware.
//
// For detailed usage information, run:
//
//	openfleet --help
package main

import (
	"fmt"
	"os"

	"github.com/openfleet/openfleet/cmd/openfleet/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
