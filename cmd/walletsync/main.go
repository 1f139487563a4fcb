// Package main is the entry point for the walletsync CLI.
package main

import (
	"os"

	"github.com/mrz1836/walletsync/internal/cli"
)

// Set via ldflags at release time.
//
//nolint:gochecknoglobals // build metadata
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	cli.SetBuildInfo(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
