// Copyright 2024 The enotescan Authors
// This file is part of the enotescan library.
//
// The enotescan library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The enotescan library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the enotescan library. If not, see <http://www.gnu.org/licenses/>.

// Command enotescan is a small CLI front end for the enote-scanning
// engine, in the shape of geth's own cmd/geth: a urfave/cli app whose
// subcommands each wire config, store and scan machine together for a
// specific job, rather than a long-running daemon.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/xmrcore/enotescan/log"
)

var app = &cli.App{
	Name:  "enotescan",
	Usage: "scan a Monero-like ledger for owned enotes and report balances",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to a config.toml overriding the built-in defaults",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "log at DEBUG level instead of INFO",
		},
	},
	Commands: []*cli.Command{
		demoCommand,
		checksumCommand,
	},
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loggerFor(c *cli.Context) log.Logger {
	if c.Bool("verbose") {
		return log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, log.LevelDebug, false))
	}
	return log.New()
}
