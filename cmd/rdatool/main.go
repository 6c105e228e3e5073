// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rda

// Command rdatool inspects and unpacks RDA V1.1 resource archives.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger().
		Level(zerolog.InfoLevel)

	app := &cli.App{
		Name:  "rdatool",
		Usage: "inspect and unpack RDA V1.1 resource archives",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable trace logging"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				logger = logger.Level(zerolog.TraceLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			detectCommand(&logger),
			listCommand(&logger),
			extractCommand(&logger),
			verifyCommand(&logger),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("rdatool failed")
		os.Exit(1)
	}
}
