// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rda

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"github.com/woozymasta/pathrules"
	"github.com/woozymasta/rda"
)

// readerFlags are shared entry selection flags.
func readerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name-mode", Value: string(rda.NameModeTrimNull), Usage: "filename decoding: trim_null or raw"},
		&cli.StringFlag{Name: "prefix", Usage: "only entries under this archive directory"},
		&cli.StringSliceFlag{Name: "include", Usage: "include path pattern (repeatable)"},
		&cli.StringSliceFlag{Name: "exclude", Usage: "exclude path pattern (repeatable, applied after includes)"},
		&cli.BoolFlag{Name: "skip-junk", Usage: "drop entries with unusable names"},
	}
}

// readerOptions builds reader options from shared flags.
func readerOptions(c *cli.Context) rda.ReaderOptions {
	opts := rda.ReaderOptions{
		NameMode:         rda.NameMode(c.String("name-mode")),
		EntryPathPrefix:  c.String("prefix"),
		EnableJunkFilter: c.Bool("skip-junk"),
	}

	includes := c.StringSlice("include")
	for _, p := range includes {
		opts.Rules = append(opts.Rules, pathrules.Rule{Action: pathrules.ActionInclude, Pattern: p})
	}
	for _, p := range c.StringSlice("exclude") {
		opts.Rules = append(opts.Rules, pathrules.Rule{Action: pathrules.ActionExclude, Pattern: p})
	}

	if len(opts.Rules) > 0 {
		defaultAction := pathrules.ActionInclude
		if len(includes) > 0 {
			defaultAction = pathrules.ActionExclude
		}

		opts.RuleMatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   defaultAction,
		}
	}

	return opts
}

// requireArgs fails when no positional archive paths were given.
func requireArgs(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("at least one archive path is required")
	}

	return nil
}

func detectCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "detect",
		Usage:     "report whether files are RDA V1.1 archives",
		ArgsUsage: "<file>...",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c); err != nil {
				return err
			}

			for _, path := range c.Args().Slice() {
				ok, err := detectFile(path)
				if err != nil {
					return err
				}

				if !ok {
					fmt.Fprintf(c.App.Writer, "%s\tnot rda\n", path)
					continue
				}

				count, err := rda.ReadFileCount(path)
				if err != nil {
					logger.Warn().Err(err).Str("file", path).Msg("header unreadable")
					fmt.Fprintf(c.App.Writer, "%s\trda (corrupt header)\n", path)
					continue
				}

				fmt.Fprintf(c.App.Writer, "%s\trda\t%d entries\n", path, count)
			}

			return nil
		},
	}
}

// detectFile peeks the file header.
func detectFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	return rda.Detect(bufio.NewReader(f)), nil
}

func listCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "list archive entries",
		ArgsUsage: "<archive>",
		Flags:     readerFlags(),
		Action: func(c *cli.Context) error {
			if err := requireArgs(c); err != nil {
				return err
			}

			path := c.Args().First()
			entries, err := rda.ListEntriesWithOptions(path, readerOptions(c))
			if err != nil {
				return err
			}
			logger.Debug().Str("archive", path).Int("entries", len(entries)).Msg("dictionary listed")

			for _, e := range entries {
				kind := "stored"
				if e.IsCompressed() {
					kind = "zlib"
				}

				fmt.Fprintf(c.App.Writer, "%10d\t%10d\t%s\t%s\t%s\n",
					e.DecompressedSize, e.StoredSize(), kind,
					e.ModTime().Format("2006-01-02 15:04:05"), e.Path)
			}

			return nil
		},
	}
}

func extractCommand(logger *zerolog.Logger) *cli.Command {
	flags := append(readerFlags(),
		&cli.PathFlag{Name: "out", Aliases: []string{"o"}, Usage: "output directory (default <archive>.out)"},
		&cli.IntFlag{Name: "workers", Usage: "parallel extraction workers (0 means GOMAXPROCS)"},
		&cli.BoolFlag{Name: "raw-names", Usage: "keep entry names as stored"},
		&cli.StringFlag{Name: "file-mode", Value: string(rda.ExtractFileModeAuto), Usage: "auto, truncate or create_only"},
	)

	return &cli.Command{
		Name:      "extract",
		Usage:     "extract archive entries to a directory",
		ArgsUsage: "<archive>",
		Flags:     flags,
		Action: func(c *cli.Context) error {
			if err := requireArgs(c); err != nil {
				return err
			}

			path := c.Args().First()
			out := c.Path("out")
			if out == "" {
				out = strings.TrimSuffix(path, filepath.Ext(path)) + ".out"
			}

			r, err := rda.OpenWithOptions(path, readerOptions(c))
			if err != nil {
				return err
			}

			return r.Extract(c.Context, out, rda.ExtractOptions{
				MaxWorkers: c.Int("workers"),
				RawNames:   c.Bool("raw-names"),
				FileMode:   rda.ExtractFileMode(c.String("file-mode")),
				OnEntryDone: func(entry rda.EntryInfo, written int64, outputPath string) {
					logger.Trace().Str("entry", entry.Path).Int64("bytes", written).Str("out", outputPath).Msg("extracted")
				},
			})
		},
	}
}

func verifyCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "decode every entry of archives in memory",
		ArgsUsage: "<archive>...",
		Flags:     readerFlags(),
		Action: func(c *cli.Context) error {
			if err := requireArgs(c); err != nil {
				return err
			}

			sink := rda.NewMemorySink()
			registry := rda.NewRegistry(rda.NewImporter(sink, rda.ImporterOptions{
				Logger: logger,
				Reader: readerOptions(c),
			}))

			var failed int
			for _, path := range c.Args().Slice() {
				files, err := verifyFile(c.Context, registry, sink, path)
				if err != nil {
					failed++
					logger.Error().Err(err).Str("archive", path).Msg("verify failed")
					continue
				}

				fmt.Fprintf(c.App.Writer, "%s\tok\t%d files\n", path, files)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d archives failed", failed, c.NArg())
			}

			return nil
		},
	}
}

// verifyFile imports one archive through registry and returns number of files
// it left in sink. The full path names the archive, so equal base names from
// different directories stay apart.
func verifyFile(ctx context.Context, registry *rda.Registry, sink *rda.MemorySink, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	if _, err := registry.Import(ctx, nil, path, f); err != nil {
		return 0, err
	}

	return len(sink.Files(path)), nil
}
