// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-docsearch"
	"github.com/ianlewis/go-docsearch/internal/config"
	"github.com/ianlewis/go-docsearch/internal/logger"
)

const (
	// ExitCodeSuccess is successful error code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is the exit code for a flag parsing error.
	ExitCodeFlagParseError

	// ExitCodeUnknownError is the exit code for an unknown error.
	ExitCodeUnknownError
)

// ErrDocsearch is a parent error for all command errors.
var ErrDocsearch = errors.New("docsearch")

// ErrFlagParse is a flag parsing error.
var ErrFlagParse = fmt.Errorf("%w: parsing flags", ErrDocsearch)

// ErrOpen indicates that one or more documentation sets failed to open.
var ErrOpen = fmt.Errorf("%w: opening documentation sets", ErrDocsearch)

var copyrightNames = []string{
	"2025 Ian Lewis",
}

//nolint:gochecknoinits // init needed needed for global variable.
func init() {
	// Set the HelpFlag to a random name so that it isn't used. `cli` handles
	// the flag with the root command such that it takes a command name argument
	// but we want `--help` to print the app help.
	//
	// This flag is hidden by the help output.
	// See: github.com/urfave/cli/issues/1809
	cli.HelpFlag = &cli.BoolFlag{
		// NOTE: Use a random name no one would guess.
		Name:               "d41d8cd98f00b204e980",
		DisableDefaultText: true,
	}
}

// check checks the error and panics if not nil.
func check(err error) {
	if err != nil {
		panic(err)
	}
}

// loadConfig loads the config file named by the --config flag and applies
// command line overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("data-dir") || len(cfg.Search.DataDirs) == 0 {
		cfg.Search.DataDirs = c.StringSlice("data-dir")
	}
	if c.IsSet("match") {
		cfg.Search.Match = c.String("match")
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFlagParse, err)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, c.App.ErrWriter)
	return cfg, nil
}

// openDocSets opens every documentation set found under the configured data
// directories.
func openDocSets(cfg *config.Config) ([]*docsearch.DocSet, []error) {
	match, err := cfg.Search.MatchMode()
	if err != nil {
		return nil, []error{err}
	}
	opts := &docsearch.Options{
		Match: match,
	}

	var sets []*docsearch.DocSet
	var errs []error
	for _, path := range cfg.Search.DataDirs {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			logger.WithComponent("cli").Debug("skipping missing data directory", "path", path)
			continue
		}

		openSets, openErrs := docsearch.OpenAll(path, opts)

		sets = append(sets, openSets...)
		errs = append(errs, openErrs...)
	}

	return sets, errs
}

// reportErrors prints open errors and returns ErrOpen if there were any.
func reportErrors(c *cli.Context, errs []error) error {
	for _, err := range errs {
		fmt.Fprintln(c.App.ErrWriter, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %d errors", ErrOpen, len(errs))
	}
	return nil
}

func newDocsearchApp() *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "Search generated API documentation symbol indexes.",
		Description: strings.Join([]string{
			"Symbol search for generated documentation sets written in Go.",
			"http://github.com/ianlewis/go-docsearch",
		}, "\n"),
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "data-dir",
				Usage:   "include documentation sets in `DIR`",
				Aliases: []string{"d"},
				Value:   cli.NewStringSlice(docLocations()...),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "read configuration from `FILE`",
				Aliases: []string{"c"},
				EnvVars: []string{config.EnvPrefix + "CONFIG"},
			},
			&cli.StringFlag{
				Name:    "match",
				Usage:   "match symbols by `MODE` (substring, prefix, exact)",
				Aliases: []string{"m"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log at `LEVEL` (debug, info, warn, error)",
			},

			// Special flags are shown at the end.
			&cli.BoolFlag{
				Name:               "help",
				Usage:              "print this help text and exit",
				Aliases:            []string{"h"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "version",
				Usage:              "print version information and exit",
				Aliases:            []string{"V"},
				DisableDefaultText: true,
			},
		},
		Copyright:       strings.Join(copyrightNames, "\n"),
		HideHelp:        true,
		HideHelpCommand: true,
		OnUsageError: func(_ *cli.Context, err error, _ bool) error {
			return fmt.Errorf("%w: %w", ErrFlagParse, err)
		},
		Action: func(c *cli.Context) error {
			if c.Bool("version") {
				return printVersion(c)
			}

			check(cli.ShowAppHelp(c))
			return nil
		},
		Commands: []*cli.Command{
			listCommand,
			queryCommand,
			serveCommand,
		},
	}
}
