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
	"fmt"
	"strings"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"
)

var queryCommand = &cli.Command{
	Name:        "query",
	Usage:       "search documentation sets",
	ArgsUsage:   "QUERY",
	Description: "Search the symbol indexes of all documentation sets.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "set",
			Usage:   "only search the documentation set named `NAME`",
			Aliases: []string{"s"},
		},
		&cli.StringFlag{
			Name:  "section",
			Usage: "search the section named `NAME` (all, classes, functions, ...)",
		},
		&cli.IntFlag{
			Name:    "limit",
			Usage:   "print at most `N` symbols per documentation set",
			Aliases: []string{"n"},
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("%w: expected one QUERY argument", ErrFlagParse)
		}
		query := c.Args().First()

		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}

		section := cfg.Search.DefaultSection
		if c.IsSet("section") {
			section = c.String("section")
		}
		limit := cfg.Search.DefaultLimit
		if c.IsSet("limit") {
			limit = c.Int("limit")
			if limit < 1 {
				return fmt.Errorf("%w: --limit must be positive", ErrFlagParse)
			}
		}

		sets, errs := openDocSets(cfg)
		for _, d := range sets {
			if name := c.String("set"); name != "" && d.Name() != name {
				continue
			}

			entries, err := d.SearchSection(section, query)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
				continue
			}
			if len(entries) == 0 {
				continue
			}

			fmt.Fprintln(c.App.Writer, d.Name())
			tbl := table.New("Symbol", "Scope", "Link", "Location").WithWriter(c.App.Writer)
			for i, e := range entries {
				if i >= limit {
					break
				}
				for _, t := range e.Targets() {
					tbl.AddRow(t.Label, t.Scope, e.Href(t), strings.Join(e.Breadcrumb(t), " > "))
				}
			}
			tbl.Print()
			if len(entries) > limit {
				fmt.Fprintf(c.App.Writer, "... %d more\n", len(entries)-limit)
			}
			fmt.Fprintln(c.App.Writer)
		}

		return reportErrors(c, errs)
	},
}
