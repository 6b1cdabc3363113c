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

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"
)

var listCommand = &cli.Command{
	Name:      "list",
	Usage:     "list documentation sets",
	ArgsUsage: " ",
	Description: "List all documentation sets found in the data directories " +
		"along with the number of symbols in each section.",
	Action: func(c *cli.Context) error {
		if c.NArg() != 0 {
			return fmt.Errorf("%w: unexpected arguments: %v", ErrFlagParse, c.Args().Slice())
		}

		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}

		sets, errs := openDocSets(cfg)

		tbl := table.New("Set", "Section", "Label", "Entries").WithWriter(c.App.Writer)
		for _, d := range sets {
			for _, s := range d.Sections() {
				tbl.AddRow(d.Name(), s.Name, s.Label, d.Index(s.Name).Len())
			}
		}
		tbl.Print()

		return reportErrors(c, errs)
	},
}
