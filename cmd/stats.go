// elMAF: a tool for loading multiple alignment format (MAF) files.
// Copyright (c) 2021 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/elmaf/blob/master/LICENSE.txt>.

package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/exascience/elmaf/maf"
)

// StatsHelp describes the stats command.
const StatsHelp = "\nstats parameters:\n" +
	"elmaf stats maf-file-or-directory\n" +
	commonFlagsHelp

func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(part) / float64(total)
}

func writeSummary(out io.Writer, files int, summary *maf.Summary) {
	fmt.Fprintf(out, "files\t%v\n", files)
	fmt.Fprintf(out, "blocks\t%v\n", humanize.Comma(summary.Blocks))
	fmt.Fprintf(out, "columns\t%v\n", humanize.Comma(summary.Columns))
	fmt.Fprintf(out, "gap-free columns\t%v (%.2f%%)\n",
		humanize.Comma(summary.GapFreeColumns), percentage(summary.GapFreeColumns, summary.Columns))
	fmt.Fprintf(out, "shared columns\t%v (%.2f%%)\n",
		humanize.Comma(summary.SharedColumns), percentage(summary.SharedColumns, summary.Columns))
	for _, origin := range summary.Origins() {
		fmt.Fprintf(out, "origin %v\t%v records\t%v bases\t%v gap columns\n",
			origin, humanize.Comma(summary.Records[origin]), humanize.Comma(summary.Bases[origin]),
			humanize.Comma(summary.GapColumns[origin]))
	}
}

func runStats(builder *maf.RecordBuilder, filenames []string, out io.Writer) error {
	total := maf.NewSummary()
	if err := builder.LoadFiles(filenames, func(result maf.FileRecords) error {
		total.Merge(result.Summary)
		return nil
	}); err != nil {
		return err
	}
	writeSummary(out, len(filenames), total)
	return nil
}

// Stats implements the elmaf stats command.
func Stats() error {
	var common commonFlags
	var flags flag.FlagSet
	common.register(&flags)
	parseFlags(&flags, 3, StatsHelp)

	input := getFilename(os.Args[2], StatsHelp)

	builder, _, err := common.setup()
	if err != nil {
		return err
	}
	if err := checkExist("", input); err != nil {
		return err
	}
	filenames, err := maf.Filenames(input)
	if err != nil {
		return err
	}
	return timedRun(common.timed, common.profile, "Computing statistics.", 1, func() error {
		return runStats(builder, filenames, os.Stdout)
	})
}
