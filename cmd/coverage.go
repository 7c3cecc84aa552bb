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
	"os"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/exascience/elmaf/intervals"
	"github.com/exascience/elmaf/maf"
)

// CoverageHelp describes the coverage command.
const CoverageHelp = "\ncoverage parameters:\n" +
	"elmaf coverage maf-file-or-directory elsites-file\n" +
	"[--region origin.seqid:start-end]\n" +
	commonFlagsHelp

func runCoverage(builder *maf.RecordBuilder, filenames []string, output string, region *intervals.Region) error {
	coverage := make(map[string][]intervals.Interval)
	if err := builder.LoadFiles(filenames, func(result maf.FileRecords) error {
		intervals.AddRecords(coverage, result.Records)
		return nil
	}); err != nil {
		return err
	}
	intervals.Normalize(coverage)
	if region != nil {
		coverage = region.Restrict(coverage)
		if len(coverage) == 0 {
			log.Warn("Region not covered by any record", "region", region)
		}
	}
	var covered int64
	for _, ivals := range coverage {
		for _, ival := range ivals {
			covered += ival.End - ival.Start
		}
	}
	log.Info("Computed coverage", "sequences", len(coverage), "bases", humanize.Comma(covered))
	return intervals.ToElsitesFile(coverage, output)
}

// Coverage implements the elmaf coverage command.
func Coverage() error {
	var (
		common     commonFlags
		flags      flag.FlagSet
		regionFlag string
	)
	common.register(&flags)
	flags.StringVar(&regionFlag, "region", "", "restrict coverage to origin.seqid:start-end")
	parseFlags(&flags, 4, CoverageHelp)

	input := getFilename(os.Args[2], CoverageHelp)
	output := getFilename(os.Args[3], CoverageHelp)

	var region *intervals.Region
	if regionFlag != "" {
		parsed, err := intervals.ParseRegion(regionFlag)
		if err != nil {
			return err
		}
		region = &parsed
	}

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
	return timedRun(common.timed, common.profile, "Computing coverage.", 1, func() error {
		return runCoverage(builder, filenames, output, region)
	})
}
