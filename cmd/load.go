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
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/exascience/elmaf/internal"
	"github.com/exascience/elmaf/maf"
	"github.com/exascience/elmaf/utils"
)

// LoadHelp describes the load command.
const LoadHelp = "load parameters:\n" +
	"elmaf load maf-file-or-directory records-file\n" +
	commonFlagsHelp +
	"[--progress]\n"

func newProgressBar(total int) (*mpb.Progress, *mpb.Bar) {
	progress := mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
	bar := progress.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("loaded files: ", decor.WC{W: len("loaded files: "), C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
			decor.AverageETA(decor.ET_STYLE_GO),
			decor.OnComplete(decor.Name(""), ". done"),
		),
	)
	return progress, bar
}

func writeRecordsHeader(out *bufio.Writer, runID string, filenames []string) error {
	if _, err := fmt.Fprintf(out, "# %v %v run %v\n", utils.ProgramName, utils.ProgramVersion, runID); err != nil {
		return err
	}
	for _, filename := range filenames {
		if _, err := fmt.Fprintf(out, "# input %v\n", filename); err != nil {
			return err
		}
	}
	_, err := out.WriteString(maf.RecordHeader)
	return err
}

func runLoad(builder *maf.RecordBuilder, runID string, filenames []string, output string, progress bool) (err error) {
	file, err := internal.FileCreate(output)
	if err != nil {
		return err
	}
	defer internal.Close(file, &err)
	out := bufio.NewWriter(file)
	if err = writeRecordsHeader(out, runID, filenames); err != nil {
		return err
	}

	var bar *mpb.Bar
	if progress && len(filenames) > 0 {
		var pbs *mpb.Progress
		pbs, bar = newProgressBar(len(filenames))
		defer pbs.Wait()
	}

	var nofRecords int64
	buf := internal.ReserveByteBuffer()
	defer func() { internal.ReleaseByteBuffer(buf) }()
	err = builder.LoadFiles(filenames, func(result maf.FileRecords) error {
		for _, record := range result.Records {
			buf = record.Format(buf[:0])
			if _, err := out.Write(buf); err != nil {
				return err
			}
		}
		nofRecords += int64(len(result.Records))
		log.Debug("Loaded MAF file", "source", result.Source, "blocks", result.Blocks, "records", len(result.Records))
		if bar != nil {
			bar.Increment()
		}
		return nil
	})
	if bar != nil && err != nil {
		bar.Abort(false)
	}
	if err != nil {
		return err
	}
	log.Info("Wrote records", "file", output, "records", humanize.Comma(nofRecords), "files", len(filenames))
	return out.Flush()
}

// Load implements the elmaf load command.
func Load() error {
	var (
		common   commonFlags
		progress bool
	)
	var flags flag.FlagSet
	common.register(&flags)
	flags.BoolVar(&progress, "progress", false, "show a progress bar")
	parseFlags(&flags, 4, LoadHelp)

	input := getFilename(os.Args[2], LoadHelp)
	output := getFilename(os.Args[3], LoadHelp)

	builder, runID, err := common.setup()
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
	if len(filenames) == 0 {
		log.Warn("No MAF files found", "input", input)
	}
	return timedRun(common.timed, common.profile, "Loading MAF files.", 1, func() error {
		return runLoad(builder, runID, filenames, output, progress)
	})
}
