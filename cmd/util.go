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
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/exascience/elmaf/internal"
	"github.com/exascience/elmaf/maf"
	"github.com/exascience/elmaf/utils"
)

// ProgramMessage is printed at startup and at the top of log files.
var ProgramMessage string

func init() {
	ProgramMessage = fmt.Sprint(
		"\n", utils.ProgramName, " version ", utils.ProgramVersion,
		" compiled with ", runtime.Version(),
		" - see ", utils.ProgramURL, " for more information.\n",
	)
}

// HelpMessage lists the help options.
const HelpMessage = "Print command details:\n" +
	"[--help]\n"

// commonFlags are the flags shared by all subcommands.
type commonFlags struct {
	species     string
	gapChar     string
	nrOfThreads int
	logPath     string
	logLevel    string
	timed       bool
	profile     string
}

func (c *commonFlags) register(flags *flag.FlagSet) {
	flags.StringVar(&c.species, "species", "", "comma-separated list of origins to keep (default: all)")
	flags.StringVar(&c.gapChar, "gap-char", string(maf.DefaultGapChar), "gap character of aligned sequences")
	flags.IntVar(&c.nrOfThreads, "nr-of-threads", 0, "number of worker threads (default: all)")
	flags.StringVar(&c.logPath, "log-path", "", "write log files to the specified directory")
	flags.StringVar(&c.logLevel, "log-level", "info", "one of debug, info, warn, error")
	flags.BoolVar(&c.timed, "timed", false, "measure the runtime")
	flags.StringVar(&c.profile, "profile", "", "write a CPU profile to the specified file prefix")
}

const commonFlagsHelp = "[--species origin,origin,...]\n" +
	"[--gap-char c]\n" +
	"[--nr-of-threads n]\n" +
	"[--log-path path]\n" +
	"[--log-level level]\n" +
	"[--timed]\n" +
	"[--profile file]\n"

// parseSpecies splits a comma-separated list of origins, dropping
// empty entries.
func parseSpecies(s string) (species []string) {
	for _, entry := range strings.Split(s, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			species = append(species, entry)
		}
	}
	return species
}

func parseGapChar(s string) (byte, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("invalid --gap-char %q: must be a single character", s)
	}
	return s[0], nil
}

/*
setup applies the common flags: it sets the number of threads, the log
output, and returns the record builder configured by --species and
--gap-char.
*/
func (c *commonFlags) setup() (*maf.RecordBuilder, string, error) {
	if c.nrOfThreads > 0 {
		runtime.GOMAXPROCS(c.nrOfThreads)
	}
	runID, err := setLogOutput(c.logPath, c.logLevel)
	if err != nil {
		return nil, "", err
	}
	gap, err := parseGapChar(c.gapChar)
	if err != nil {
		return nil, "", err
	}
	species := parseSpecies(c.species)
	if len(species) > 0 {
		log.Info("Filtering records", "species", species)
	}
	return maf.NewRecordBuilder(maf.NewFilter(species...), gap), runID, nil
}

func getFilename(s, help string) string {
	switch s {
	case "-h", "--h", "-help", "--help":
		fmt.Fprint(os.Stderr, help)
		os.Exit(0)
	default:
		if strings.HasPrefix(s, "-") {
			fmt.Fprintln(os.Stderr, "Filename(s) in command line missing.")
			fmt.Fprint(os.Stderr, help)
			os.Exit(1)
		}
	}
	return s
}

func parseFlags(flags *flag.FlagSet, requiredArgs int, help string) {
	if len(os.Args) < requiredArgs {
		fmt.Fprintln(os.Stderr, "Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, help)
		os.Exit(1)
	}
	flags.SetOutput(ioutil.Discard)
	if err := flags.Parse(os.Args[requiredArgs:]); err != nil {
		x := 0
		if err != flag.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
			x = 1
		}
		fmt.Fprint(os.Stderr, help)
		os.Exit(x)
	}
	if flags.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "Cannot parse remaining parameters:", flags.Args())
		fmt.Fprint(os.Stderr, help)
		os.Exit(1)
	}
}

func checkExist(parameter, filename string) error {
	if filename == "" {
		return fmt.Errorf("missing filename for command line parameter %v", parameter)
	}
	if _, err := os.Stat(filename); err == nil {
		return nil
	} else if os.IsNotExist(err) {
		return fmt.Errorf("file %v does not exist for command line parameter %v", filename, parameter)
	} else if os.IsPermission(err) {
		return fmt.Errorf("no permission to read file %v for command line parameter %v", filename, parameter)
	} else {
		return fmt.Errorf("%v when trying to access file %v for command line parameter %v", err, filename, parameter)
	}
}

func createLogFilename(runID string) string {
	t := time.Now()
	return fmt.Sprintf("logs/%v/%v-%d-%02d-%02d-%02d-%02d-%02d-%v.log",
		utils.ProgramName, utils.ProgramName,
		t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), runID)
}

/*
setLogOutput creates a log file under path, or under $HOME if path is
empty, and makes the default logger write to both that file and the
original stderr. The file also replaces file descriptor 2, so output
of the Go runtime ends up in the log file as well. It returns the id
of this run, which is part of the log file name.
*/
func setLogOutput(path, level string) (string, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return "", err
	}
	runID := uuid.New().String()
	if path == "" {
		path = os.Getenv("HOME")
	}
	fullPath, err := internal.FullPathname(filepath.Join(path, createLogFilename(runID)))
	if err != nil {
		return "", err
	}
	f, err := internal.FileCreate(fullPath)
	if err != nil {
		return "", err
	}
	fmt.Fprintln(f, ProgramMessage)

	orgStderr, err := unix.Dup(2)
	if err != nil {
		return "", err
	}
	ferr := os.NewFile(uintptr(orgStderr), "/dev/stderr")
	if err := unix.Dup2(int(f.Fd()), 2); err != nil {
		return "", err
	}

	logger := log.NewWithOptions(io.MultiWriter(f, ferr), log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006/01/02 15:04:05",
		Prefix:          utils.ProgramName,
		Level:           lvl,
	})
	log.SetDefault(logger)
	log.Info("Created log file", "path", fullPath, "run", runID)
	log.Debug("Command line", "args", os.Args)
	return runID, nil
}

func timedRun(timed bool, profile, msg string, phase int64, f func() error) error {
	if profile != "" {
		filename := profile + strconv.FormatInt(phase, 10) + ".prof"
		file, err := internal.FileCreate(filename)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := pprof.StartCPUProfile(file); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}
	if timed {
		log.Info(msg)
		start := time.Now()
		defer func() {
			log.Info("Elapsed time", "duration", time.Since(start))
		}()
	}
	return f()
}
