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

// elMAF loads multiple alignment format (MAF) files, as distributed
// for example by Ensembl Compara, into normalized per-sequence
// alignment records with forward-strand coordinates and run-length
// encoded gaps.
//
// Please see https://github.com/exascience/elmaf for a documentation
// of the tool, and below (and/or
// https://godoc.org/github.com/ExaScience/elmaf) for the API
// documentation.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/exascience/elmaf/cmd"
)

func printHelp() {
	fmt.Fprintln(os.Stderr, "Available commands: load, coverage, stats")
	fmt.Fprint(os.Stderr, "\n", cmd.LoadHelp)
	fmt.Fprint(os.Stderr, cmd.CoverageHelp)
	fmt.Fprint(os.Stderr, cmd.StatsHelp)
}

func main() {
	fmt.Fprintln(os.Stderr, cmd.ProgramMessage)
	if len(os.Args) < 2 {
		log.Error("Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, cmd.HelpMessage, "\n")
		printHelp()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "load":
		err = cmd.Load()
	case "coverage":
		err = cmd.Coverage()
	case "stats":
		err = cmd.Stats()
	case "help", "-help", "--help", "-h", "--h":
		printHelp()
	default:
		log.Error("Unknown command", "command", os.Args[1])
		printHelp()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}
}
