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

// Package maf is a library for parsing multiple alignment format (MAF)
// files into normalized, per-sequence alignment records.
//
// A MAF file is a sequence of alignment blocks. Each block starts with
// an "a" line and lists one "s" line per aligned sequence. The library
// splits the input into blocks, decodes the "s" lines of each block
// into a SequenceIdentity and its aligned sequence, converts
// reverse-strand coordinates to forward-strand coordinates, and
// run-length encodes the gaps of each aligned sequence. The result is
// a Record per aligned sequence, tagged with the block and the source
// file it came from.
//
// Blocks are produced lazily by a Reader, so only the current block is
// kept in memory. Several files can be loaded in parallel with
// RecordBuilder.LoadFiles, which uses a pargo pipeline with one
// pipeline item per file, and delivers the records of each file in
// input order.
//
// See http://genome.ucsc.edu/FAQ/FAQformat.html#format5 for the
// format definition.
package maf
