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

package maf

import (
	"sort"

	"github.com/willf/bitset"
)

// Summary accumulates counts over the blocks and records of MAF inputs.
type Summary struct {
	Blocks         int64
	Columns        int64
	GapFreeColumns int64
	// SharedColumns counts the columns in which every record has a base.
	SharedColumns int64
	// Records counts the records per origin.
	Records map[string]int64
	// Bases counts the ungapped bases per origin.
	Bases map[string]int64
	// GapColumns counts the columns in which a record of the origin has a gap.
	GapColumns map[string]int64
}

// NewSummary returns an empty Summary.
func NewSummary() *Summary {
	return &Summary{
		Records:    make(map[string]int64),
		Bases:      make(map[string]int64),
		GapColumns: make(map[string]int64),
	}
}

// AddBlock adds a block and the records that were built from it.
func (s *Summary) AddBlock(block *Block, records []*Record, gap byte) {
	s.Blocks++
	columns := block.Columns()
	s.Columns += int64(columns)
	s.GapFreeColumns += int64(columns) - int64(block.GapColumns(gap).Count())
	if len(records) == 0 {
		return
	}
	gapped := bitset.New(uint(columns))
	originGaps := make(map[string]*bitset.BitSet)
	for _, record := range records {
		s.Records[record.Origin]++
		s.Bases[record.Origin] += record.Stop - record.Start
		mask := record.GapSpans.Mask(columns)
		gapped.InPlaceUnion(mask)
		if gaps, ok := originGaps[record.Origin]; ok {
			gaps.InPlaceUnion(mask)
		} else {
			originGaps[record.Origin] = mask
		}
	}
	s.SharedColumns += int64(columns) - int64(gapped.Count())
	for origin, gaps := range originGaps {
		s.GapColumns[origin] += int64(gaps.Count())
	}
}

// Merge adds the counts of other to s.
func (s *Summary) Merge(other *Summary) {
	s.Blocks += other.Blocks
	s.Columns += other.Columns
	s.GapFreeColumns += other.GapFreeColumns
	s.SharedColumns += other.SharedColumns
	for origin, n := range other.Records {
		s.Records[origin] += n
	}
	for origin, n := range other.Bases {
		s.Bases[origin] += n
	}
	for origin, n := range other.GapColumns {
		s.GapColumns[origin] += n
	}
}

// Origins returns the origins seen so far, sorted.
func (s *Summary) Origins() []string {
	origins := make([]string, 0, len(s.Records))
	for origin := range s.Records {
		origins = append(origins, origin)
	}
	sort.Strings(origins)
	return origins
}
