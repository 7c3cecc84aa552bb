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
	"strconv"

	"github.com/willf/bitset"

	"github.com/exascience/elmaf/utils"
)

// Strand is the strand an aligned sequence was reported on.
type Strand byte

// Strand values.
const (
	Forward Strand = '+'
	Reverse Strand = '-'
)

func (s Strand) String() string {
	return string(s)
}

// Valid reports whether s is either Forward or Reverse.
func (s Strand) Valid() bool {
	return s == Forward || s == Reverse
}

/*
SequenceIdentity identifies one aligned sequence in a block.

Start and Stop form a half-open interval in forward-strand
coordinates, regardless of Strand: 0 <= Start < Stop <= CoordLength.
Origin is interned, so SequenceIdentity values can be compared with ==
and used as map keys.
*/
type SequenceIdentity struct {
	Origin      utils.Symbol
	SeqID       string
	Start, Stop int64
	Strand      Strand
	CoordLength int64
}

// BlockEntry is one aligned sequence of a Block.
type BlockEntry struct {
	Name SequenceIdentity
	Seq  string
}

/*
Block maps sequence identities onto aligned sequences, in the order in
which they were first added. All aligned sequences of a block have the
same length, the number of alignment columns.
*/
type Block struct {
	Entries []BlockEntry
	index   map[SequenceIdentity]int
}

// NewBlock allocates and initializes a new, empty Block.
func NewBlock() *Block {
	return &Block{index: make(map[SequenceIdentity]int)}
}

/*
Set associates name with seq. If name is already present, its
sequence is replaced in place, so the entry keeps its original
position.
*/
func (block *Block) Set(name SequenceIdentity, seq string) {
	if i, found := block.index[name]; found {
		block.Entries[i].Seq = seq
		return
	}
	block.index[name] = len(block.Entries)
	block.Entries = append(block.Entries, BlockEntry{Name: name, Seq: seq})
}

// Get returns the aligned sequence for name.
func (block *Block) Get(name SequenceIdentity) (seq string, found bool) {
	if i, ok := block.index[name]; ok {
		return block.Entries[i].Seq, true
	}
	return "", false
}

// Len returns the number of entries.
func (block *Block) Len() int {
	return len(block.Entries)
}

// Columns returns the number of alignment columns, or 0 for an empty block.
func (block *Block) Columns() int {
	if len(block.Entries) == 0 {
		return 0
	}
	return len(block.Entries[0].Seq)
}

/*
GapColumns returns the set of alignment columns in which at least one
of the aligned sequences has a gap.
*/
func (block *Block) GapColumns(gap byte) *bitset.BitSet {
	columns := bitset.New(uint(block.Columns()))
	for _, entry := range block.Entries {
		seq := entry.Seq
		for i := 0; i < len(seq); i++ {
			if seq[i] == gap {
				columns.Set(uint(i))
			}
		}
	}
	return columns
}

// GapRun is a run of Length consecutive gaps, placed before the
// ungapped sequence position Pos.
type GapRun struct {
	Pos, Length int32
}

// GapRuns is an ordered list of gap runs with strictly increasing positions.
type GapRuns []GapRun

// Total returns the total number of gap characters in runs.
func (runs GapRuns) Total() (total int) {
	for _, run := range runs {
		total += int(run.Length)
	}
	return total
}

/*
Check verifies that runs can belong to an ungapped sequence of length
seqLen: lengths are positive, and positions are strictly increasing
and at most seqLen.
*/
func (runs GapRuns) Check(seqLen int) error {
	for i, run := range runs {
		if run.Length < 1 {
			return &RecordError{"gap_spans", "run of length " + strconv.Itoa(int(run.Length))}
		}
		if run.Pos < 0 || int(run.Pos) > seqLen || (i > 0 && run.Pos <= runs[i-1].Pos) {
			return &RecordError{"gap_spans", "positions out of order or out of range"}
		}
	}
	return nil
}

/*
Mask returns the set of alignment columns covered by runs, for an
aligned sequence of the given number of columns. Runs are expected to
pass Check.
*/
func (runs GapRuns) Mask(columns int) *bitset.BitSet {
	mask := bitset.New(uint(columns))
	shift := 0
	for _, run := range runs {
		column := int(run.Pos) + shift
		for i := 0; i < int(run.Length); i++ {
			mask.Set(uint(column + i))
		}
		shift += int(run.Length)
	}
	return mask
}

// Format appends the pos:length,pos:length representation of runs to
// out, or "." if there are no runs.
func (runs GapRuns) Format(out []byte) []byte {
	if len(runs) == 0 {
		return append(out, '.')
	}
	for i, run := range runs {
		if i > 0 {
			out = append(out, ',')
		}
		out = strconv.AppendInt(out, int64(run.Pos), 10)
		out = append(out, ':')
		out = strconv.AppendInt(out, int64(run.Length), 10)
	}
	return out
}

func (runs GapRuns) String() string {
	return string(runs.Format(nil))
}

/*
A Record is the normalized representation of one aligned sequence of
one block: the coordinates of the sequence, its ungapped bases, and
the gaps that were removed from it.
*/
type Record struct {
	// BlockID is Source-index, where index is the zero-based block
	// number in the source.
	BlockID  string
	Source   string
	Origin   string
	SeqID    string
	Start    int64
	Stop     int64
	Strand   Strand
	GapSpans GapRuns
	Seq      string
}

/*
NewRecord returns a Record for the given sequence identity, after
checking that all fields are present and consistent: Stop - Start must
equal the length of seq, and gapSpans must have strictly increasing
positions and positive lengths.
*/
func NewRecord(blockID, source string, name SequenceIdentity, seq string, gapSpans GapRuns) (*Record, error) {
	switch {
	case blockID == "":
		return nil, &RecordError{"block_id", "missing"}
	case source == "":
		return nil, &RecordError{"source", "missing"}
	case name.Origin == nil || *name.Origin == "":
		return nil, &RecordError{"origin", "missing"}
	case name.SeqID == "":
		return nil, &RecordError{"seqid", "missing"}
	case !name.Strand.Valid():
		return nil, &RecordError{"strand", "must be + or -"}
	case name.Start < 0 || name.Start >= name.Stop:
		return nil, &RecordError{"start", "must be non-negative and smaller than stop"}
	case name.Stop-name.Start != int64(len(seq)):
		return nil, &RecordError{"seq", "length " + strconv.Itoa(len(seq)) + " differs from stop - start " + strconv.FormatInt(name.Stop-name.Start, 10)}
	}
	if err := gapSpans.Check(len(seq)); err != nil {
		return nil, err
	}
	return &Record{
		BlockID:  blockID,
		Source:   source,
		Origin:   *name.Origin,
		SeqID:    name.SeqID,
		Start:    name.Start,
		Stop:     name.Stop,
		Strand:   name.Strand,
		GapSpans: gapSpans,
		Seq:      seq,
	}, nil
}

// Columns returns the number of alignment columns of the block the
// record was taken from.
func (rec *Record) Columns() int {
	return len(rec.Seq) + rec.GapSpans.Total()
}

// Gapped reconstitutes the aligned sequence of the record.
func (rec *Record) Gapped(gap byte) (string, error) {
	return DecodeGaps(rec.Seq, rec.GapSpans, gap)
}

// RecordHeader lists the columns written by Record.Format.
const RecordHeader = "#block_id\tsource\torigin\tseqid\tstart\tstop\tstrand\tgap_spans\tseq\n"

// Format appends a tab-separated line representing rec to out.
func (rec *Record) Format(out []byte) []byte {
	out = append(append(out, rec.BlockID...), '\t')
	out = append(append(out, rec.Source...), '\t')
	out = append(append(out, rec.Origin...), '\t')
	out = append(append(out, rec.SeqID...), '\t')
	out = append(strconv.AppendInt(out, rec.Start, 10), '\t')
	out = append(strconv.AppendInt(out, rec.Stop, 10), '\t')
	out = append(out, byte(rec.Strand), '\t')
	out = append(rec.GapSpans.Format(out), '\t')
	out = append(out, rec.Seq...)
	return append(out, '\n')
}
