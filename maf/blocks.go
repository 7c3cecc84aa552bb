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

// Range is a half-open range [Start, End) of line indexes.
type Range struct {
	Start, End int
}

/*
BlockRanges returns the line ranges of the alignment blocks in lines,
in file order. A block starts at a line for which IsBlockStart holds
and ends right before the next such line. The final block ends at the
index of the last line, so the last line of the input is never part
of a block; in a well-formed MAF file this is the blank line that
terminates the final block.

BlockRanges returns nil if there is no block start line.
*/
func BlockRanges(lines []string) (ranges []Range) {
	start := -1
	for i, line := range lines {
		if IsBlockStart(line) {
			if start >= 0 {
				ranges = append(ranges, Range{start, i})
			}
			start = i
		}
	}
	if start < 0 {
		return nil
	}
	return append(ranges, Range{start, len(lines) - 1})
}

/*
AssembleBlock decodes the sequence lines among lines into a Block.
Lines for which IsSequenceLine does not hold are skipped. A sequence
identity that occurs more than once keeps the last aligned sequence.

firstLine is the 0-based line index of lines[0] in the input, used
for error reporting.
*/
func AssembleBlock(lines []string, firstLine int) (*Block, error) {
	block := NewBlock()
	columns := -1
	for i, line := range lines {
		if !IsSequenceLine(line) {
			continue
		}
		name, seq, err := DecodeLine(line)
		if err != nil {
			err.(*FormatError).Line = firstLine + i + 1
			return nil, err
		}
		if columns < 0 {
			columns = len(seq)
		} else if len(seq) != columns {
			return nil, &FormatError{Line: firstLine + i + 1, Text: line, Err: ErrColumnCount}
		}
		block.Set(name, seq)
	}
	return block, nil
}
