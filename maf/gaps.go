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

import "strings"

// DefaultGapChar is the gap character of MAF aligned sequences.
const DefaultGapChar = '-'

/*
EncodeGaps removes the gap characters from aligned, and returns the
remaining sequence together with the run-length encoding of the
removed gaps. Each run is placed at the number of non-gap characters
that precede it, so consecutive gaps collapse into a single run.

If aligned contains no gap, EncodeGaps returns aligned itself and no
runs.
*/
func EncodeGaps(aligned string, gap byte) (string, GapRuns) {
	if strings.IndexByte(aligned, gap) < 0 {
		return aligned, nil
	}
	seq := make([]byte, 0, len(aligned))
	var runs GapRuns
	var pos, length int32
	for i := 0; i < len(aligned); i++ {
		if c := aligned[i]; c == gap {
			length++
		} else {
			if length > 0 {
				runs = append(runs, GapRun{Pos: pos, Length: length})
				length = 0
			}
			seq = append(seq, c)
			pos++
		}
	}
	if length > 0 {
		runs = append(runs, GapRun{Pos: pos, Length: length})
	}
	return string(seq), runs
}

/*
DecodeGaps is the inverse of EncodeGaps. It returns a *RecordError if
runs do not pass GapRuns.Check for seq.
*/
func DecodeGaps(seq string, runs GapRuns, gap byte) (string, error) {
	if len(runs) == 0 {
		return seq, nil
	}
	if err := runs.Check(len(seq)); err != nil {
		return "", err
	}
	var out strings.Builder
	out.Grow(len(seq) + runs.Total())
	pos := 0
	for _, run := range runs {
		out.WriteString(seq[pos:int(run.Pos)])
		for i := int32(0); i < run.Length; i++ {
			out.WriteByte(gap)
		}
		pos = int(run.Pos)
	}
	out.WriteString(seq[pos:])
	return out.String(), nil
}
