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
	"strings"

	"github.com/exascience/elmaf/utils"
)

/*
A StringScanner scans/parses ASCII strings representing lines in MAF
files. Fields are separated by runs of whitespace.

The zero StringScanner is valid and empty.
*/
type StringScanner struct {
	index int
	data  string
	err   error
}

// Err returns the error that occurred during scanning/parsing.
func (sc *StringScanner) Err() error {
	return sc.err
}

// Reset resets the scanner, and initializes it with the given string.
func (sc *StringScanner) Reset(s string) {
	sc.index = 0
	sc.data = s
	sc.err = nil
}

/*
Len returns the number of ASCII characters that still need to be
scanned/parsed, ignoring leading whitespace. Returns 0 if Err() would
return a non-nil value.
*/
func (sc *StringScanner) Len() int {
	if sc.err != nil {
		return 0
	}
	sc.skipSpace()
	return len(sc.data) - sc.index
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func (sc *StringScanner) skipSpace() {
	for sc.index < len(sc.data) && isSpace(sc.data[sc.index]) {
		sc.index++
	}
}

func (sc *StringScanner) readField() (s string, found bool) {
	if sc.err != nil {
		return "", false
	}
	sc.skipSpace()
	start := sc.index
	for sc.index < len(sc.data) && !isSpace(sc.data[sc.index]) {
		sc.index++
	}
	return sc.data[start:sc.index], sc.index > start
}

func (sc *StringScanner) doString() string {
	value, ok := sc.readField()
	if !ok && sc.err == nil {
		sc.err = ErrTokenCount
	}
	return value
}

func (sc *StringScanner) doInt64() int64 {
	if sc.err != nil {
		return 0
	}
	value, err := strconv.ParseInt(sc.doString(), 10, 64)
	if (err != nil) && (sc.err == nil) {
		sc.err = err
	}
	return value
}

func (sc *StringScanner) doStrand() Strand {
	value := sc.doString()
	if sc.err != nil {
		return 0
	}
	if len(value) != 1 || !Strand(value[0]).Valid() {
		sc.err = ErrStrand
		return 0
	}
	return Strand(value[0])
}

/*
ParseSequenceLine parses a MAF "s" line of the form

	s origin.seqid start size strand srcSize alignedSequence

The source name is split at its first dot, so seqid may contain
further dots. For the reverse strand, start is given relative to the
end of the source sequence in the file, and is converted here to a
forward-strand start of srcSize - (start + size). The resulting
interval is [start, start+size).
*/
func (sc *StringScanner) ParseSequenceLine() (name SequenceIdentity, seq string) {
	sc.doString() // line marker
	src := sc.doString()
	start := sc.doInt64()
	size := sc.doInt64()
	strand := sc.doStrand()
	coordLength := sc.doInt64()
	seq = sc.doString()
	if sc.err != nil {
		return SequenceIdentity{}, ""
	}
	if sc.Len() > 0 {
		sc.err = ErrTokenCount
		return SequenceIdentity{}, ""
	}
	dot := strings.IndexByte(src, '.')
	if dot <= 0 || dot == len(src)-1 {
		sc.err = ErrOriginName
		return SequenceIdentity{}, ""
	}
	// checked without computing start+size, which may overflow
	if start < 0 || size <= 0 || start > coordLength || size > coordLength-start {
		sc.err = ErrCoordinates
		return SequenceIdentity{}, ""
	}
	if strand == Reverse {
		start = coordLength - (start + size)
	}
	stop := start + size
	return SequenceIdentity{
		Origin:      utils.Intern(src[:dot]),
		SeqID:       src[dot+1:],
		Start:       start,
		Stop:        stop,
		Strand:      strand,
		CoordLength: coordLength,
	}, seq
}

// DecodeLine parses a MAF "s" line. Errors are reported as a *FormatError.
func DecodeLine(line string) (SequenceIdentity, string, error) {
	var sc StringScanner
	sc.Reset(line)
	name, seq := sc.ParseSequenceLine()
	if err := sc.Err(); err != nil {
		return name, seq, &FormatError{Text: line, Err: err}
	}
	return name, seq, nil
}

// IsBlockStart reports whether line starts an alignment block.
func IsBlockStart(line string) bool {
	return len(line) > 0 && line[0] == 'a'
}

// ancestralWindow is the prefix of a line searched for the ancestral marker.
const ancestralWindow = 100

/*
IsSequenceLine reports whether line is an "s" line that is not an
ancestral-repeat annotation. Annotation lines mention "ancestral" in
their first 100 characters.
*/
func IsSequenceLine(line string) bool {
	if len(line) == 0 || line[0] != 's' {
		return false
	}
	prefix := line
	if len(prefix) > ancestralWindow {
		prefix = prefix[:ancestralWindow]
	}
	return !strings.Contains(prefix, "ancestral")
}
