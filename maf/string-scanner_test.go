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
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exascience/elmaf/utils"
)

func TestDecodeLineForwardStrand(t *testing.T) {
	name, seq, err := DecodeLine("s human.1 100 20 + 1000 ACGTACGTAC--GTACGTACGT")
	require.NoError(t, err)
	assert.Equal(t, "human", *name.Origin)
	assert.Equal(t, "1", name.SeqID)
	assert.Equal(t, int64(100), name.Start)
	assert.Equal(t, int64(120), name.Stop)
	assert.Equal(t, Forward, name.Strand)
	assert.Equal(t, int64(1000), name.CoordLength)
	assert.Equal(t, "ACGTACGTAC--GTACGTACGT", seq)
}

func TestDecodeLineReverseStrand(t *testing.T) {
	name, _, err := DecodeLine("s mouse.X 100 20 - 1000 ACGTACGTACGTACGTACGT")
	require.NoError(t, err)
	assert.Equal(t, int64(880), name.Start)
	assert.Equal(t, int64(900), name.Stop)
	assert.Equal(t, Reverse, name.Strand)
}

func TestDecodeLineForwardIgnoresCoordLength(t *testing.T) {
	for _, coordLength := range []int64{120, 1000, 1 << 40} {
		line := "s human.1 100 20 + " + strconv.FormatInt(coordLength, 10) + " ACGTACGTACGTACGTACGT"
		name, _, err := DecodeLine(line)
		require.NoError(t, err)
		assert.Equal(t, int64(100), name.Start)
		assert.Equal(t, int64(120), name.Stop)
	}
}

func TestDecodeLineSplitsAtFirstDot(t *testing.T) {
	name, _, err := DecodeLine("s canis_familiaris.JH373233.1 0 3\t+   50 A-CG")
	require.NoError(t, err)
	assert.Equal(t, "canis_familiaris", *name.Origin)
	assert.Equal(t, "JH373233.1", name.SeqID)
}

func TestDecodeLineInternsOrigin(t *testing.T) {
	name1, _, err := DecodeLine("s human.1 0 1 + 10 A")
	require.NoError(t, err)
	name2, _, err := DecodeLine("s human.2 0 1 + 10 A")
	require.NoError(t, err)
	assert.True(t, name1.Origin == name2.Origin)
	assert.True(t, name1.Origin == utils.Intern("human"))
}

func TestDecodeLineErrors(t *testing.T) {
	tests := []struct {
		line  string
		cause error
	}{
		{"s human.1 100 20 + 1000", ErrTokenCount},
		{"s human.1 100 20 + 1000 ACGT extra", ErrTokenCount},
		{"s", ErrTokenCount},
		{"s human.1 100 20 * 1000 ACGT", ErrStrand},
		{"s human.1 100 20 ++ 1000 ACGT", ErrStrand},
		{"s human 100 20 + 1000 ACGT", ErrOriginName},
		{"s .1 100 20 + 1000 ACGT", ErrOriginName},
		{"s human. 100 20 + 1000 ACGT", ErrOriginName},
		{"s human.1 990 20 + 1000 ACGT", ErrCoordinates},
		{"s human.1 990 20 - 1000 ACGT", ErrCoordinates},
		{"s human.1 -1 20 + 1000 ACGT", ErrCoordinates},
		{"s human.1 10 0 + 1000 ACGT", ErrCoordinates},
		{"s human.1 9223372036854775807 1 + 100 A", ErrCoordinates},
		{"s human.1 9223372036854775807 1 - 100 A", ErrCoordinates},
		{"s human.1 1 9223372036854775807 + 9223372036854775807 A", ErrCoordinates},
		{"s human.1 0 1 + -5 A", ErrCoordinates},
	}
	for _, test := range tests {
		_, _, err := DecodeLine(test.line)
		var ferr *FormatError
		require.True(t, errors.As(err, &ferr), test.line)
		assert.Equal(t, test.line, ferr.Text)
		assert.True(t, errors.Is(err, test.cause), "%v: %v", test.line, err)
	}
}

func TestDecodeLineNonInteger(t *testing.T) {
	for _, line := range []string{
		"s human.1 1x0 20 + 1000 ACGT",
		"s human.1 100 2.0 + 1000 ACGT",
		"s human.1 100 20 + lots ACGT",
	} {
		_, _, err := DecodeLine(line)
		var ferr *FormatError
		require.True(t, errors.As(err, &ferr), line)
		var nerr *strconv.NumError
		assert.True(t, errors.As(err, &nerr), line)
	}
}

func TestIsSequenceLine(t *testing.T) {
	assert.True(t, IsSequenceLine("s human.1 0 1 + 10 A"))
	assert.False(t, IsSequenceLine("a score=1"))
	assert.False(t, IsSequenceLine(""))
	assert.False(t, IsSequenceLine("i human.1 C 0 C 0"))
	assert.False(t, IsSequenceLine("s ancestral_sequences.Anc1 0 1 + 10 A"))
	long := "s human.1 0 1 + 10 " + string(make([]byte, 100)) + "ancestral"
	assert.True(t, IsSequenceLine(long))
}

func TestFormatErrorMessage(t *testing.T) {
	err := &FormatError{Source: "chr1.maf", Line: 3, Text: "s x", Err: ErrTokenCount}
	assert.Contains(t, err.Error(), "chr1.maf:3")
	assert.Contains(t, err.Error(), ErrTokenCount.Error())
}
