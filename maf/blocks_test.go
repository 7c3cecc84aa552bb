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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exascience/elmaf/utils"
)

const twoBlocks = `##maf version=1 scoring=none
# comment

a score=1
s human.1 10 4 + 100 AC-GT
s ancestral_sequences.Anc1 0 4 + 50 ACG-T

a score=2
s human.1 20 3 - 100 A--CG
s ancestral_sequences.Anc1 10 3 + 50 A-C-G

`

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func TestBlockRanges(t *testing.T) {
	lines := splitLines(twoBlocks)
	require.Len(t, lines, 11)
	assert.Equal(t, []Range{{3, 7}, {7, 10}}, BlockRanges(lines))
}

func TestBlockRangesNoMarker(t *testing.T) {
	assert.Empty(t, BlockRanges(nil))
	assert.Empty(t, BlockRanges([]string{"##maf version=1", "", "s human.1 0 1 + 10 A"}))
}

func TestBlockRangesFinalBlockExcludesLastLine(t *testing.T) {
	// no blank line after the final block
	lines := []string{"a score=1", "s human.1 0 1 + 10 A", "s mouse.1 0 1 + 10 A"}
	assert.Equal(t, []Range{{0, 2}}, BlockRanges(lines))
	block, err := AssembleBlock(lines[0:2], 0)
	require.NoError(t, err)
	assert.Equal(t, 1, block.Len())

	assert.Equal(t, []Range{{0, 1}, {1, 1}}, BlockRanges([]string{"a", "a"}))
}

func TestAssembleBlock(t *testing.T) {
	lines := []string{
		"a score=0",
		"s human.1 0 3 + 10 AC-G",
		"i human.1 N 0 C 0",
		"s mouse.2 0 4 - 10 ACGT",
		"e rat.1 0 10 + 100 I",
		"",
	}
	block, err := AssembleBlock(lines, 0)
	require.NoError(t, err)
	require.Equal(t, 2, block.Len())
	assert.Equal(t, 4, block.Columns())
	assert.Equal(t, "human", *block.Entries[0].Name.Origin)
	assert.Equal(t, "mouse", *block.Entries[1].Name.Origin)
	assert.Equal(t, int64(6), block.Entries[1].Name.Start)
	assert.Equal(t, uint(1), block.GapColumns(DefaultGapChar).Count())
}

func TestAssembleBlockLastWriteWins(t *testing.T) {
	lines := []string{
		"a",
		"s human.1 0 3 + 10 ACG",
		"s mouse.1 0 3 + 10 TTT",
		"s human.1 0 3 + 10 GGG",
	}
	block, err := AssembleBlock(lines, 0)
	require.NoError(t, err)
	require.Equal(t, 2, block.Len())
	name := SequenceIdentity{Origin: utils.Intern("human"), SeqID: "1", Start: 0, Stop: 3, Strand: Forward, CoordLength: 10}
	seq, found := block.Get(name)
	assert.True(t, found)
	assert.Equal(t, "GGG", seq)
	assert.Equal(t, name, block.Entries[0].Name)
}

func TestAssembleBlockErrors(t *testing.T) {
	_, err := AssembleBlock([]string{"a", "s human.1 0 3 + 10 ACG", "s mouse.1 0 x + 10 TTT"}, 40)
	var ferr *FormatError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, 43, ferr.Line)

	_, err = AssembleBlock([]string{"a", "s human.1 0 3 + 10 ACG", "s mouse.1 0 3 + 10 TT-T"}, 0)
	assert.True(t, errors.Is(err, ErrColumnCount))
}

func readAll(t *testing.T, input string) (blocks []*Block, err error) {
	reader := NewReader(strings.NewReader(input))
	for i := 0; reader.Next(); i++ {
		require.Equal(t, i, reader.Index())
		blocks = append(blocks, reader.Block())
	}
	return blocks, reader.Err()
}

func TestReaderMatchesBlockRanges(t *testing.T) {
	inputs := []string{
		twoBlocks,
		"",
		"##maf\n",
		"a\n",
		"a\na\n",
		"a\ns human.1 0 1 + 10 A\ns mouse.1 0 1 + 10 A",
		"a\ns human.1 0 1 + 10 A\ns mouse.1 0 1 + 10 A\n",
		"a\r\ns human.1 0 1 + 10 A\r\n\r\na\r\ns mouse.1 0 1 + 10 C\r\n\r\n",
		"junk\na\ns human.1 0 1 + 10 A\n\n\na\ns mouse.1 0 1 + 10 A\n\n",
	}
	for _, input := range inputs {
		lines := splitLines(strings.ReplaceAll(input, "\r", ""))
		var expected []*Block
		for _, r := range BlockRanges(lines) {
			block, err := AssembleBlock(lines[r.Start:r.End], r.Start)
			require.NoError(t, err)
			expected = append(expected, block)
		}
		blocks, err := readAll(t, input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, blocks, input)
	}
}

func TestReaderStopsAtFormatError(t *testing.T) {
	input := "a\ns human.1 0 1 + 10 A\n\na\ns mouse 0 1 + 10 A\n\na\ns rat.1 0 1 + 10 A\n\n"
	blocks, err := readAll(t, input)
	assert.Len(t, blocks, 1)
	var ferr *FormatError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, 5, ferr.Line)
	assert.True(t, errors.Is(err, ErrOriginName))
}
