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
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/exascience/pargo/pipeline"

	"github.com/exascience/elmaf/internal"
	"github.com/exascience/elmaf/utils"
)

/*
Filter is an immutable set of allowed origins. The zero Filter allows
all origins.
*/
type Filter struct {
	origins map[utils.Symbol]struct{}
}

// NewFilter returns a Filter that allows the given origins, or all
// origins if none are given.
func NewFilter(origins ...string) Filter {
	if len(origins) == 0 {
		return Filter{}
	}
	set := make(map[utils.Symbol]struct{}, len(origins))
	for _, origin := range origins {
		set[utils.Intern(origin)] = struct{}{}
	}
	return Filter{origins: set}
}

// Allows reports whether records for origin pass the filter.
func (f Filter) Allows(origin utils.Symbol) bool {
	if len(f.origins) == 0 {
		return true
	}
	_, found := f.origins[origin]
	return found
}

// Origins returns the number of origins in the filter, 0 meaning all.
func (f Filter) Origins() int {
	return len(f.origins)
}

// A RecordBuilder turns MAF blocks into Records.
type RecordBuilder struct {
	filter Filter
	gap    byte
}

// NewRecordBuilder returns a RecordBuilder that keeps the records
// allowed by filter, and removes gap characters from their sequences.
func NewRecordBuilder(filter Filter, gap byte) *RecordBuilder {
	return &RecordBuilder{filter: filter, gap: gap}
}

// BlockID returns the identifier of the block with the given index in source.
func BlockID(source string, index int) string {
	return source + "-" + strconv.Itoa(index)
}

/*
BlockRecords returns the records for the entries of block whose origin
is allowed, in block order.
*/
func (rb *RecordBuilder) BlockRecords(source string, index int, block *Block) ([]*Record, error) {
	blockID := BlockID(source, index)
	records := make([]*Record, 0, block.Len())
	for _, entry := range block.Entries {
		if !rb.filter.Allows(entry.Name.Origin) {
			continue
		}
		seq, gapSpans := EncodeGaps(entry.Seq, rb.gap)
		record, err := NewRecord(blockID, source, entry.Name, seq, gapSpans)
		if err != nil {
			return nil, fmt.Errorf("%w, in block %v", err, blockID)
		}
		records = append(records, record)
	}
	return records, nil
}

/*
Build reads the MAF input r block by block, and passes the records of
each block to emit, in file order. It returns the number of blocks
read. Reading stops at the first error, either from parsing or from
emit.
*/
func (rb *RecordBuilder) Build(source string, r io.Reader, emit func(block *Block, records []*Record) error) (blocks int, err error) {
	reader := NewReader(r)
	for reader.Next() {
		block := reader.Block()
		records, err := rb.BlockRecords(source, reader.Index(), block)
		if err != nil {
			return blocks, err
		}
		blocks++
		if err := emit(block, records); err != nil {
			return blocks, err
		}
	}
	return blocks, withSource(reader.Err(), source)
}

// Load returns all records of the MAF input r.
func (rb *RecordBuilder) Load(source string, r io.Reader) (records []*Record, err error) {
	_, err = rb.Build(source, r, func(_ *Block, blockRecords []*Record) error {
		records = append(records, blockRecords...)
		return nil
	})
	return records, err
}

// FileRecords holds the records loaded from one MAF file.
type FileRecords struct {
	Filename string
	Source   string
	Blocks   int
	Records  []*Record
	Summary  *Summary
}

// Source returns the source identifier for a MAF file: its base name.
func Source(filename string) string {
	return filepath.Base(filename)
}

// LoadFile loads all records of the named MAF file.
func (rb *RecordBuilder) LoadFile(filename string) (result FileRecords, err error) {
	input, err := Open(filename)
	if err != nil {
		return result, err
	}
	defer func() {
		if nerr := input.Close(); err == nil {
			err = nerr
		}
	}()
	result.Filename = filename
	result.Source = Source(filename)
	result.Summary = NewSummary()
	result.Blocks, err = rb.Build(result.Source, input, func(block *Block, records []*Record) error {
		result.Summary.AddBlock(block, records, rb.gap)
		result.Records = append(result.Records, records...)
		return nil
	})
	return result, err
}

/*
LoadFiles loads the given MAF files in parallel, one file per pipeline
item, and passes the result for each file to sink. The sink is called
sequentially, in the order of filenames. LoadFiles stops at the first
error.
*/
func (rb *RecordBuilder) LoadFiles(filenames []string, sink func(FileRecords) error) error {
	if len(filenames) == 0 {
		return nil
	}
	var p pipeline.Pipeline
	p.Source(filenames)
	p.SetVariableBatchSize(1, 1)
	p.Add(
		pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
			names := data.([]string)
			results := make([]FileRecords, 0, len(names))
			for _, name := range names {
				result, err := rb.LoadFile(name)
				if err != nil {
					p.SetErr(fmt.Errorf("%w, while loading MAF file %v", err, name))
					return results
				}
				results = append(results, result)
			}
			return results
		})),
		pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
			for _, result := range data.([]FileRecords) {
				if err := sink(result); err != nil {
					p.SetErr(err)
					return data
				}
			}
			return data
		})),
	)
	return internal.RunPipeline(&p)
}
