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

// Package intervals computes the parts of the source sequences that are
// covered by MAF alignment records, as sorted, non-overlapping
// half-open intervals per sequence.
package intervals

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/exascience/pargo/parallel"
	"github.com/exascience/pargo/pipeline"
	psort "github.com/exascience/pargo/sort"

	"github.com/exascience/elmaf/internal"
	"github.com/exascience/elmaf/maf"
)

// Interval is a half-open interval [Start, End) in forward-strand
// coordinates.
type Interval struct {
	Start, End int64
}

// SortByStart sorts intervals by their start positions, keeping equal
// elements in their original order.
func SortByStart(intervals []Interval) {
	sort.SliceStable(intervals, func(i, j int) bool {
		return intervals[i].Start < intervals[j].Start
	})
}

type stableIntervalSorter []Interval

func (s stableIntervalSorter) SequentialSort(i, j int) {
	SortByStart(s[i:j])
}

func (s stableIntervalSorter) NewTemp() psort.StableSorter {
	return stableIntervalSorter(make([]Interval, len(s)))
}

func (s stableIntervalSorter) Len() int {
	return len(s)
}

func (s stableIntervalSorter) Less(i, j int) bool {
	return s[i].Start < s[j].Start
}

func (s stableIntervalSorter) Assign(source psort.StableSorter) func(i, j, len int) {
	dst, src := s, source.(stableIntervalSorter)
	return func(i, j, len int) {
		copy(dst[i:i+len], src[j:j+len])
	}
}

// ParallelSortByStart is a parallel version of SortByStart.
func ParallelSortByStart(intervals []Interval) {
	psort.StableSort(stableIntervalSorter(intervals))
}

/*
Extend merges interval2 into interval1 if they overlap or touch, and
reports whether it did. interval1 must not start after interval2.
*/
func (interval1 *Interval) Extend(interval2 Interval) bool {
	if interval2.Start > interval1.End {
		return false
	}
	if interval2.End > interval1.End {
		interval1.End = interval2.End
	}
	return true
}

/*
Flatten merges overlapping and adjacent intervals of a slice sorted by
start position. The result reuses the storage of intervals.
*/
func Flatten(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return intervals
	}
	i := 0
	for j := 1; j < len(intervals); j++ {
		if !intervals[i].Extend(intervals[j]) {
			i++
			intervals[i] = intervals[j]
		}
	}
	return intervals[:i+1]
}

const parallelFlattenGrainSize = 0x1000

// ParallelFlatten is a parallel version of Flatten.
func ParallelFlatten(intervals []Interval) []Interval {
	if len(intervals) < parallelFlattenGrainSize {
		return Flatten(intervals)
	}
	half := len(intervals) >> 1
	left, right := intervals[:half], intervals[half:]
	parallel.Do(
		func() { left = ParallelFlatten(left) },
		func() { right = ParallelFlatten(right) },
	)
	for len(right) > 0 && left[len(left)-1].Extend(right[0]) {
		right = right[1:]
	}
	return append(left, right...)
}

// Overlap reports whether [start, end) overlaps any of the flattened
// intervals.
func Overlap(intervals []Interval, start, end int64) bool {
	for left, right := 0, len(intervals)-1; left <= right; {
		mid := (left + right) / 2
		if intervals[mid].Start >= end {
			right = mid - 1
		} else if intervals[mid].End <= start {
			left = mid + 1
		} else {
			return true
		}
	}
	return false
}

// Intersect returns the flattened intervals that overlap [start, end).
func Intersect(intervals []Interval, start, end int64) []Interval {
	n := len(intervals)
	return intervals[sort.Search(n, func(i int) bool {
		return intervals[i].End > start
	}):sort.Search(n, func(i int) bool {
		return intervals[i].Start >= end
	})]
}

// Region is the range [Start, End) of the source sequence Key.
type Region struct {
	Key        string
	Start, End int64
}

// ParseRegion parses a region of the form origin.seqid:start-end.
func ParseRegion(s string) (region Region, err error) {
	colon := strings.LastIndexByte(s, ':')
	if colon <= 0 {
		return region, fmt.Errorf("invalid region %q, expected origin.seqid:start-end", s)
	}
	bounds := s[colon+1:]
	dash := strings.IndexByte(bounds, '-')
	if dash < 0 {
		return region, fmt.Errorf("invalid region %q, expected origin.seqid:start-end", s)
	}
	if region.Start, err = strconv.ParseInt(bounds[:dash], 10, 64); err != nil {
		return region, fmt.Errorf("%w, while parsing region %q", err, s)
	}
	if region.End, err = strconv.ParseInt(bounds[dash+1:], 10, 64); err != nil {
		return region, fmt.Errorf("%w, while parsing region %q", err, s)
	}
	if region.Start < 0 || region.Start >= region.End {
		return region, fmt.Errorf("invalid region %q, start must be less than end", s)
	}
	region.Key = s[:colon]
	return region, nil
}

func (region Region) String() string {
	return region.Key + ":" + strconv.FormatInt(region.Start, 10) + "-" + strconv.FormatInt(region.End, 10)
}

/*
Restrict returns the parts of the flattened intervals that lie within
region. The result has at most one entry, for region.Key.
*/
func (region Region) Restrict(intervals map[string][]Interval) map[string][]Interval {
	result := make(map[string][]Interval)
	ivals := intervals[region.Key]
	if !Overlap(ivals, region.Start, region.End) {
		return result
	}
	overlapping := Intersect(ivals, region.Start, region.End)
	clipped := make([]Interval, len(overlapping))
	copy(clipped, overlapping)
	if first := &clipped[0]; first.Start < region.Start {
		first.Start = region.Start
	}
	if last := &clipped[len(clipped)-1]; last.End > region.End {
		last.End = region.End
	}
	result[region.Key] = clipped
	return result
}

// Key returns the name used for a source sequence: origin.seqid.
func Key(origin, seqID string) string {
	return origin + "." + seqID
}

// AddRecords adds the intervals covered by records to intervals.
func AddRecords(intervals map[string][]Interval, records []*maf.Record) {
	for _, record := range records {
		key := Key(record.Origin, record.SeqID)
		intervals[key] = append(intervals[key], Interval{Start: record.Start, End: record.Stop})
	}
}

// FromRecords returns the intervals covered by records, per source
// sequence, unsorted.
func FromRecords(records []*maf.Record) map[string][]Interval {
	intervals := make(map[string][]Interval)
	AddRecords(intervals, records)
	return intervals
}

// Normalize sorts and flattens the intervals of each source sequence.
func Normalize(intervals map[string][]Interval) {
	for key, ivals := range intervals {
		ParallelSortByStart(ivals)
		intervals[key] = ParallelFlatten(ivals)
	}
}

// ElsitesHeader is the first line of an .elsites file.
const ElsitesHeader = "# elsites format version 1.0\n"

// ToElsitesFile writes intervals to the named file, sorted by sequence
// name.
func ToElsitesFile(intervals map[string][]Interval, filename string) (err error) {
	pathname, err := filepath.Abs(filename)
	if err != nil {
		return err
	}
	output, err := internal.FileCreate(pathname)
	if err != nil {
		return err
	}
	defer internal.Close(output, &err)
	out := bufio.NewWriter(output)
	if _, err = out.WriteString(ElsitesHeader); err != nil {
		return err
	}
	keys := make([]string, 0, len(intervals))
	for key := range intervals {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	buf := internal.ReserveByteBuffer()
	defer func() { internal.ReleaseByteBuffer(buf) }()
	for _, key := range keys {
		for _, ival := range intervals[key] {
			buf = append(buf[:0], key...)
			buf = append(buf, '\t')
			buf = strconv.AppendInt(buf, ival.Start, 10)
			buf = append(buf, '\t')
			buf = strconv.AppendInt(buf, ival.End, 10)
			buf = append(buf, '\n')
			if _, err = out.Write(buf); err != nil {
				return err
			}
		}
	}
	return out.Flush()
}

func parseElsitesLine(line string) (key string, interval Interval, err error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 3 || fields[0] == "" {
		return "", interval, fmt.Errorf("invalid sites line %v", line)
	}
	if interval.Start, err = strconv.ParseInt(fields[1], 10, 64); err != nil {
		return "", interval, err
	}
	if interval.End, err = strconv.ParseInt(fields[2], 10, 64); err != nil {
		return "", interval, err
	}
	return fields[0], interval, nil
}

// FromElsitesFile reads intervals written by ToElsitesFile.
func FromElsitesFile(filename string) (intervals map[string][]Interval, err error) {
	pathname, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	in, err := os.Open(pathname)
	if err != nil {
		return nil, err
	}
	defer internal.Close(in, &err)
	input := bufio.NewReader(in)
	header, err := input.ReadString('\n')
	if err != nil {
		return nil, err
	}
	if header != ElsitesHeader {
		return nil, fmt.Errorf("%v is not a .elsites file - invalid header", filename)
	}
	var p pipeline.Pipeline
	p.Source(pipeline.NewScanner(input))
	p.Add(pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
		intervals := make(map[string][]Interval)
		for _, str := range data.([]string) {
			key, interval, err := parseElsitesLine(str)
			if err != nil {
				p.SetErr(err)
				return intervals
			}
			intervals[key] = append(intervals[key], interval)
		}
		return intervals
	})))
	intervals = make(map[string][]Interval)
	p.Add(pipeline.Ord(pipeline.Receive(func(_ int, data interface{}) interface{} {
		for key, ivals := range data.(map[string][]Interval) {
			intervals[key] = append(intervals[key], ivals...)
		}
		return data
	})))
	if err = internal.RunPipeline(&p); err != nil {
		return nil, err
	}
	return intervals, nil
}
