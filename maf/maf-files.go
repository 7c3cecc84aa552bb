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
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/exascience/elmaf/internal"
	"github.com/exascience/elmaf/utils"
)

/*
A Reader produces the alignment blocks of a MAF input one at a time.
Only the lines of the current block are kept in memory.

Blocks are delimited as by BlockRanges. A Reader cannot be rewound;
reading the input again requires a new Reader on a fresh stream.
*/
type Reader struct {
	reader *bufio.Reader
	lines  []string
	// look-ahead: the block start line of the next block
	marker     string
	markerLine int
	haveMarker bool
	lineNo     int
	eof        bool
	index      int
	block      *Block
	err        error
}

// NewReader returns a Reader reading from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{reader: bufio.NewReader(r), index: -1}
}

func (r *Reader) readLine() (line string, lineIndex int, ok bool) {
	if r.eof {
		return "", 0, false
	}
	line, err := r.reader.ReadString('\n')
	if err != nil {
		r.eof = true
		if err != io.EOF {
			r.err = err
			return "", 0, false
		}
		if line == "" {
			return "", 0, false
		}
	}
	lineIndex = r.lineNo
	r.lineNo++
	return strings.TrimRight(line, "\r\n"), lineIndex, true
}

/*
Next advances to the next block, which is then available through
Block. It returns false when there are no more blocks, or when an
error occurred; Err distinguishes the two cases.
*/
func (r *Reader) Next() bool {
	r.block = nil
	if r.err != nil {
		return false
	}
	if !r.haveMarker {
		for {
			line, lineIndex, ok := r.readLine()
			if !ok {
				return false
			}
			if IsBlockStart(line) {
				r.marker, r.markerLine, r.haveMarker = line, lineIndex, true
				break
			}
		}
	}
	lines := append(r.lines[:0], r.marker)
	firstLine := r.markerLine
	r.haveMarker = false
	for {
		line, lineIndex, ok := r.readLine()
		if !ok {
			break
		}
		if IsBlockStart(line) {
			r.marker, r.markerLine, r.haveMarker = line, lineIndex, true
			break
		}
		lines = append(lines, line)
	}
	if r.err != nil {
		return false
	}
	if !r.haveMarker {
		// the final block ends before the last line of the input
		lines = lines[:len(lines)-1]
	}
	r.lines = lines
	block, err := AssembleBlock(lines, firstLine)
	if err != nil {
		r.err = err
		return false
	}
	r.index++
	r.block = block
	return true
}

// Block returns the current block.
func (r *Reader) Block() *Block {
	return r.block
}

// Index returns the zero-based index of the current block.
func (r *Reader) Index() int {
	return r.index
}

// Err returns the first error encountered by Next, if any.
func (r *Reader) Err() error {
	return r.err
}

// InputFile is an open MAF input, possibly gzip or BGZF compressed.
type InputFile struct {
	rc io.ReadCloser
	io.Reader
}

/*
Open opens the named MAF file for reading. Gzip- and BGZF-compressed
files are detected by their contents and decompressed on the fly.
The name /dev/stdin refers to the standard input.
*/
func Open(name string) (*InputFile, error) {
	var rc io.ReadCloser
	if name == "/dev/stdin" {
		rc = os.Stdin
	} else {
		file, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		rc = file
	}
	reader, err := utils.HandleCompressed(bufio.NewReader(rc))
	if err != nil {
		_ = rc.Close()
		return nil, err
	}
	return &InputFile{rc: rc, Reader: reader}, nil
}

// Close closes the underlying file and decompressor, if any.
func (f *InputFile) Close() (err error) {
	if closer, ok := f.Reader.(io.Closer); ok {
		err = closer.Close()
	}
	if f.rc != os.Stdin {
		if nerr := f.rc.Close(); err == nil {
			err = nerr
		}
	}
	return err
}

// Extensions recognized by Filenames.
var mafExts = []string{".maf", ".maf.gz", ".maf.bgz"}

// IsMafFile reports whether name has a MAF file extension.
func IsMafFile(name string) bool {
	for _, ext := range mafExts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

/*
Filenames returns the MAF files denoted by input. If input is a
directory, these are the files in it with a MAF extension, sorted by
name. Otherwise it is input itself.
*/
func Filenames(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{input}, nil
	}
	names, err := internal.Directory(input)
	if err != nil {
		return nil, err
	}
	var filenames []string
	for _, name := range names {
		if IsMafFile(name) {
			filenames = append(filenames, filepath.Join(input, name))
		}
	}
	sort.Strings(filenames)
	return filenames, nil
}
