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

// Package bgzf reads BGZF-compressed files, inflating their blocks in
// parallel.
package bgzf

import (
	"bufio"
	"bytes"
	"compress/flate"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
	"sync"

	"github.com/exascience/pargo/pipeline"
)

// IsGzip determines if the given byte scanner produces
// a gzip file. It uses ReadByte and UnreadByte to check
// only the initial byte from the input.
func IsGzip(scanner io.ByteScanner) (bool, error) {
	b, err := scanner.ReadByte()
	if err != nil {
		return false, err
	}
	if err := scanner.UnreadByte(); err != nil {
		return false, err
	}
	return b == 0x1f, nil
}

/*
IsBGZF determines if the gzip data buffered in r starts with a BGZF
block, that is a gzip member with a BC extra subfield. It only peeks
at r, and does not consume any input.
*/
func IsBGZF(r *bufio.Reader) bool {
	header, err := r.Peek(16)
	if err != nil {
		return false
	}
	return header[0] == 0x1f && header[1] == 0x8b && header[3]&0x04 != 0 &&
		header[12] == 'B' && header[13] == 'C'
}

// Errors reported while reading a BGZF file.
var (
	ErrHeader   = errors.New("invalid BGZF block header")
	ErrChecksum = errors.New("invalid CRC-32 value for a BGZF block")
	ErrNoEOF    = errors.New("BGZF file does not end in an empty EOF block")
)

const (
	// maxBlockSize is the largest inflated size of a BGZF block.
	maxBlockSize = 65536
	// fixedHeaderSize covers ID1 up to and including XLEN.
	fixedHeaderSize = 12
	trailerSize     = 8
)

// block is one gzip member of a BGZF file.
type block struct {
	deflated []byte
	inflated []byte
	crc      uint32
	size     uint32
	err      error
}

var blockPool = sync.Pool{New: func() interface{} {
	return &block{
		deflated: make([]byte, 0, maxBlockSize),
		inflated: make([]byte, 0, maxBlockSize),
	}
}}

func resize(buf []byte, n int) []byte {
	if cap(buf) < n {
		return make([]byte, n)
	}
	return buf[:n]
}

// blockSize returns BSIZE, the total block size minus one, from the
// extra field of a gzip header, or -1 if there is no BC subfield.
func blockSize(extra []byte) int {
	for i := 0; i+4 <= len(extra); {
		slen := int(binary.LittleEndian.Uint16(extra[i+2 : i+4]))
		if extra[i] == 'B' && extra[i+1] == 'C' && slen == 2 && i+6 <= len(extra) {
			return int(binary.LittleEndian.Uint16(extra[i+4 : i+6]))
		}
		i += 4 + slen
	}
	return -1
}

// readBlock reads the next block from r. It returns io.EOF only when
// r ends exactly at a block boundary.
func readBlock(r io.Reader) (*block, error) {
	var header [fixedHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err == io.ErrUnexpectedEOF {
		return nil, ErrHeader
	} else if err != nil {
		return nil, err
	}
	if header[0] != 0x1f || header[1] != 0x8b || header[2] != 8 || header[3] != 4 {
		return nil, ErrHeader
	}
	extra := make([]byte, binary.LittleEndian.Uint16(header[10:12]))
	if _, err := io.ReadFull(r, extra); err != nil {
		return nil, ErrHeader
	}
	bsize := blockSize(extra)
	n := bsize + 1 - fixedHeaderSize - len(extra) - trailerSize
	if bsize < 0 || n < 0 {
		return nil, ErrHeader
	}
	b := blockPool.Get().(*block)
	b.err = nil
	b.deflated = resize(b.deflated, n)
	var trailer [trailerSize]byte
	if _, err := io.ReadFull(r, b.deflated); err != nil {
		return nil, io.ErrUnexpectedEOF
	}
	if _, err := io.ReadFull(r, trailer[:]); err != nil {
		return nil, io.ErrUnexpectedEOF
	}
	b.crc = binary.LittleEndian.Uint32(trailer[0:4])
	b.size = binary.LittleEndian.Uint32(trailer[4:8])
	if b.size > maxBlockSize {
		return nil, ErrHeader
	}
	return b, nil
}

var inflaters sync.Pool

func (b *block) inflate() error {
	src := bytes.NewReader(b.deflated)
	fr, ok := inflaters.Get().(io.ReadCloser)
	if !ok || fr.(flate.Resetter).Reset(src, nil) != nil {
		fr = flate.NewReader(src)
	}
	defer inflaters.Put(fr)
	b.inflated = resize(b.inflated, int(b.size))
	if _, err := io.ReadFull(fr, b.inflated); err == io.EOF {
		return io.ErrUnexpectedEOF
	} else if err != nil {
		return err
	}
	if crc32.ChecksumIEEE(b.inflated) != b.crc {
		return ErrChecksum
	}
	return nil
}

// blockSource feeds the blocks of a BGZF stream into a pipeline, one
// block per batch.
type blockSource struct {
	r       io.Reader
	err     error
	done    bool
	atEmpty bool
	data    *block
}

// Err implements the corresponding method of pipeline.Source
func (src *blockSource) Err() error {
	return src.err
}

// Prepare implements the corresponding method of pipeline.Source
func (src *blockSource) Prepare(_ context.Context) int {
	return -1
}

// Fetch implements the corresponding method of pipeline.Source
func (src *blockSource) Fetch(_ int) int {
	src.data = nil
	if src.done {
		return 0
	}
	b, err := readBlock(src.r)
	if err == io.EOF {
		src.done = true
		if !src.atEmpty {
			src.err = ErrNoEOF
		}
		return 0
	} else if err != nil {
		src.done = true
		src.err = err
		return 0
	}
	src.atEmpty = b.size == 0
	src.data = b
	return 1
}

// Data implements the corresponding method of pipeline.Source
func (src *blockSource) Data() interface{} {
	return src.data
}

/*
Reader decompresses a BGZF stream. Blocks are read sequentially,
inflated in parallel, and handed to Read in file order.
*/
type Reader struct {
	p    pipeline.Pipeline
	pr   *io.PipeReader
	done chan struct{}
}

// NewReader starts decompressing r in the background.
func NewReader(r io.Reader) *Reader {
	pr, pw := io.Pipe()
	bgzf := &Reader{pr: pr, done: make(chan struct{})}
	bgzf.p.Source(&blockSource{r: r})
	failed := false
	bgzf.p.Add(
		pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
			b := data.(*block)
			b.err = b.inflate()
			return b
		})),
		pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
			b := data.(*block)
			defer blockPool.Put(b)
			if failed {
				return nil
			}
			if b.err != nil {
				failed = true
				bgzf.p.SetErr(b.err)
			} else if _, err := pw.Write(b.inflated); err != nil {
				failed = true
				bgzf.p.SetErr(err)
			}
			return nil
		})),
	)
	go func() {
		defer close(bgzf.done)
		bgzf.p.Run()
		_ = pw.CloseWithError(bgzf.p.Err())
	}()
	return bgzf
}

// Read implements the corresponding method of io.Reader
func (bgzf *Reader) Read(p []byte) (int, error) {
	return bgzf.pr.Read(p)
}

// Close stops decompression and reports the first decompression error,
// if any.
func (bgzf *Reader) Close() error {
	_ = bgzf.pr.Close()
	<-bgzf.done
	if err := bgzf.p.Err(); err != io.ErrClosedPipe {
		return err
	}
	return nil
}
