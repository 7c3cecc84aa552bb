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

package bgzf

import (
	"bufio"
	"bytes"
	"compress/flate"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io/ioutil"
	"strings"
	"testing"
)

var eofBlock = []byte{
	0x1f, 0x8b, 0x08, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0xff, 0x06, 0x00,
	0x42, 0x43, 0x02, 0x00, 0x1b, 0x00, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
}

func compressBlock(data []byte) []byte {
	var deflated bytes.Buffer
	fw, _ := flate.NewWriter(&deflated, flate.BestSpeed)
	_, _ = fw.Write(data)
	_ = fw.Close()
	header := []byte{0x1f, 0x8b, 0x08, 0x04, 0, 0, 0, 0, 0, 0xff, 0x06, 0x00, 'B', 'C', 0x02, 0x00, 0, 0}
	binary.LittleEndian.PutUint16(header[16:], uint16(len(header)+deflated.Len()+8-1))
	out := append(header, deflated.Bytes()...)
	var trailer [8]byte
	binary.LittleEndian.PutUint32(trailer[0:4], crc32.ChecksumIEEE(data))
	binary.LittleEndian.PutUint32(trailer[4:8], uint32(len(data)))
	return append(out, trailer[:]...)
}

func compress(content string, blockSize int) []byte {
	var out []byte
	for start := 0; start < len(content); start += blockSize {
		end := start + blockSize
		if end > len(content) {
			end = len(content)
		}
		out = append(out, compressBlock([]byte(content[start:end]))...)
	}
	return append(out, eofBlock...)
}

func TestIsBGZF(t *testing.T) {
	var plain bytes.Buffer
	gz := gzip.NewWriter(&plain)
	_, _ = gz.Write([]byte("a\n"))
	_ = gz.Close()
	if IsBGZF(bufio.NewReader(bytes.NewReader(plain.Bytes()))) {
		t.Error("IsBGZF 1 failed")
	}

	// header of the empty BGZF block that terminates every BGZF file
	header := []byte{
		0x1f, 0x8b, 0x08, 0x04, 0x00, 0x00,
		0x00, 0x00, 0x00, 0xff, 0x06, 0x00,
		0x42, 0x43, 0x02, 0x00, 0x1b, 0x00,
		0x03, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
	r := bufio.NewReader(bytes.NewReader(header))
	if !IsBGZF(r) {
		t.Error("IsBGZF 2 failed")
	}
	if ok, err := IsGzip(r); err != nil || !ok {
		t.Error("IsGzip failed after IsBGZF")
	}

	if IsBGZF(bufio.NewReader(bytes.NewReader([]byte("a\n")))) {
		t.Error("IsBGZF 3 failed")
	}
}

func TestReader(t *testing.T) {
	content := strings.Repeat("s human.1 10 4 + 100 AC-GT\n", 5000)
	for i, blockSize := range []int{65536, 1000, 7} {
		r := NewReader(bytes.NewReader(compress(content, blockSize)))
		data, err := ioutil.ReadAll(r)
		if err != nil {
			t.Errorf("Reader %v failed: %v", i, err)
		}
		if string(data) != content {
			t.Errorf("Reader %v failed: content differs", i)
		}
		if err := r.Close(); err != nil {
			t.Errorf("Reader %v failed on Close: %v", i, err)
		}
	}

	r := NewReader(bytes.NewReader(eofBlock))
	if data, err := ioutil.ReadAll(r); err != nil || len(data) != 0 {
		t.Error("Reader on empty file failed")
	}
	_ = r.Close()
}

func TestReaderCloseEarly(t *testing.T) {
	content := strings.Repeat("a score=0\n", 100000)
	r := NewReader(bytes.NewReader(compress(content, 4096)))
	var buf [100]byte
	if _, err := r.Read(buf[:]); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestReaderErrors(t *testing.T) {
	block := compressBlock([]byte("a score=0\n"))

	missingEOF := NewReader(bytes.NewReader(block))
	if data, err := ioutil.ReadAll(missingEOF); !errors.Is(err, ErrNoEOF) || string(data) != "a score=0\n" {
		t.Errorf("Reader 1 failed: %q %v", data, err)
	}
	_ = missingEOF.Close()

	corrupt := append(append([]byte{}, block...), eofBlock...)
	corrupt[len(block)-5] ^= 0xff
	r := NewReader(bytes.NewReader(corrupt))
	if _, err := ioutil.ReadAll(r); !errors.Is(err, ErrChecksum) {
		t.Errorf("Reader 2 failed: %v", err)
	}
	if err := r.Close(); !errors.Is(err, ErrChecksum) {
		t.Errorf("Reader 2 failed on Close: %v", err)
	}

	truncated := block[:len(block)-3]
	r = NewReader(bytes.NewReader(truncated))
	if _, err := ioutil.ReadAll(r); err == nil {
		t.Error("Reader 3 failed")
	}
	_ = r.Close()

	r = NewReader(bytes.NewReader(append([]byte{0x1f, 0x8b, 0x08, 0x00}, make([]byte, 20)...)))
	if _, err := ioutil.ReadAll(r); !errors.Is(err, ErrHeader) {
		t.Errorf("Reader 4 failed: %v", err)
	}
	_ = r.Close()
}
