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

package utils

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io/ioutil"
	"testing"
)

func TestIntern(t *testing.T) {
	s1 := Intern("human")
	s2 := Intern(string([]byte("human")))
	if s1 != s2 {
		t.Error("Intern 1 failed")
	}
	if *s1 != "human" {
		t.Error("Intern 2 failed")
	}
	if Intern("mouse") == s1 {
		t.Error("Intern 3 failed")
	}
}

func TestHandleCompressed(t *testing.T) {
	const content = "a score=0\ns human.1 0 1 + 10 A\n\n"
	var compressed bytes.Buffer
	gz := gzip.NewWriter(&compressed)
	if _, err := gz.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	for i, input := range [][]byte{[]byte(content), compressed.Bytes(), nil} {
		reader, err := HandleCompressed(bufio.NewReader(bytes.NewReader(input)))
		if err != nil {
			t.Fatalf("HandleCompressed %v failed: %v", i, err)
		}
		data, err := ioutil.ReadAll(reader)
		if err != nil {
			t.Fatalf("HandleCompressed %v failed: %v", i, err)
		}
		expected := content
		if input == nil {
			expected = ""
		}
		if string(data) != expected {
			t.Errorf("HandleCompressed %v failed: %q", i, data)
		}
	}
}
