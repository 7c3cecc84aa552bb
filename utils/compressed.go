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
	"compress/gzip"
	"io"

	"github.com/exascience/elmaf/utils/bgzf"
)

/*
HandleCompressed returns a reader that decompresses buf if it holds
gzip data. BGZF data is decompressed in parallel, other gzip data
sequentially. Uncompressed data is returned as is. The returned reader
implements io.Closer when it decompresses.
*/
func HandleCompressed(buf *bufio.Reader) (io.Reader, error) {
	ok, err := bgzf.IsGzip(buf)
	if err == io.EOF {
		return buf, nil
	} else if err != nil {
		return nil, err
	} else if !ok {
		return buf, nil
	}
	if bgzf.IsBGZF(buf) {
		return bgzf.NewReader(buf), nil
	}
	return gzip.NewReader(buf)
}
