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

package internal

import "sync"

var bufPool = sync.Pool{New: func() interface{} {
	return make([]byte, 0, 4096)
}}

/*
ReserveByteBuffer returns an empty slice of bytes from an internal
pool, for formatting output lines. Its capacity grows with the longest
line it was used for.

Use ReleaseByteBuffer to return it to the pool.
*/
func ReserveByteBuffer() []byte {
	return bufPool.Get().([]byte)[:0]
}

// ReleaseByteBuffer returns buf to the pool used by ReserveByteBuffer.
func ReleaseByteBuffer(buf []byte) {
	bufPool.Put(buf)
}
