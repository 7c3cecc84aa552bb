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
	"fmt"
)

// Causes wrapped by a FormatError.
var (
	ErrTokenCount  = errors.New("unexpected number of fields in MAF sequence line")
	ErrStrand      = errors.New("invalid strand in MAF sequence line")
	ErrOriginName  = errors.New("source name in MAF sequence line is not of the form origin.seqid")
	ErrCoordinates = errors.New("coordinates out of range in MAF sequence line")
	ErrColumnCount = errors.New("aligned sequences in MAF block differ in length")
)

// A FormatError reports a MAF line that does not conform to the
// expected layout. Processing of the file stops at the first
// FormatError.
type FormatError struct {
	// Source is the name of the input, if known.
	Source string
	// Line is the 1-based line number, or 0 if unknown.
	Line int
	// Text is the offending line.
	Text string
	Err  error
}

func (e *FormatError) Error() string {
	var location string
	switch {
	case e.Source != "" && e.Line > 0:
		location = fmt.Sprintf(" at %v:%v", e.Source, e.Line)
	case e.Source != "":
		location = fmt.Sprintf(" in %v", e.Source)
	case e.Line > 0:
		location = fmt.Sprintf(" at line %v", e.Line)
	}
	return fmt.Sprintf("%v%v: %q", e.Err, location, truncate(e.Text, 80))
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// A RecordError is returned by NewRecord when a field is missing or
// inconsistent with the other fields.
type RecordError struct {
	Field  string
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("invalid alignment record field %v: %v", e.Field, e.Reason)
}

// withSource fills in the source of a FormatError, if err is one.
func withSource(err error, source string) error {
	var ferr *FormatError
	if errors.As(err, &ferr) && ferr.Source == "" {
		ferr.Source = source
	}
	return err
}
