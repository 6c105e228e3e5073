// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rda

package rda

import (
	"errors"
	"fmt"
)

// Sentinel errors for RDA operations. Use errors.Is in callers.
var (
	// ErrNotRDA means the input is too short or its deobfuscated magic does not match.
	ErrNotRDA = errors.New("not an RDA V1.1 archive")
	// ErrCorruptDictionary means the declared file count does not fit into the archive.
	ErrCorruptDictionary = errors.New("corrupt RDA dictionary")
	// ErrInvalidFilenameEncoding means a dictionary filename is not valid UTF-8.
	ErrInvalidFilenameEncoding = errors.New("invalid filename encoding")
	// ErrEmptyEntryName means a dictionary entry has no usable file name.
	ErrEmptyEntryName = errors.New("empty entry name")
	// ErrDecompression means the inflated payload does not match declared sizes.
	ErrDecompression = errors.New("entry decompression failed")
	// ErrNilReader means the reader is nil.
	ErrNilReader = errors.New("reader is nil")
	// ErrNilSink means the importer has no storage sink.
	ErrNilSink = errors.New("sink is nil")
	// ErrNoDecoder means no registered decoder accepts the input.
	ErrNoDecoder = errors.New("no decoder handles input")
	// ErrEntryNotFound means the entry is not found.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrSizeOverflow means a size does not fit into the platform int.
	ErrSizeOverflow = errors.New("size overflows int")
	// ErrInvalidEntryOffset means entry payload range lies outside of the archive.
	ErrInvalidEntryOffset = errors.New("invalid entry offset")
	// ErrInvalidRules means one or more entry path rules are invalid.
	ErrInvalidRules = errors.New("invalid entry path rules")
	// ErrInvalidExtractPath means archive entry path is invalid for extraction destination.
	ErrInvalidExtractPath = errors.New("invalid extract path")
	// ErrExtractPathOutsideRoot means resolved extraction path escapes destination root.
	ErrExtractPathOutsideRoot = errors.New("extract path escapes destination root")
)

// EntryError reports a failure bound to one dictionary entry.
type EntryError struct {
	// Err is the underlying cause, usually one of the sentinel errors.
	Err error
	// Path is the decoded entry filename; empty when the name itself is broken.
	Path string
	// Index is the zero-based position of the entry in the dictionary.
	Index int
	// Offset is the payload offset declared by the entry.
	Offset uint32
}

// Error implements error.
func (e *EntryError) Error() string {
	name := e.Path
	if name == "" {
		name = "<invalid name>"
	}

	return fmt.Sprintf("entry #%d %s (offset %d): %v", e.Index, name, e.Offset, e.Err)
}

// Unwrap returns the underlying cause.
func (e *EntryError) Unwrap() error {
	return e.Err
}
