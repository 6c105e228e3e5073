// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rda

package rda

import (
	"fmt"
	"io"
	"os"
)

// Reader provides read-only access to a fully loaded RDA archive.
// Reader is immutable after construction and safe for concurrent use.
type Reader struct {
	// data is the whole archive; payloads are addressed by absolute offsets.
	data []byte
	// entries stores parsed entry metadata after selection filters.
	entries []EntryInfo
	// fileCount is the entry count declared by header.
	fileCount int
}

// Open reads RDA file by path into memory and parses header and dictionary.
func Open(path string) (*Reader, error) {
	return OpenWithOptions(path, ReaderOptions{})
}

// OpenWithOptions reads RDA file by path into memory and parses it using explicit reader options.
func OpenWithOptions(path string, opts ReaderOptions) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read RDA: %w", err)
	}

	return NewReaderFromBytes(data, opts)
}

// NewReaderFromReader loads the whole stream into memory and parses it.
func NewReaderFromReader(src io.Reader, opts ReaderOptions) (*Reader, error) {
	if src == nil {
		return nil, ErrNilReader
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read RDA: %w", err)
	}

	return NewReaderFromBytes(data, opts)
}

// NewReaderFromBytes parses archive held in data. The reader keeps data
// and callers must not modify it afterwards.
func NewReaderFromBytes(data []byte, opts ReaderOptions) (*Reader, error) {
	opts.applyDefaults()

	count, entries, err := parseArchive(data, opts)
	if err != nil {
		return nil, err
	}

	return &Reader{data: data, entries: entries, fileCount: count}, nil
}

// Entries returns a copy of parsed entries.
func (r *Reader) Entries() []EntryInfo {
	if r == nil {
		return nil
	}

	entries := make([]EntryInfo, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// FileCount returns the number of entries declared by archive header.
func (r *Reader) FileCount() int {
	if r == nil {
		return 0
	}

	return r.fileCount
}

// Size returns total archive size in bytes.
func (r *Reader) Size() int64 {
	if r == nil {
		return 0
	}

	return int64(len(r.data))
}

// ReadEntry returns decoded content of the named entry.
func (r *Reader) ReadEntry(name string) ([]byte, error) {
	if r == nil || r.data == nil {
		return nil, ErrNilReader
	}

	info := r.findEntryByName(name)
	if info == nil {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}

	return extractPayload(r.data, info)
}

// ReadEntryInfo returns decoded content for already resolved entry metadata.
func (r *Reader) ReadEntryInfo(info EntryInfo) ([]byte, error) {
	if r == nil || r.data == nil {
		return nil, ErrNilReader
	}

	return extractPayload(r.data, &info)
}

// findEntryByName resolves one entry by normalized path.
func (r *Reader) findEntryByName(name string) *EntryInfo {
	lookupName := NormalizePath(name)
	for i := range r.entries {
		if NormalizePath(r.entries[i].Path) == lookupName {
			return &r.entries[i]
		}
	}

	return nil
}
