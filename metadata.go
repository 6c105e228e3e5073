// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rda

package rda

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ReadFileCount opens an RDA file and returns the declared entry count
// reading only the header block.
func ReadFileCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open RDA: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadFileCountFromReader(f)
}

// ReadFileCountFromReader reads header block from src and returns declared entry count.
func ReadFileCountFromReader(src io.Reader) (int, error) {
	if src == nil {
		return 0, ErrNilReader
	}

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(src, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, fmt.Errorf("%w: short header", ErrNotRDA)
		}

		return 0, fmt.Errorf("read header: %w", err)
	}

	return decodeHeader(header)
}

// ListEntries opens an RDA file and returns entry metadata without payload reads.
func ListEntries(path string) ([]EntryInfo, error) {
	return ListEntriesWithOptions(path, ReaderOptions{})
}

// ListEntriesWithOptions opens an RDA file and returns entry metadata using reader options.
func ListEntriesWithOptions(path string, opts ReaderOptions) ([]EntryInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read RDA: %w", err)
	}

	return ListEntriesFromBytes(data, opts)
}

// ListEntriesFromBytes parses entry metadata from an in-memory archive.
func ListEntriesFromBytes(data []byte, opts ReaderOptions) ([]EntryInfo, error) {
	opts.applyDefaults()

	_, entries, err := parseArchive(data, opts)
	return entries, err
}

// parseArchive decodes header and dictionary of data and applies entry selection.
// It returns declared file count and selected entries.
func parseArchive(data []byte, opts ReaderOptions) (int, []EntryInfo, error) {
	count, err := decodeHeader(data)
	if err != nil {
		return 0, nil, err
	}

	entries, err := decodeDictionary(data, count, opts.NameMode)
	if err != nil {
		return 0, nil, err
	}

	entries, err = filterEntries(entries, opts)
	if err != nil {
		return 0, nil, err
	}

	return count, entries, nil
}
