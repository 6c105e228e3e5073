// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rda

package rda

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// decodeDictionary deobfuscates dictionary block of archive data and parses count records.
// The block is copied, data itself is never modified.
func decodeDictionary(data []byte, count int, mode NameMode) ([]EntryInfo, error) {
	end, err := dictionaryBounds(count, len(data))
	if err != nil {
		return nil, err
	}

	block := make([]byte, end-headerSize)
	copy(block, data[headerSize:end])
	Deobfuscate(block)

	return parseDictionary(block, count, mode)
}

// parseDictionary interprets an already deobfuscated block as count fixed-size records.
func parseDictionary(block []byte, count int, mode NameMode) ([]EntryInfo, error) {
	if count < 0 || len(block) < count*entrySize {
		return nil, fmt.Errorf(
			"%w: %d entries need %d dictionary bytes, %d available",
			ErrCorruptDictionary, count, count*entrySize, len(block),
		)
	}

	entries := make([]EntryInfo, 0, count)
	for i := range count {
		record := block[i*entrySize : (i+1)*entrySize]
		entry, err := parseEntryRecord(record, mode)
		entry.index = i
		if err != nil {
			return nil, &EntryError{Index: i, Offset: entry.Offset, Err: err}
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// parseEntryRecord decodes one 276-byte dictionary record.
// Numeric fields are filled even when filename decoding fails.
func parseEntryRecord(record []byte, mode NameMode) (EntryInfo, error) {
	fields := record[nameFieldSize:entrySize]
	entry := EntryInfo{
		Offset:           binary.LittleEndian.Uint32(fields[0:4]),
		CompressedSize:   binary.LittleEndian.Uint32(fields[4:8]),
		DecompressedSize: binary.LittleEndian.Uint32(fields[8:12]),
		CompressionFlag:  binary.LittleEndian.Uint32(fields[12:16]),
		TimeStamp:        binary.LittleEndian.Uint32(fields[16:20]),
	}

	name, err := decodeFilename(record[:nameFieldSize], mode)
	if err != nil {
		return entry, err
	}

	entry.Path = name
	return entry, nil
}

// decodeFilename decodes the fixed-width filename field as strict UTF-8.
func decodeFilename(field []byte, mode NameMode) (string, error) {
	switch mode {
	case NameModeTrimNull, "":
		if idx := bytes.IndexByte(field, 0); idx >= 0 {
			field = field[:idx]
		}
	case NameModeRaw:
	default:
		return "", fmt.Errorf("unknown name mode %q", mode)
	}

	if _, _, err := transform.Bytes(encoding.UTF8Validator, field); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidFilenameEncoding, err)
	}

	if mode == NameModeRaw {
		field = bytes.TrimRight(field, "\x00")
	}

	return string(field), nil
}
