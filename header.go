// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rda

package rda

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// decodeHeader deobfuscates a private copy of the header block, validates magic
// and returns the declared file count.
func decodeHeader(data []byte) (int, error) {
	if len(data) < headerSize {
		return 0, fmt.Errorf("%w: short header (%d bytes)", ErrNotRDA, len(data))
	}

	header := make([]byte, headerSize)
	copy(header, data)
	Deobfuscate(header)

	if !bytes.Equal(header[:magicSize], []byte(Magic)) {
		return 0, ErrNotRDA
	}

	return parseHeader(header)
}

// parseHeader reads file count from an already deobfuscated header block.
func parseHeader(header []byte) (int, error) {
	if len(header) < headerSize {
		return 0, fmt.Errorf("%w: short header (%d bytes)", ErrNotRDA, len(header))
	}

	count := int32(binary.LittleEndian.Uint32(header[fileCountOffset:headerSize])) //nolint:gosec // field is signed on disk
	if count < 0 {
		return 0, fmt.Errorf("%w: negative file count %d", ErrCorruptDictionary, count)
	}

	return int(count), nil
}

// dictionaryBounds validates that count records fit into archive of size bytes
// and returns dictionary block end offset.
func dictionaryBounds(count int, size int) (int, error) {
	declared := int64(count) * entrySize
	available := int64(size) - headerSize
	if available < 0 {
		available = 0
	}

	if declared > available {
		return 0, fmt.Errorf(
			"%w: %d entries need %d dictionary bytes, %d available",
			ErrCorruptDictionary, count, declared, available,
		)
	}

	return headerSize + int(declared), nil
}
