// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rda

package rda

import (
	"bufio"
	"bytes"
)

// IsRDA reports whether data starts with an obfuscated RDA V1.1 header.
// It never modifies data.
func IsRDA(data []byte) bool {
	if len(data) < headerSize {
		return false
	}

	var header [headerSize]byte
	copy(header[:], data)
	Deobfuscate(header[:])

	return bytes.Equal(header[:magicSize], []byte(Magic))
}

// Detect peeks the header of br and reports whether it is an RDA V1.1 archive.
// Peeked bytes stay buffered, so subsequent reads still start at the header.
// Short input is a negative result, not an error.
func Detect(br *bufio.Reader) bool {
	if br == nil {
		return false
	}

	if br.Size() < headerSize {
		return false
	}

	// Peek returns fewer bytes together with an error on short input.
	header, _ := br.Peek(headerSize)
	return IsRDA(header)
}
