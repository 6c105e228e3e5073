// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rda

package rda

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zlib"
)

// fixtureEntry describes one entry of a hand-built test archive.
type fixtureEntry struct {
	// name is stored in filename field; rawName overrides it when set.
	name    string
	rawName []byte
	content []byte
	// compress stores content as zlib stream with flag 7.
	compress bool
	// sizeDelta is added to declared decompressed size.
	sizeDelta int
	// payload overrides stored bytes when set.
	payload   []byte
	timestamp uint32
}

// buildHeader returns obfuscated 260-byte header declaring count entries.
func buildHeader(count int32) []byte {
	header := make([]byte, headerSize)
	copy(header, Magic)
	binary.LittleEndian.PutUint32(header[fileCountOffset:], uint32(count))
	Obfuscate(header)
	return header
}

// buildArchive assembles RDA archive with obfuscated header and dictionary
// and payloads placed after the dictionary in entry order.
func buildArchive(t testing.TB, entries []fixtureEntry) []byte {
	t.Helper()

	dict := make([]byte, len(entries)*entrySize)
	var payload bytes.Buffer
	dataStart := headerSize + len(dict)

	for i, e := range entries {
		stored := e.payload
		if stored == nil {
			stored = e.content
			if e.compress {
				stored = zlibCompress(t, e.content)
			}
		}

		record := dict[i*entrySize : (i+1)*entrySize]
		name := e.rawName
		if name == nil {
			name = []byte(e.name)
		}
		copy(record[:nameFieldSize], name)

		flag := uint32(0)
		if e.compress {
			flag = CompressionDeflate
		}

		fields := record[nameFieldSize:]
		binary.LittleEndian.PutUint32(fields[0:4], uint32(dataStart+payload.Len()))
		binary.LittleEndian.PutUint32(fields[4:8], uint32(len(stored)))
		binary.LittleEndian.PutUint32(fields[8:12], uint32(len(e.content)+e.sizeDelta))
		binary.LittleEndian.PutUint32(fields[12:16], flag)
		binary.LittleEndian.PutUint32(fields[16:20], e.timestamp)

		payload.Write(stored)
	}

	Obfuscate(dict)

	out := buildHeader(int32(len(entries)))
	out = append(out, dict...)
	return append(out, payload.Bytes()...)
}

// zlibCompress returns zlib-wrapped DEFLATE stream of data.
func zlibCompress(t testing.TB, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}

	return buf.Bytes()
}

// writeArchive stores archive bytes in a temp file and returns its path.
func writeArchive(t testing.TB, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "archive.rda")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write archive: %v", err)
	}

	return path
}

// sampleEntries returns one stored and one compressed entry.
func sampleEntries() []fixtureEntry {
	return []fixtureEntry{
		{name: "data/config/game.xml", content: []byte("<game speed=\"normal\"/>"), timestamp: 1161043200},
		{name: `data\sounds\horn.wav`, content: bytes.Repeat([]byte("RIFF-horn-"), 64), compress: true},
	}
}
