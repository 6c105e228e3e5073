// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rda

package rda

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/woozymasta/pathrules"
)

func TestOpen_RoundTrip(t *testing.T) {
	t.Parallel()

	fixtures := sampleEntries()
	path := writeArchive(t, buildArchive(t, fixtures))

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if r.FileCount() != 2 {
		t.Fatalf("FileCount=%d, want 2", r.FileCount())
	}

	entries := r.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(entries)=%d, want 2", len(entries))
	}
	if entries[0].Path != fixtures[0].name || entries[1].Path != fixtures[1].name {
		t.Fatalf("paths = [%q, %q]", entries[0].Path, entries[1].Path)
	}
	if entries[0].IsCompressed() || !entries[1].IsCompressed() {
		t.Fatal("compression flags not preserved")
	}

	for _, f := range fixtures {
		got, err := r.ReadEntry(f.name)
		if err != nil {
			t.Fatalf("ReadEntry %s: %v", f.name, err)
		}
		if !bytes.Equal(got, f.content) {
			t.Fatalf("ReadEntry %s = %q, want %q", f.name, got, f.content)
		}
	}

	// Lookup accepts either separator style.
	if _, err := r.ReadEntry("data/sounds/horn.wav"); err != nil {
		t.Fatalf("ReadEntry normalized: %v", err)
	}
}

func TestOpen_NotRDA(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.rda")
	if err := os.WriteFile(path, bytes.Repeat([]byte("not an archive "), 40), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path)
	if !errors.Is(err, ErrNotRDA) {
		t.Fatalf("expected ErrNotRDA, got %v", err)
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.rda")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNewReaderFromReader(t *testing.T) {
	t.Parallel()

	r, err := NewReaderFromReader(bytes.NewReader(buildArchive(t, sampleEntries())), ReaderOptions{})
	if err != nil {
		t.Fatalf("NewReaderFromReader: %v", err)
	}
	if len(r.Entries()) != 2 {
		t.Fatalf("len(entries)=%d, want 2", len(r.Entries()))
	}

	if _, err := NewReaderFromReader(nil, ReaderOptions{}); !errors.Is(err, ErrNilReader) {
		t.Fatalf("expected ErrNilReader, got %v", err)
	}
}

func TestReadEntry_NotFound(t *testing.T) {
	t.Parallel()

	r, err := NewReaderFromBytes(buildArchive(t, sampleEntries()), ReaderOptions{})
	if err != nil {
		t.Fatalf("NewReaderFromBytes: %v", err)
	}

	_, err = r.ReadEntry("missing.txt")
	if !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}

	var nilReader *Reader
	if _, err := nilReader.ReadEntry("a"); !errors.Is(err, ErrNilReader) {
		t.Fatalf("expected ErrNilReader, got %v", err)
	}
}

func TestReadEntry_UnderDeclaredSize(t *testing.T) {
	t.Parallel()

	data := buildArchive(t, []fixtureEntry{
		{name: "a.txt", content: []byte("stored entry")},
		{name: "b.bin", content: bytes.Repeat([]byte{1, 2, 3, 4}, 100), compress: true, sizeDelta: -10},
		{name: "c.bin", content: bytes.Repeat([]byte("tail"), 50), compress: true},
	})

	r, err := NewReaderFromBytes(data, ReaderOptions{})
	if err != nil {
		t.Fatalf("NewReaderFromBytes: %v", err)
	}

	_, err = r.ReadEntry("b.bin")
	if !errors.Is(err, ErrDecompression) {
		t.Fatalf("expected ErrDecompression, got %v", err)
	}

	var entryErr *EntryError
	if !errors.As(err, &entryErr) {
		t.Fatalf("expected *EntryError, got %T", err)
	}
	if entryErr.Path != "b.bin" || entryErr.Index != 1 {
		t.Fatalf("EntryError names %q #%d, want b.bin #1", entryErr.Path, entryErr.Index)
	}

	// Neighbour entries are unaffected.
	got, err := r.ReadEntry("a.txt")
	if err != nil || string(got) != "stored entry" {
		t.Fatalf("a.txt = %q, %v", got, err)
	}
	got, err = r.ReadEntry("c.bin")
	if err != nil || !bytes.Equal(got, bytes.Repeat([]byte("tail"), 50)) {
		t.Fatalf("c.bin = %q, %v", got, err)
	}
}

func TestReadEntry_DecompressionFailures(t *testing.T) {
	t.Parallel()

	content := bytes.Repeat([]byte("payload"), 32)
	testCases := []struct {
		name  string
		entry fixtureEntry
	}{
		{name: "over declared", entry: fixtureEntry{name: "x", content: content, compress: true, sizeDelta: 7}},
		{name: "not zlib", entry: fixtureEntry{name: "x", content: content, compress: true, payload: content}},
		{name: "truncated stream", entry: fixtureEntry{name: "x", content: content, compress: true, payload: zlibCompress(t, content)[:10]}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r, err := NewReaderFromBytes(buildArchive(t, []fixtureEntry{tc.entry}), ReaderOptions{})
			if err != nil {
				t.Fatalf("NewReaderFromBytes: %v", err)
			}

			if _, err := r.ReadEntry("x"); !errors.Is(err, ErrDecompression) {
				t.Fatalf("expected ErrDecompression, got %v", err)
			}
		})
	}
}

// Not parallel: measures allocations of a single call.
func TestReadEntry_HugeDeclaredSize(t *testing.T) {
	content := []byte("tiny")
	data := buildArchive(t, []fixtureEntry{
		{name: "huge.bin", content: content, compress: true, sizeDelta: math.MaxInt32 - len(content)},
	})

	r, err := NewReaderFromBytes(data, ReaderOptions{})
	if err != nil {
		t.Fatalf("NewReaderFromBytes: %v", err)
	}

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err = r.ReadEntry("huge.bin")
	runtime.ReadMemStats(&after)

	if !errors.Is(err, ErrDecompression) {
		t.Fatalf("expected ErrDecompression, got %v", err)
	}

	if delta := after.TotalAlloc - before.TotalAlloc; delta > 16<<20 {
		t.Fatalf("allocated %d bytes for %d-byte stream", delta, len(content))
	}
}

func TestReadEntryInfo_OutOfBounds(t *testing.T) {
	t.Parallel()

	r, err := NewReaderFromBytes(buildArchive(t, sampleEntries()), ReaderOptions{})
	if err != nil {
		t.Fatalf("NewReaderFromBytes: %v", err)
	}

	info := r.Entries()[0]
	info.Offset = uint32(r.Size()) - 2

	_, err = r.ReadEntryInfo(info)
	if !errors.Is(err, ErrInvalidEntryOffset) {
		t.Fatalf("expected ErrInvalidEntryOffset, got %v", err)
	}

	info.Offset = 0xFFFFFFFF
	info.DecompressedSize = 0xFFFFFFFF
	if _, err := r.ReadEntryInfo(info); !errors.Is(err, ErrInvalidEntryOffset) {
		t.Fatalf("expected ErrInvalidEntryOffset on wrap, got %v", err)
	}
}

func TestReaderOptions_Filters(t *testing.T) {
	t.Parallel()

	data := buildArchive(t, []fixtureEntry{
		{name: "data/config/game.xml", content: []byte("a")},
		{name: "data/sounds/horn.wav", content: []byte("b")},
		{name: "data/sounds/tmp/old.wav", content: []byte("c")},
		{name: "", content: []byte("junk")},
	})

	testCases := []struct {
		name string
		opts ReaderOptions
		want []string
	}{
		{
			name: "all",
			opts: ReaderOptions{},
			want: []string{"data/config/game.xml", "data/sounds/horn.wav", "data/sounds/tmp/old.wav", ""},
		},
		{
			name: "junk filter",
			opts: ReaderOptions{EnableJunkFilter: true},
			want: []string{"data/config/game.xml", "data/sounds/horn.wav", "data/sounds/tmp/old.wav"},
		},
		{
			name: "prefix",
			opts: ReaderOptions{EntryPathPrefix: `data\sounds`},
			want: []string{"data/sounds/horn.wav", "data/sounds/tmp/old.wav"},
		},
		{
			name: "rules",
			opts: ReaderOptions{
				Rules: []pathrules.Rule{
					{Action: pathrules.ActionInclude, Pattern: "data/sounds/**"},
					{Action: pathrules.ActionExclude, Pattern: "data/sounds/tmp/**"},
				},
				RuleMatcherOptions: pathrules.MatcherOptions{
					CaseInsensitive: true,
					DefaultAction:   pathrules.ActionExclude,
				},
			},
			want: []string{"data/sounds/horn.wav"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			entries, err := ListEntriesFromBytes(data, tc.opts)
			if err != nil {
				t.Fatalf("ListEntriesFromBytes: %v", err)
			}

			if len(entries) != len(tc.want) {
				t.Fatalf("len(entries)=%d, want %d", len(entries), len(tc.want))
			}
			for i := range entries {
				if entries[i].Path != tc.want[i] {
					t.Fatalf("entries[%d]=%q, want %q", i, entries[i].Path, tc.want[i])
				}
			}
		})
	}
}

func TestReaderOptions_InvalidRules(t *testing.T) {
	t.Parallel()

	_, err := ListEntriesFromBytes(buildArchive(t, sampleEntries()), ReaderOptions{
		Rules: []pathrules.Rule{{Action: pathrules.ActionUnknown, Pattern: "*.wav"}},
	})
	if !errors.Is(err, ErrInvalidRules) {
		t.Fatalf("expected ErrInvalidRules, got %v", err)
	}
}

func TestListEntries_File(t *testing.T) {
	t.Parallel()

	path := writeArchive(t, buildArchive(t, sampleEntries()))
	entries, err := ListEntries(path)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries)=%d, want 2", len(entries))
	}
	if entries[0].TimeStamp != 1161043200 {
		t.Fatalf("timestamp=%d, want 1161043200", entries[0].TimeStamp)
	}
}
