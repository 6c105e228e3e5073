package rda

import (
	"bytes"
	"context"
	"fmt"
	"testing"
)

const benchDefaultEntries = 128

var (
	// benchSink prevents compiler elimination in benchmark loops.
	benchSink int
)

// createBenchArchive builds archive with entries alternating stored and compressed payloads.
func createBenchArchive(b *testing.B, count int) []byte {
	b.Helper()

	entries := make([]fixtureEntry, count)
	for i := range entries {
		entries[i] = fixtureEntry{
			name:     fmt.Sprintf("data/bench/%03d/file_%05d.bin", i%16, i),
			content:  bytes.Repeat([]byte(fmt.Sprintf("payload-%05d;", i)), 256),
			compress: i%2 == 1,
		}
	}

	return buildArchive(b, entries)
}

func BenchmarkDeobfuscate(b *testing.B) {
	buf := make([]byte, benchDefaultEntries*entrySize)

	b.SetBytes(int64(len(buf)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Deobfuscate(buf)
	}
}

func BenchmarkParse(b *testing.B) {
	data := createBenchArchive(b, benchDefaultEntries)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r, err := NewReaderFromBytes(data, ReaderOptions{})
		if err != nil {
			b.Fatal(err)
		}
		benchSink += len(r.Entries())
	}
}

func BenchmarkReadAllEntries(b *testing.B) {
	r, err := NewReaderFromBytes(createBenchArchive(b, benchDefaultEntries), ReaderOptions{})
	if err != nil {
		b.Fatal(err)
	}
	entries := r.Entries()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, e := range entries {
			data, err := r.ReadEntryInfo(e)
			if err != nil {
				b.Fatal(err)
			}
			benchSink += len(data)
		}
	}
}

func BenchmarkExtract(b *testing.B) {
	r, err := NewReaderFromBytes(createBenchArchive(b, benchDefaultEntries), ReaderOptions{})
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := r.Extract(context.Background(), b.TempDir(), ExtractOptions{MaxWorkers: 4}); err != nil {
			b.Fatal(err)
		}
	}
}
