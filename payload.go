// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rda

package rda

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"
)

// extractPayload returns decoded content of one entry from the full archive buffer.
// Returned slice never aliases data.
func extractPayload(data []byte, entry *EntryInfo) ([]byte, error) {
	outLen, err := checkedUint32ToInt(entry.DecompressedSize)
	if err != nil {
		return nil, entryError(entry, err)
	}

	src, err := payloadSlice(data, entry.Offset, entry.StoredSize())
	if err != nil {
		return nil, entryError(entry, err)
	}

	if !entry.IsCompressed() {
		return bytes.Clone(src), nil
	}

	out, err := inflateExact(src, outLen)
	if err != nil {
		return nil, entryError(entry, err)
	}

	return out, nil
}

// payloadSlice returns data[offset:offset+size] after bounds validation.
func payloadSlice(data []byte, offset uint32, size uint32) ([]byte, error) {
	start := uint64(offset)
	end := start + uint64(size)
	if end > uint64(len(data)) {
		return nil, fmt.Errorf(
			"%w: payload [%d, %d) outside of %d archive bytes",
			ErrInvalidEntryOffset, start, end, len(data),
		)
	}

	return data[start:end], nil
}

// maxInitialInflateRatio caps the first output allocation relative to stored size.
// Buffer grows past it only as the stream actually produces bytes.
const maxInitialInflateRatio = 16

// inflateExact decodes a zlib stream that must produce exactly outLen bytes.
// Every call uses its own decompressor, so no state is shared between entries.
func inflateExact(src []byte, outLen int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: open zlib stream: %w", ErrDecompression, err)
	}
	defer func() { _ = zr.Close() }()

	initial := outLen
	if limit := len(src) * maxInitialInflateRatio; initial > limit {
		initial = limit
	}

	// One byte past outLen is enough to detect over-long streams. Reading up to
	// EOF of a stream that fits also verifies its checksum.
	out := bytes.NewBuffer(make([]byte, 0, initial))
	n, err := io.Copy(out, io.LimitReader(zr, int64(outLen)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompression, err)
	}

	switch {
	case n < int64(outLen):
		return nil, fmt.Errorf(
			"%w: stream ended after %d bytes, declared %d",
			ErrDecompression, n, outLen,
		)
	case n > int64(outLen):
		return nil, fmt.Errorf(
			"%w: stream holds more than %d declared bytes",
			ErrDecompression, outLen,
		)
	}

	return out.Bytes(), nil
}

// entryError binds err to entry metadata.
func entryError(entry *EntryInfo, err error) error {
	return &EntryError{
		Index:  entry.index,
		Path:   entry.Path,
		Offset: entry.Offset,
		Err:    err,
	}
}

// checkedUint32ToInt converts uint32 to int with platform-safe overflow check.
func checkedUint32ToInt(v uint32) (int, error) {
	if uint64(v) > uint64(math.MaxInt) {
		return 0, ErrSizeOverflow
	}

	return int(v), nil
}
