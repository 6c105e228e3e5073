// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rda

package rda

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// DecoderName is the registry name of the RDA V1.1 importer.
const DecoderName = "rda-v1.1"

// Importer decodes RDA V1.1 archives into a Sink. It implements Decoder.
type Importer struct {
	sink   Sink
	logger zerolog.Logger
	opts   ReaderOptions
}

// NewImporter returns importer emitting decoded files into sink.
func NewImporter(sink Sink, opts ImporterOptions) *Importer {
	opts.applyDefaults()

	return &Importer{
		sink:   sink,
		logger: opts.Logger.With().Str("component", "rda_importer").Logger(),
		opts:   opts.Reader,
	}
}

// Name returns decoder name.
func (im *Importer) Name() string {
	return DecoderName
}

// Handles reports whether br starts with an RDA V1.1 header without consuming it.
func (im *Importer) Handles(_ string, br *bufio.Reader) bool {
	return Detect(br)
}

// Import reads the whole archive from src and emits every selected entry into
// the sink under a new archive entity named name.
//
// All filenames are decoded before the sink sees anything. A failure after the
// archive entity is created aborts the remaining entries and calls Sink.Abort.
func (im *Importer) Import(ctx context.Context, parent Handle, name string, src io.Reader) error {
	if im == nil || im.sink == nil {
		return ErrNilSink
	}
	if src == nil {
		return ErrNilReader
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	logger := im.logger.With().Str("archive", name).Logger()
	logger.Trace().Int("size", len(data)).Msg("importing RDA file")

	count, entries, err := parseArchive(data, im.opts)
	if err != nil {
		return fmt.Errorf("import %s: %w", name, err)
	}
	logger.Trace().Int("file_count", count).Int("selected", len(entries)).Msg("dictionary decoded")

	if err := checkImportNames(entries); err != nil {
		return fmt.Errorf("import %s: %w", name, err)
	}

	archive, err := im.sink.CreateArchive(name, parent)
	if err != nil {
		return fmt.Errorf("create archive %s: %w", name, err)
	}

	tree := newTreeBuilder(im.sink, archive)
	for i := range entries {
		if err := im.emitEntry(ctx, data, tree, &entries[i]); err != nil {
			logger.Debug().Err(err).Str("entry", entries[i].Path).Msg("import aborted")
			return im.abort(archive, name, err)
		}

		logger.Trace().
			Str("entry", entries[i].Path).
			Uint32("size", entries[i].DecompressedSize).
			Bool("compressed", entries[i].IsCompressed()).
			Msg("entry imported")
	}

	logger.Debug().Int("entries", len(entries)).Msg("RDA file imported")
	return nil
}

// emitEntry extracts one entry payload and hands it to the sink.
func (im *Importer) emitEntry(ctx context.Context, data []byte, tree *treeBuilder, entry *EntryInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	parentPath, simpleName := SplitParentPath(entry.Path)
	dir, err := tree.directory(parentPath)
	if err != nil {
		return entryError(entry, err)
	}

	content, err := extractPayload(data, entry)
	if err != nil {
		return err
	}

	if err := im.sink.CreateFile(simpleName, dir, content); err != nil {
		return entryError(entry, fmt.Errorf("store file: %w", err))
	}

	return nil
}

// checkImportNames rejects entries that would reach the sink without a file name.
func checkImportNames(entries []EntryInfo) error {
	for i := range entries {
		if _, simpleName := SplitParentPath(entries[i].Path); simpleName == "" {
			return entryError(&entries[i], ErrEmptyEntryName)
		}
	}

	return nil
}

// abort signals sink to discard archive and returns cause, joined with abort failure if any.
func (im *Importer) abort(archive Handle, name string, cause error) error {
	cause = fmt.Errorf("import %s: %w", name, cause)
	if err := im.sink.Abort(archive, cause); err != nil {
		return errors.Join(cause, fmt.Errorf("abort archive %s: %w", name, err))
	}

	return cause
}
