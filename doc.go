// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rda

/*
Package rda decodes RDA V1.1 ("Crypted Resource File V1.1") game resource
archives. The whole archive is loaded into memory; header and dictionary are
descrambled with the fixed keyless stream cipher, entries are addressed by
absolute offsets and stored either raw or as zlib streams (compression flag 7).

Layout:
  - header, 260 bytes: magic, reserved area, little-endian file count at 256;
  - dictionary, count * 276 bytes: 256-byte UTF-8 name, offset, compressed size,
    decompressed size, compression flag, timestamp;
  - payload region addressed by dictionary offsets.

Header and dictionary are scrambled as two independent blocks, each starting
from the same generator seed. Deobfuscate handles one block at a time.

# Detecting

Detection peeks the header and does not consume the stream:

	br := bufio.NewReader(f)
	if !rda.Detect(br) {
	    return nil
	}

# Reading

Open an archive and read entries:

	r, err := rda.Open("data0.rda")
	if err != nil {
	    return err
	}
	for _, e := range r.Entries() {
	    data, err := r.ReadEntry(e.Path)
	    if err != nil {
	        return err
	    }
	    _ = data
	}

Filename fields are cut at the first NUL byte by default. Use NameModeRaw to
keep the full field (only trailing NUL bytes are trimmed):

	r, err := rda.OpenWithOptions("data0.rda", rda.ReaderOptions{
	    NameMode: rda.NameModeRaw,
	})

Select entries with github.com/woozymasta/pathrules rules:

	entries, err := rda.ListEntriesWithOptions("data0.rda", rda.ReaderOptions{
	    Rules: []pathrules.Rule{
	        {Action: pathrules.ActionInclude, Pattern: "data/sounds/**"},
	    },
	    RuleMatcherOptions: pathrules.MatcherOptions{
	        CaseInsensitive: true,
	        DefaultAction:   pathrules.ActionExclude,
	    },
	})

# Extracting

Extract all entries to a directory (parallel workers):

	if err := r.Extract(ctx, "out/", rda.ExtractOptions{MaxWorkers: 4}); err != nil {
	    return err
	}

Path sanitization is enabled by default; set RawNames to keep stored names.

# Importing

Importer drives a caller-provided Sink and can be registered together with
other decoders in a Registry:

	sink := rda.NewMemorySink()
	registry := rda.NewRegistry(rda.NewImporter(sink, rda.ImporterOptions{
	    Logger: &logger,
	}))
	if _, err := registry.Import(ctx, nil, "data0.rda", f); err != nil {
	    return err
	}

Every filename is decoded before the sink receives anything. Failures after
that point abort the archive and call Sink.Abort; entry failures are reported
as *EntryError wrapping ErrDecompression, ErrInvalidFilenameEncoding or
ErrInvalidEntryOffset.
*/
package rda
