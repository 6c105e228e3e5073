// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rda

package rda

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/woozymasta/pathrules"
)

// Internal binary layout of RDA V1.1 archives.
const (
	headerSize      = 260 // fixed header block size in bytes
	magicSize       = 26  // magic signature length at header start
	fileCountOffset = 256 // position of little-endian file count in header
	entrySize       = 276 // fixed dictionary record size
	nameFieldSize   = 256 // fixed filename field size in dictionary record
)

// Magic is the deobfuscated signature at the start of every RDA V1.1 header.
const Magic = "Crypted Resource File V1.1"

// CompressionDeflate is the compression flag value of zlib-wrapped DEFLATE payloads.
// Any other flag value means the payload is stored as is.
const CompressionDeflate uint32 = 7

// EntryInfo describes a single parsed dictionary entry.
type EntryInfo struct {
	// Path is the entry filename as decoded from the dictionary.
	Path string `json:"path" yaml:"path"`
	// Offset is absolute byte offset of entry payload in archive.
	Offset uint32 `json:"offset" yaml:"offset"`
	// CompressedSize is stored payload size of compressed entries.
	CompressedSize uint32 `json:"compressed_size" yaml:"compressed_size"`
	// DecompressedSize is the final content size in bytes.
	DecompressedSize uint32 `json:"decompressed_size" yaml:"decompressed_size"`
	// CompressionFlag is raw compression marker, see CompressionDeflate.
	CompressionFlag uint32 `json:"compression_flag,omitempty" yaml:"compression_flag,omitempty"`
	// TimeStamp is Unix timestamp from entry record.
	TimeStamp uint32 `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	// index is position in dictionary, used for error reporting.
	index int
}

// IsCompressed reports whether this entry payload is zlib-wrapped DEFLATE.
func (e *EntryInfo) IsCompressed() bool {
	return e.CompressionFlag == CompressionDeflate
}

// StoredSize returns number of payload bytes occupied in the archive.
func (e *EntryInfo) StoredSize() uint32 {
	if e.IsCompressed() {
		return e.CompressedSize
	}

	return e.DecompressedSize
}

// ModTime returns entry timestamp as UTC time.
func (e *EntryInfo) ModTime() time.Time {
	return time.Unix(int64(e.TimeStamp), 0).UTC()
}

// NameMode controls how the fixed-width dictionary filename field is decoded.
type NameMode string

// Filename decoding modes.
const (
	// NameModeTrimNull cuts the filename at the first NUL byte and ignores padding after it.
	NameModeTrimNull NameMode = "trim_null"
	// NameModeRaw validates the whole field and trims only trailing NUL bytes.
	NameModeRaw NameMode = "raw"
)

// ReaderOptions configures dictionary parsing and entry selection.
type ReaderOptions struct {
	// NameMode controls filename field decoding. Default is NameModeTrimNull.
	NameMode NameMode `json:"name_mode,omitempty" yaml:"name_mode,omitempty"`
	// EntryPathPrefix limits visible entries to one directory (or exact file).
	EntryPathPrefix string `json:"entry_path_prefix,omitempty" yaml:"entry_path_prefix,omitempty"`
	// Rules are ordered include/exclude path rules for entry selection.
	Rules []pathrules.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
	// RuleMatcherOptions control path rule matching.
	RuleMatcherOptions pathrules.MatcherOptions `json:"rule_matcher_options,omitzero" yaml:"rule_matcher_options,omitzero"`
	// EnableJunkFilter drops entries with empty or unusable names from visible entry list.
	EnableJunkFilter bool `json:"enable_junk_filter,omitempty" yaml:"enable_junk_filter,omitempty"`
}

// ExtractOptions configures Extract behavior.
type ExtractOptions struct {
	// OnEntryDone is called after one entry is fully written to disk.
	OnEntryDone func(entry EntryInfo, written int64, outputPath string) `json:"-" yaml:"-"`
	// FileMode controls output file creation policy.
	FileMode ExtractFileMode `json:"file_mode,omitempty" yaml:"file_mode,omitempty"`
	// Entries limits extraction to selected metadata list; nil means all parsed entries.
	Entries []EntryInfo `json:"-" yaml:"-"`
	// MaxWorkers is number of extraction workers (zero means GOMAXPROCS).
	MaxWorkers int `json:"max_workers,omitempty" yaml:"max_workers,omitempty"`
	// RawNames disables default path sanitization during extract.
	RawNames bool `json:"raw_names,omitempty" yaml:"raw_names,omitempty"`
}

// ExtractFileMode controls output file open behavior during extraction.
type ExtractFileMode string

// Output file creation policies for extraction.
const (
	// ExtractFileModeAuto first tries create-only, then falls back to truncate for existing files.
	ExtractFileModeAuto ExtractFileMode = "auto"
	// ExtractFileModeTruncate opens existing files with truncate and creates missing files.
	ExtractFileModeTruncate ExtractFileMode = "truncate"
	// ExtractFileModeCreateOnly creates files only when absent and fails on existing files.
	ExtractFileModeCreateOnly ExtractFileMode = "create_only"
)

// ImporterOptions configures the archive importer.
type ImporterOptions struct {
	// Logger receives trace events of the import pipeline. Nil disables logging.
	Logger *zerolog.Logger `json:"-" yaml:"-"`
	// Reader controls dictionary parsing and entry selection.
	Reader ReaderOptions `json:"reader,omitzero" yaml:"reader,omitzero"`
}

// applyDefaults fills zero-valued reader options with defaults.
func (opts *ReaderOptions) applyDefaults() {
	if opts.NameMode == "" {
		opts.NameMode = NameModeTrimNull
	}

	if opts.RuleMatcherOptions == (pathrules.MatcherOptions{}) {
		opts.RuleMatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionInclude,
		}
	}

	if opts.RuleMatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.RuleMatcherOptions.DefaultAction = pathrules.ActionInclude
	}
}

// applyDefaults fills zero-valued importer options with defaults.
func (opts *ImporterOptions) applyDefaults() {
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}

	opts.Reader.applyDefaults()
}
