// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rda

package rda

import (
	"fmt"
	"hash/fnv"
	"path"
	"strconv"
	"strings"
	"unicode"
)

// maxSanitizedSegmentLen limits one path segment to common filesystem-safe length.
const maxSanitizedSegmentLen = 240

// reservedDeviceNames are case-insensitive Windows device names that cannot be file names.
var reservedDeviceNames = map[string]struct{}{
	"aux": {}, "con": {}, "nul": {}, "prn": {}, "clock$": {}, "conin$": {}, "conout$": {},
	"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {}, "com6": {}, "com7": {}, "com8": {}, "com9": {},
	"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {}, "lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
}

// SanitizePath rewrites one archive path to deterministic filesystem-safe slash-separated form.
func SanitizePath(pathValue string) (string, error) {
	normalized := NormalizePath(pathValue)
	if normalized == "" {
		return "", nil
	}

	sanitized, err := sanitizeRelativePath(normalized)
	if err != nil {
		return "", err
	}

	if _, err := normalizeExtractEntryPath(sanitized); err != nil {
		return "", err
	}

	return sanitized, nil
}

// sanitizeEntryInfoPaths rewrites entry paths to unique filesystem-safe names.
// Names differing only in case collide on common filesystems and get "~N" suffixes.
func sanitizeEntryInfoPaths(entries []EntryInfo) ([]EntryInfo, error) {
	out := make([]EntryInfo, len(entries))
	used := make(map[string]struct{}, len(entries))

	for i := range entries {
		relativePath := strings.ReplaceAll(entries[i].Path, `\`, `/`)
		if normalized, err := normalizeExtractEntryPath(entries[i].Path); err == nil {
			relativePath = normalized
		}

		sanitized, err := sanitizeRelativePath(relativePath)
		if err == nil {
			sanitized, err = makeSanitizedPathUnique(sanitized, used)
		}
		if err != nil {
			return nil, fmt.Errorf("sanitize path %s: %w", entries[i].Path, err)
		}

		out[i] = entries[i]
		out[i].Path = sanitized
	}

	return out, nil
}

// sanitizeRelativePath sanitizes each segment of relative slash-separated path.
func sanitizeRelativePath(relativePath string) (string, error) {
	parts := strings.Split(relativePath, "/")
	sanitized := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || part == "." {
			continue
		}

		segment, err := sanitizePathSegment(part)
		if err != nil {
			return "", err
		}

		sanitized = append(sanitized, segment)
	}
	if len(sanitized) == 0 {
		return "_", nil
	}

	return strings.Join(sanitized, "/"), nil
}

// sanitizePathSegment makes one path segment portable across filesystems.
func sanitizePathSegment(segment string) (string, error) {
	if segment == ".." {
		return "_", nil
	}

	var b strings.Builder
	b.Grow(len(segment))
	for _, r := range segment {
		if unicode.IsControl(r) || unicode.In(r, unicode.Cf) || r == '\uFFFD' || strings.ContainsRune(`<>:"/\|?*`, r) {
			b.WriteRune('_')
			continue
		}

		b.WriteRune(r)
	}

	sanitized := strings.TrimRight(b.String(), ". ")
	if sanitized == "" {
		sanitized = "_"
	}

	if isReservedDeviceName(sanitized) {
		sanitized = "_" + sanitized
	}

	if len(sanitized) > maxSanitizedSegmentLen {
		sanitized = shortenSegmentDeterministic(sanitized, maxSanitizedSegmentLen)
	}

	return sanitized, nil
}

// isReservedDeviceName reports whether name stem is a reserved device identifier.
func isReservedDeviceName(name string) bool {
	stem := strings.ToLower(strings.TrimSpace(name))
	if dot := strings.IndexByte(stem, '.'); dot >= 0 {
		stem = stem[:dot]
	}

	_, ok := reservedDeviceNames[stem]
	return ok
}

// makeSanitizedPathUnique resolves case-insensitive collisions by adding numeric suffix.
func makeSanitizedPathUnique(pathValue string, used map[string]struct{}) (string, error) {
	key := strings.ToLower(pathValue)
	if _, exists := used[key]; !exists {
		used[key] = struct{}{}
		return pathValue, nil
	}

	dir := path.Dir(pathValue)
	name := path.Base(pathValue)
	for idx := 2; idx < 1000000; idx++ {
		candidate := withNumericSuffix(name, idx)
		if dir != "." {
			candidate = dir + "/" + candidate
		}

		candidateKey := strings.ToLower(candidate)
		if _, exists := used[candidateKey]; exists {
			continue
		}

		used[candidateKey] = struct{}{}
		return candidate, nil
	}

	return "", ErrInvalidExtractPath
}

// withNumericSuffix appends "~N" before extension.
func withNumericSuffix(name string, n int) string {
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return base + "~" + strconv.Itoa(n) + ext
}

// shortenSegmentDeterministic shortens long segment and keeps a hash of the full value.
func shortenSegmentDeterministic(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(value))
	hashPart := fmt.Sprintf("~%08x", h.Sum32())

	return value[:maxLen-len(hashPart)] + hashPart
}
