// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rda

package rda

import (
	"path"
	"strings"
)

// NormalizePath converts an archive path to normalized slash-separated form.
// It trims spaces, accepts both "/" and "\", removes leading "./" and "/", and cleans "." segments.
func NormalizePath(raw string) string {
	raw = normalizePathForMatching(raw)
	raw = strings.TrimPrefix(raw, "/")
	raw = path.Clean("/" + raw)
	raw = strings.TrimPrefix(raw, "/")
	if raw == "." {
		return ""
	}

	return strings.TrimSuffix(raw, "/")
}

// SplitParentPath splits archive filename into parent directory path and simple name.
// Both "/" and "\" separate segments; returned parent uses "/" and is empty for root files.
// Empty and "." segments are dropped, everything else (spaces included) is kept as stored.
func SplitParentPath(fullPath string) (string, string) {
	segments := strings.FieldsFunc(fullPath, func(r rune) bool {
		return r == '/' || r == '\\'
	})

	kept := segments[:0]
	for _, segment := range segments {
		if segment != "." {
			kept = append(kept, segment)
		}
	}

	if len(kept) == 0 {
		return "", ""
	}

	return strings.Join(kept[:len(kept)-1], "/"), kept[len(kept)-1]
}

// normalizePathForMatching normalizes user/input paths for matcher use.
func normalizePathForMatching(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, `\`, `/`)
	p = strings.TrimPrefix(p, "./")
	return p
}
