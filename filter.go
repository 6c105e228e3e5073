// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rda

package rda

import (
	"fmt"
	"strings"

	"github.com/woozymasta/pathrules"
)

// ruleMatcher holds compiled entry selection rules.
type ruleMatcher struct {
	matcher *pathrules.Matcher
}

// newRuleMatcher compiles entry path rules; it returns nil when no rule is set.
func newRuleMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*ruleMatcher, error) {
	rules = normalizeRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidRules, err)
	}

	return &ruleMatcher{matcher: matcher}, nil
}

// normalizeRules normalizes rule patterns and drops empty patterns.
func normalizeRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := normalizePathForMatching(rule.Pattern)
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// Match reports whether path is selected by rules. Nil matcher selects everything.
func (m *ruleMatcher) Match(p string) bool {
	if m == nil || m.matcher == nil {
		return true
	}

	candidate := NormalizePath(p)
	if candidate == "" {
		return false
	}

	return m.matcher.Included(candidate, false)
}

// filterEntries applies all selection options in fixed order: junk, prefix, rules.
func filterEntries(entries []EntryInfo, opts ReaderOptions) ([]EntryInfo, error) {
	if opts.EnableJunkFilter {
		entries = filterJunkEntries(entries)
	}

	entries = filterEntriesByPrefix(entries, opts.EntryPathPrefix)

	matcher, err := newRuleMatcher(opts.Rules, opts.RuleMatcherOptions)
	if err != nil {
		return nil, err
	}
	if matcher == nil {
		return entries, nil
	}

	out := make([]EntryInfo, 0, len(entries))
	for _, entry := range entries {
		if matcher.Match(entry.Path) {
			out = append(out, entry)
		}
	}

	return out, nil
}

// filterEntriesByPrefix keeps entries under prefix (or exact match if it points to a file).
func filterEntriesByPrefix(entries []EntryInfo, prefix string) []EntryInfo {
	prefix = NormalizePath(prefix)
	if prefix == "" {
		return entries
	}

	withSlash := prefix + "/"
	out := make([]EntryInfo, 0, len(entries))
	for _, entry := range entries {
		entryPath := NormalizePath(entry.Path)
		if entryPath == prefix || strings.HasPrefix(entryPath, withSlash) {
			out = append(out, entry)
		}
	}

	return out
}

// filterJunkEntries drops entries whose names cannot address a file.
func filterJunkEntries(entries []EntryInfo) []EntryInfo {
	if len(entries) == 0 {
		return entries
	}

	filtered := make([]EntryInfo, 0, len(entries))
	for _, entry := range entries {
		if _, err := normalizeExtractEntryPath(entry.Path); err != nil {
			continue
		}

		filtered = append(filtered, entry)
	}

	return filtered
}
