// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rda

package rda

import "fmt"

// Handle is an opaque reference to an entity created by a Sink.
type Handle any

// Sink receives decoded archive content. Implementations own persistence
// of archives, directories and files; the importer only drives it.
type Sink interface {
	// CreateArchive creates archive entity named name under parent (nil for top level).
	CreateArchive(name string, parent Handle) (Handle, error)
	// CreateDirectory creates one directory named name under parent.
	CreateDirectory(name string, parent Handle) (Handle, error)
	// CreateFile stores one decoded file named name under dir.
	CreateFile(name string, dir Handle, data []byte) error
	// Abort discards everything created for archive after a failed import.
	Abort(archive Handle, cause error) error
}

// treeBuilder resolves directory handles for parent paths, creating missing
// directories lazily, one segment at a time.
type treeBuilder struct {
	sink Sink
	root Handle
	dirs map[string]Handle
}

// newTreeBuilder returns builder rooted at archive handle.
func newTreeBuilder(sink Sink, root Handle) *treeBuilder {
	return &treeBuilder{
		sink: sink,
		root: root,
		dirs: make(map[string]Handle),
	}
}

// directory returns handle of directory at slash-separated parentPath.
func (t *treeBuilder) directory(parentPath string) (Handle, error) {
	if parentPath == "" {
		return t.root, nil
	}

	if h, ok := t.dirs[parentPath]; ok {
		return h, nil
	}

	grandParent, name := SplitParentPath(parentPath)
	parent, err := t.directory(grandParent)
	if err != nil {
		return nil, err
	}

	h, err := t.sink.CreateDirectory(name, parent)
	if err != nil {
		return nil, fmt.Errorf("create directory %s: %w", parentPath, err)
	}

	t.dirs[parentPath] = h
	return h, nil
}
