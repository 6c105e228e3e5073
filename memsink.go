// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rda

package rda

import (
	"bytes"
	"fmt"
	"path"
	"slices"
	"sync"
)

// MemoryNode is the Handle type produced by MemorySink.
type MemoryNode struct {
	// Archive is the archive name the node belongs to.
	Archive string
	// Path is slash-separated directory path inside archive; empty for archive root.
	Path string
}

// memoryArchive holds content of one imported archive.
type memoryArchive struct {
	files map[string][]byte
	dirs  map[string]struct{}
}

// MemorySink is a Sink keeping imported archives in memory. Safe for concurrent use.
type MemorySink struct {
	archives map[string]*memoryArchive
	aborted  map[string]error
	mu       sync.Mutex
}

// NewMemorySink returns an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{
		archives: make(map[string]*memoryArchive),
		aborted:  make(map[string]error),
	}
}

// CreateArchive creates (or resets) archive entity. Parent is recorded as name prefix
// when it is a MemoryNode.
func (s *MemorySink) CreateArchive(name string, parent Handle) (Handle, error) {
	if p, ok := parent.(MemoryNode); ok {
		name = path.Join(p.Archive, p.Path, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.archives[name] = &memoryArchive{
		files: make(map[string][]byte),
		dirs:  make(map[string]struct{}),
	}
	delete(s.aborted, name)

	return MemoryNode{Archive: name}, nil
}

// CreateDirectory records directory name under parent.
func (s *MemorySink) CreateDirectory(name string, parent Handle) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, archive, err := s.resolve(parent)
	if err != nil {
		return nil, err
	}

	dirPath := path.Join(node.Path, name)
	archive.dirs[dirPath] = struct{}{}

	return MemoryNode{Archive: node.Archive, Path: dirPath}, nil
}

// CreateFile stores a copy of data as file name under dir.
func (s *MemorySink) CreateFile(name string, dir Handle, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, archive, err := s.resolve(dir)
	if err != nil {
		return err
	}

	archive.files[path.Join(node.Path, name)] = bytes.Clone(data)
	return nil
}

// Abort drops everything stored for archive and remembers cause.
func (s *MemorySink) Abort(archive Handle, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, _, err := s.resolve(archive)
	if err != nil {
		return err
	}

	delete(s.archives, node.Archive)
	s.aborted[node.Archive] = cause
	return nil
}

// Archives returns sorted names of stored archives.
func (s *MemorySink) Archives() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.archives))
	for name := range s.archives {
		names = append(names, name)
	}

	slices.Sort(names)
	return names
}

// Files returns copy of files of archive keyed by slash-separated path.
func (s *MemorySink) Files(archive string) map[string][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.archives[archive]
	if !ok {
		return nil
	}

	out := make(map[string][]byte, len(a.files))
	for p, data := range a.files {
		out[p] = bytes.Clone(data)
	}

	return out
}

// Directories returns sorted directory paths created in archive.
func (s *MemorySink) Directories(archive string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.archives[archive]
	if !ok {
		return nil
	}

	dirs := make([]string, 0, len(a.dirs))
	for d := range a.dirs {
		dirs = append(dirs, d)
	}

	slices.Sort(dirs)
	return dirs
}

// Aborted reports whether import of archive was aborted.
func (s *MemorySink) Aborted(archive string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.aborted[archive]
	return ok
}

// AbortCause returns error passed to Abort for archive, or nil.
func (s *MemorySink) AbortCause(archive string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.aborted[archive]
}

// resolve returns node and archive addressed by handle. Caller holds s.mu.
func (s *MemorySink) resolve(h Handle) (MemoryNode, *memoryArchive, error) {
	node, ok := h.(MemoryNode)
	if !ok {
		return MemoryNode{}, nil, fmt.Errorf("unexpected handle type %T", h)
	}

	archive, ok := s.archives[node.Archive]
	if !ok {
		return MemoryNode{}, nil, fmt.Errorf("archive %s not found", node.Archive)
	}

	return node, archive, nil
}
