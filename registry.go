// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rda

package rda

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
)

// Decoder is an archive decoder capability registered in a Registry.
type Decoder interface {
	// Name returns a human-readable decoder name.
	Name() string
	// Handles reports whether input is accepted. It may only peek br.
	Handles(name string, br *bufio.Reader) bool
	// Import decodes input into the decoder's sink under parent.
	Import(ctx context.Context, parent Handle, name string, src io.Reader) error
}

// Registry is an explicit table of decoders probed in registration order.
type Registry struct {
	decoders []Decoder
	mu       sync.RWMutex
}

// NewRegistry returns registry holding decoders in given order.
func NewRegistry(decoders ...Decoder) *Registry {
	r := &Registry{}
	for _, d := range decoders {
		r.Register(d)
	}

	return r
}

// Register appends decoder to the table. Nil decoders are ignored.
func (r *Registry) Register(d Decoder) {
	if d == nil {
		return
	}

	r.mu.Lock()
	r.decoders = append(r.decoders, d)
	r.mu.Unlock()
}

// Decoders returns a copy of registered decoders.
func (r *Registry) Decoders() []Decoder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Decoder, len(r.decoders))
	copy(out, r.decoders)
	return out
}

// Detect returns the first decoder that handles input, or nil.
func (r *Registry) Detect(name string, br *bufio.Reader) Decoder {
	for _, d := range r.Decoders() {
		if d.Handles(name, br) {
			return d
		}
	}

	return nil
}

// Import detects decoder for src and imports it. It returns the decoder used.
func (r *Registry) Import(ctx context.Context, parent Handle, name string, src io.Reader) (Decoder, error) {
	if src == nil {
		return nil, ErrNilReader
	}

	br, ok := src.(*bufio.Reader)
	if !ok || br.Size() < headerSize {
		br = bufio.NewReader(src)
	}

	d := r.Detect(name, br)
	if d == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoDecoder, name)
	}

	if err := d.Import(ctx, parent, name, br); err != nil {
		return d, err
	}

	return d, nil
}
