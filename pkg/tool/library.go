// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package tool

import (
	"fmt"
	"sort"
	"sync"

	"cncsim-go/pkg/errors"
)

// Library is a registry of tools keyed by identifier. It is safe for
// concurrent use.
type Library struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewLibrary creates an empty tool library.
func NewLibrary() *Library {
	return &Library{tools: make(map[string]Tool)}
}

// Add registers a tool. Invalid tools and duplicate identifiers are
// rejected.
func (l *Library) Add(t Tool) error {
	if !t.Valid() {
		return errors.ToolInvalid(t.ID(), "tool fails validation")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.tools[t.ID()]; exists {
		return errors.ToolInvalid(t.ID(), "duplicate tool id")
	}
	l.tools[t.ID()] = t
	return nil
}

// Replace registers a tool, overwriting any existing entry with the same
// identifier.
func (l *Library) Replace(t Tool) error {
	if !t.Valid() {
		return errors.ToolInvalid(t.ID(), "tool fails validation")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tools[t.ID()] = t
	return nil
}

// Get looks up a tool by identifier.
func (l *Library) Get(id string) (Tool, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.tools[id]
	return t, ok
}

// MustGet looks up a tool and returns a structured error when absent.
func (l *Library) MustGet(id string) (Tool, error) {
	t, ok := l.Get(id)
	if !ok {
		return Tool{}, errors.ResourceInvalid("tool", fmt.Sprintf("tool %q not in library", id))
	}
	return t, nil
}

// Remove deletes a tool from the library.
func (l *Library) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.tools, id)
}

// Len returns the number of registered tools.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.tools)
}

// List returns all tools sorted by identifier.
func (l *Library) List() []Tool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Tool, 0, len(l.tools))
	for _, t := range l.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
