// Status source registry for the status server.
//
// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package statusd

import (
	"sort"
	"sync"
)

// StatusSource answers object status queries from the status server.
type StatusSource interface {
	// ObjectsList returns the names of available status objects.
	ObjectsList() []string

	// ObjectStatus returns the status of one object. A nil attrs
	// slice requests all attributes. Unknown objects return nil.
	ObjectStatus(name string, attrs []string) map[string]any

	// EngineState reports the simulation lifecycle state, one of
	// "uninitialized", "ready", "error".
	EngineState() string
}

// StatusProvider returns the status of a single object.
type StatusProvider func(attrs []string) map[string]any

// Adapter is a StatusSource built from registered providers.
type Adapter struct {
	mu        sync.RWMutex
	providers map[string]StatusProvider
	stateFunc func() string
}

// NewAdapter creates an adapter with no providers.
func NewAdapter() *Adapter {
	return &Adapter{providers: make(map[string]StatusProvider)}
}

// RegisterProvider registers a status provider for an object name.
func (a *Adapter) RegisterProvider(name string, provider StatusProvider) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.providers[name] = provider
}

// UnregisterProvider removes a provider.
func (a *Adapter) UnregisterProvider(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.providers, name)
}

// SetEngineStateFunc sets the lifecycle state callback.
func (a *Adapter) SetEngineStateFunc(f func() string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stateFunc = f
}

// ObjectsList implements StatusSource.
func (a *Adapter) ObjectsList() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	objects := make([]string, 0, len(a.providers))
	for name := range a.providers {
		objects = append(objects, name)
	}
	sort.Strings(objects)
	return objects
}

// ObjectStatus implements StatusSource.
func (a *Adapter) ObjectStatus(name string, attrs []string) map[string]any {
	a.mu.RLock()
	provider, ok := a.providers[name]
	a.mu.RUnlock()

	if !ok {
		return nil
	}
	return provider(attrs)
}

// EngineState implements StatusSource.
func (a *Adapter) EngineState() string {
	a.mu.RLock()
	f := a.stateFunc
	a.mu.RUnlock()

	if f != nil {
		return f()
	}
	return "uninitialized"
}

// FilterStatus keeps only the requested attributes. An empty attrs
// slice passes everything through.
func FilterStatus(status map[string]any, attrs []string) map[string]any {
	if len(attrs) == 0 {
		return status
	}

	filtered := make(map[string]any)
	for _, attr := range attrs {
		if val, ok := status[attr]; ok {
			filtered[attr] = val
		}
	}
	return filtered
}
