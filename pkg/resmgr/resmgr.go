// Package resmgr is a small URL-to-bytes provider registry, mirroring the
// browser engine's resource-manager surface for resources the shell serves
// itself (bundled extension assets, icons, popups).
package resmgr

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned by Fetch when no provider has the resource.
var ErrNotFound = errors.New("resource not found")

// Provider serves resource requests. Open returns false when the provider
// does not have the resource, letting the next provider try.
type Provider interface {
	Open(url string) ([]byte, bool)
}

type entry struct {
	provider Provider
	order    int
	seq      int
	id       string
}

// Manager holds providers sorted by order (then registration order) and
// asks each in turn. Safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	entries []entry
	seq     int
}

// New returns an empty Manager.
func New() *Manager { return &Manager{} }

// AddProvider registers a provider. Lower order is consulted first;
// providers with equal order keep registration order. The id tags the
// provider for later removal and may be empty.
func (m *Manager) AddProvider(p Provider, order int, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.entries = append(m.entries, entry{provider: p, order: order, seq: m.seq, id: id})
	sort.SliceStable(m.entries, func(i, j int) bool {
		if m.entries[i].order != m.entries[j].order {
			return m.entries[i].order < m.entries[j].order
		}
		return m.entries[i].seq < m.entries[j].seq
	})
}

// RemoveProviders drops every provider registered under id.
func (m *Manager) RemoveProviders(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.id != id {
			kept = append(kept, e)
		}
	}
	m.entries = kept
}

// Fetch returns the resource bytes for url from the first provider that
// has it.
func (m *Manager) Fetch(url string) ([]byte, error) {
	m.mu.RLock()
	entries := append([]entry(nil), m.entries...)
	m.mu.RUnlock()

	for _, e := range entries {
		if data, ok := e.provider.Open(url); ok {
			return data, nil
		}
	}
	return nil, ErrNotFound
}

type directoryProvider struct {
	origin string
	dir    string
}

// DirectoryProvider serves requests under origin from files in dir.
func DirectoryProvider(origin, dir string) Provider {
	return &directoryProvider{origin: origin, dir: dir}
}

func (p *directoryProvider) Open(url string) ([]byte, bool) {
	rel, ok := strings.CutPrefix(url, p.origin)
	if !ok || rel == "" {
		return nil, false
	}
	data, err := os.ReadFile(filepath.Join(p.dir, filepath.FromSlash(rel)))
	if err != nil {
		return nil, false
	}
	return data, true
}

// FuncProvider adapts a lookup function into a Provider.
type FuncProvider func(url string) ([]byte, bool)

func (f FuncProvider) Open(url string) ([]byte, bool) { return f(url) }
