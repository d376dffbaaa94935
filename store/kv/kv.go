// Package kv persists the room registry through a minimal string
// key-value collaborator, the storage contract of the original ledgers:
// the "rooms" key holds the whole registry as a JSON array, and very old
// data may also keep per-room detail under the room's own key.
//
// The decoder accepts every persisted schema generation and normalizes
// to the current model; malformed data degrades to an empty registry
// with a log line, never an error.
package kv

import "sync"

// KV is the external key-value collaborator. Implementations may be
// backed by anything that stores strings: a file, a browser-style
// storage bridge, a remote config service.
type KV interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// MapKV is an in-process KV backed by a map. Safe for concurrent use.
type MapKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMapKV creates an empty MapKV.
func NewMapKV() *MapKV {
	return &MapKV{data: make(map[string]string)}
}

func (m *MapKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MapKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}

func (m *MapKV) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}
