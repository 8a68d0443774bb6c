// Package storage holds named raw-byte slots in a local key-value store.
package storage

import (
	"errors"
	"fmt"
	"sync"
)

const (
	BackendSQLite = "sqlite"
	BackendDisk   = "disk"
	BackendMemory = "memory"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// KV is a persistent key-value store of raw slots.
// Read reports ok=false when the key has never been written.
type KV interface {
	Read(key string) (data []byte, ok bool, err error)
	Write(key string, data []byte) error
	Close() error
}

type Options struct {
	Backend string
	DBPath  string
	DataDir string
}

func Open(opts Options) (KV, error) {
	switch opts.Backend {
	case "", BackendSQLite:
		return OpenSQLite(opts.DBPath)
	case BackendDisk:
		return OpenDisk(opts.DataDir)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// Memory is a process-local KV used for tests and throwaway sessions.
type Memory struct {
	mu    sync.Mutex
	slots map[string][]byte
	// WriteErr, when set, is returned by every Write.
	WriteErr error
}

func NewMemory() *Memory {
	return &Memory{slots: map[string][]byte{}}
}

func (m *Memory) Read(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.slots[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (m *Memory) Write(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.slots[key] = append([]byte(nil), data...)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
