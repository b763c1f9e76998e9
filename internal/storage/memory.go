package storage

import (
	"context"
	"sync"
)

// MemoryProvider keeps device records in process memory. A device only takes
// up space while it has at least one record.
type MemoryProvider struct {
	mu      sync.Mutex
	devices map[string]map[string][]byte
}

// NewMemoryProvider creates an empty in-memory provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{devices: make(map[string]map[string][]byte)}
}

// ForDevice returns the storage area of deviceID. Nothing is allocated until
// the first Set.
func (p *MemoryProvider) ForDevice(deviceID string) Storage {
	return &deviceArea{provider: p, deviceID: deviceID}
}

// Devices reports how many devices currently hold records.
func (p *MemoryProvider) Devices() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.devices)
}

type deviceArea struct {
	provider *MemoryProvider
	deviceID string
}

func (a *deviceArea) Get(_ context.Context, key string) ([]byte, bool) {
	p := a.provider
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.devices[a.deviceID][key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

func (a *deviceArea) Set(_ context.Context, key string, value []byte) error {
	p := a.provider
	p.mu.Lock()
	defer p.mu.Unlock()
	values, ok := p.devices[a.deviceID]
	if !ok {
		values = make(map[string][]byte)
		p.devices[a.deviceID] = values
	}
	values[key] = append([]byte(nil), value...)
	return nil
}

func (a *deviceArea) Remove(_ context.Context, keys ...string) error {
	p := a.provider
	p.mu.Lock()
	defer p.mu.Unlock()
	values, ok := p.devices[a.deviceID]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(values, k)
	}
	if len(values) == 0 {
		delete(p.devices, a.deviceID)
	}
	return nil
}

// MemoryStorage is a single in-memory storage area.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStorage creates an empty storage area.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string][]byte)}
}

func (s *MemoryStorage) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

func (s *MemoryStorage) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStorage) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}
