package store

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// MemoryStore is a mutex-guarded in-memory entity store. It is the default
// backend for tests and single-process deployments.
type MemoryStore struct {
	mu      sync.Mutex
	records map[common.Hash][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[common.Hash][]byte),
	}
}

// Create materializes a record at an unoccupied address.
func (s *MemoryStore) Create(addr common.Hash, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[addr]; ok {
		return ErrAlreadyExists
	}
	s.records[addr] = clone(data)
	return nil
}

// Read returns a copy of the record at the address.
func (s *MemoryStore) Read(addr common.Hash) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.records[addr]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(data), nil
}

// Update applies mutate to the current record atomically. The record is left
// untouched if mutate fails.
func (s *MemoryStore) Update(addr common.Hash, mutate func([]byte) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.records[addr]
	if !ok {
		return ErrNotFound
	}
	next, err := mutate(clone(data))
	if err != nil {
		return err
	}
	s.records[addr] = clone(next)
	return nil
}

// Destroy removes the record at the address.
func (s *MemoryStore) Destroy(addr common.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[addr]; !ok {
		return ErrNotFound
	}
	delete(s.records, addr)
	return nil
}

// Close is a no-op for the in-memory backend.
func (s *MemoryStore) Close() error {
	return nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func clone(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	return out
}
