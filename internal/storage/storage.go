package storage

import (
	"errors"
	"sync"

	"github.com/dkrasnov/envguard/internal/schema"
)

var (
	// ErrInvalidSpec indicates the provided spec is nil or lacks a global
	// declaration list.
	ErrInvalidSpec = errors.New("spec must declare a global list of entries")
)

// Storage provides access to the variable spec currently served by the API.
type Storage interface {
	GetSpec() (*schema.Spec, error)
	SetSpec(spec *schema.Spec) error
}

// MemoryStorage keeps the active spec in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu   sync.RWMutex
	spec *schema.Spec
}

// NewMemoryStorage initialises storage with an empty spec.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{spec: DefaultSpec()}
}

// DefaultSpec returns a spec with no declarations. The service starts from it
// when no declaration file is configured.
func DefaultSpec() *schema.Spec {
	return &schema.Spec{Global: []schema.EntrySpec{}}
}

// GetSpec returns a defensive copy of the active spec.
func (s *MemoryStorage) GetSpec() (*schema.Spec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.spec.Clone(), nil
}

// SetSpec validates and stores a copy of the provided spec.
func (s *MemoryStorage) SetSpec(spec *schema.Spec) error {
	if spec == nil || spec.Global == nil {
		return ErrInvalidSpec
	}

	clone := spec.Clone()
	s.mu.Lock()
	s.spec = clone
	s.mu.Unlock()

	return nil
}
