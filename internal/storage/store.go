// Package storage abstracts the object store holding the RAG CSV and
// the chat configuration document.
package storage

import (
	"context"
	"sync"
)

// ObjectStore is the object-storage collaborator. Get reports a missing
// object via found=false rather than an error.
type ObjectStore interface {
	Get(ctx context.Context, key string) (body string, found bool, err error)
	Put(ctx context.Context, key, body, contentType string) error
	Delete(ctx context.Context, key string) error
}

type memoryObject struct {
	body        string
	contentType string
}

// MemoryStore is an in-process ObjectStore for tests and local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return "", false, nil
	}
	return obj.body, true, nil
}

func (s *MemoryStore) Put(_ context.Context, key, body, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[key] = memoryObject{body: body, contentType: contentType}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, key)
	return nil
}
