package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/julianstephens/onboard/internal/models"
)

// MemoryStore keeps everything in process. It backs tests and the
// "memory" storage target.
type MemoryStore struct {
	mu       sync.RWMutex
	kv       map[string]string
	progress map[string]models.Progress
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		kv:       make(map[string]string),
		progress: make(map[string]models.Progress),
	}
}

func (s *MemoryStore) Init(context.Context) error { return nil }
func (s *MemoryStore) Load(context.Context) error { return nil }
func (s *MemoryStore) Close() error               { return nil }
func (s *MemoryStore) GetConfigPath() string      { return MemoryTarget }

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.kv[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kv, key)
	return nil
}

func (s *MemoryStore) ListKeys(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.kv))
	for k := range s.kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryStore) LoadProgress(_ context.Context, userID string) (models.Progress, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.progress[userID]
	if !ok {
		return models.Progress{}, false, nil
	}
	p.Confirmations = p.Confirmations.Clone()
	return p, true, nil
}

func (s *MemoryStore) SaveProgress(_ context.Context, p models.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.Confirmations = p.Confirmations.Clone()
	s.progress[p.UserID] = p
	return nil
}
