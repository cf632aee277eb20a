package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/julianstephens/onboard/internal/models"
)

type jsonProgress struct {
	Confirmations models.ConfirmationState `json:"confirmations"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

type jsonDocument struct {
	Version  int                     `json:"version"`
	KV       map[string]string       `json:"kv"`
	Progress map[string]jsonProgress `json:"progress"`
}

// JSONStore persists the whole store as one JSON document, rewritten on
// every change.
type JSONStore struct {
	path string

	mu  sync.RWMutex
	doc *jsonDocument
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init(context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// An existing file is kept so init can be re-run safely.
	if _, err := os.Stat(s.path); err == nil {
		return s.read()
	}
	s.doc = &jsonDocument{Version: 1}
	s.doc.ensure()
	return s.write()
}

func (s *JSONStore) Load(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) GetConfigPath() string { return s.path }

func (d *jsonDocument) ensure() {
	if d.KV == nil {
		d.KV = make(map[string]string)
	}
	if d.Progress == nil {
		d.Progress = make(map[string]jsonProgress)
	}
}

func (s *JSONStore) read() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &jsonDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	doc.ensure()
	s.doc = doc
	return nil
}

// write replaces the file through a rename so a crash never leaves a
// truncated document.
func (s *JSONStore) write() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) loaded() error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	return nil
}

func (s *JSONStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.loaded(); err != nil {
		return "", false, err
	}
	v, ok := s.doc.KV[key]
	return v, ok, nil
}

func (s *JSONStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	s.doc.KV[key] = value
	return s.write()
}

func (s *JSONStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.doc.KV[key]; !ok {
		return nil
	}
	delete(s.doc.KV, key)
	return s.write()
}

func (s *JSONStore) ListKeys(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.loaded(); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(s.doc.KV))
	for k := range s.doc.KV {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *JSONStore) LoadProgress(_ context.Context, userID string) (models.Progress, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.loaded(); err != nil {
		return models.Progress{}, false, err
	}
	p, ok := s.doc.Progress[userID]
	if !ok {
		return models.Progress{}, false, nil
	}
	return models.Progress{
		UserID:        userID,
		Confirmations: p.Confirmations.Clone(),
		UpdatedAt:     p.UpdatedAt,
	}, true, nil
}

func (s *JSONStore) SaveProgress(_ context.Context, p models.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	s.doc.Progress[p.UserID] = jsonProgress{
		Confirmations: p.Confirmations.Clone(),
		UpdatedAt:     p.UpdatedAt.UTC(),
	}
	return s.write()
}
