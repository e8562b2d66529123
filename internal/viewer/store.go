package viewer

import (
	"sync"

	"tableview/internal/models"
)

// Store holds the loaded manifest for the life of the process. It starts in
// the loading state and is written once by the loader.
type Store struct {
	mu         sync.RWMutex
	loading    bool
	manifest   models.Manifest
	defaultKey string
}

type Snapshot struct {
	Loading    bool
	Manifest   models.Manifest
	DefaultKey string
}

func NewStore() *Store {
	return &Store{loading: true, manifest: models.NewManifest()}
}

func (s *Store) Complete(m models.Manifest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifest = m
	s.defaultKey, _ = m.First()
	s.loading = false
}

func (s *Store) Fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Loading: s.loading, Manifest: s.manifest, DefaultKey: s.defaultKey}
}
