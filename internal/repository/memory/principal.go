package memory

import (
	"context"
	"sync"

	"acadrepo/internal/model"
	"acadrepo/internal/repository"
)

// PrincipalMemory is a map-backed repository.PrincipalRepository keyed by username.
type PrincipalMemory struct {
	mu    sync.RWMutex
	items map[string]model.Principal
}

func NewPrincipalMemory() *PrincipalMemory {
	return &PrincipalMemory{items: make(map[string]model.Principal)}
}

var _ repository.PrincipalRepository = (*PrincipalMemory)(nil)

func (m *PrincipalMemory) Create(_ context.Context, p *model.Principal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[p.Username]; ok {
		return repository.ErrConflict
	}
	m.items[p.Username] = *p
	return nil
}

func (m *PrincipalMemory) FindByUsername(_ context.Context, username string) (*model.Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.items[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *PrincipalMemory) UpdatePassword(_ context.Context, username, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[username]
	if !ok {
		return repository.ErrNotFound
	}
	p.PasswordHash = hash
	m.items[username] = p
	return nil
}

func (m *PrincipalMemory) Upsert(_ context.Context, p *model.Principal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.items[p.Username]; ok {
		old.PasswordHash = p.PasswordHash
		old.UpdatedAt = p.UpdatedAt
		m.items[p.Username] = old
		return nil
	}
	m.items[p.Username] = *p
	return nil
}
