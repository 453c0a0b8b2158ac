// Package memory provides map-backed repositories for tests and local runs
// without PostgreSQL.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"acadrepo/internal/attachment"
	"acadrepo/internal/model"
	"acadrepo/internal/repository"
)

var counters = []model.Counter{model.CounterViews, model.CounterDownloads}

// RecordMemory keeps records of one kind in a map guarded by a mutex. Stored
// values are cloned on the way in and out so callers never share state.
type RecordMemory[R model.Record] struct {
	mu    sync.RWMutex
	items map[string]R
	clone func(R) R
}

func NewRecordMemory[R model.Record](clone func(R) R) *RecordMemory[R] {
	return &RecordMemory[R]{items: make(map[string]R), clone: clone}
}

func NewProductMemory() *RecordMemory[*model.Product] {
	return NewRecordMemory((*model.Product).Clone)
}

func NewNewsMemory() *RecordMemory[*model.News] {
	return NewRecordMemory((*model.News).Clone)
}

func NewEnsinoMemory() *RecordMemory[*model.Ensino] {
	return NewRecordMemory((*model.Ensino).Clone)
}

func NewExtensaoMemory() *RecordMemory[*model.Extensao] {
	return NewRecordMemory((*model.Extensao).Clone)
}

var _ repository.RecordRepository[*model.Product] = (*RecordMemory[*model.Product])(nil)

func (m *RecordMemory[R]) Create(_ context.Context, rec R) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := rec.Base().ID
	if _, ok := m.items[id]; ok {
		return repository.ErrConflict
	}
	m.items[id] = m.clone(rec)
	return nil
}

func (m *RecordMemory[R]) FindByID(_ context.Context, id string) (R, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.items[id]
	if !ok {
		var zero R
		return zero, repository.ErrNotFound
	}
	return m.clone(rec), nil
}

func (m *RecordMemory[R]) List(_ context.Context, f model.Filter, pq repository.PageQuery) (*repository.PageResult[R], error) {
	m.mu.RLock()
	matched := make([]R, 0, len(m.items))
	for _, rec := range m.items {
		if rec.Matches(f) {
			matched = append(matched, rec)
		}
	}
	m.mu.RUnlock()

	sortNewestFirst(matched)

	items := make([]R, 0)
	for i := pq.Offset; i < len(matched) && (pq.Limit <= 0 || len(items) < pq.Limit); i++ {
		if i < 0 {
			continue
		}
		items = append(items, m.clone(matched[i]))
	}
	return &repository.PageResult[R]{Items: items, Total: len(matched)}, nil
}

// Update replaces the stored record but keeps its slots, counters and creation time.
func (m *RecordMemory[R]) Update(_ context.Context, rec R) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := rec.Base().ID
	old, ok := m.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	next := m.clone(rec)
	next.Base().CreatedAt = old.Base().CreatedAt
	for _, role := range attachment.Roles() {
		if dst := next.Slot(role); dst != nil {
			*dst = *old.Slot(role)
		}
	}
	for _, c := range counters {
		if dst := next.Count(c); dst != nil {
			*dst = *old.Count(c)
		}
	}
	m.items[id] = next
	return nil
}

func (m *RecordMemory[R]) SetAttachment(_ context.Context, id string, role model.Role, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	slot := rec.Slot(role)
	if slot == nil {
		return fmt.Errorf("memory: record has no %s slot", role)
	}
	*slot = filename
	return nil
}

func (m *RecordMemory[R]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *RecordMemory[R]) Increment(_ context.Context, id string, counter model.Counter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.items[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	n := rec.Count(counter)
	if n == nil {
		return 0, fmt.Errorf("memory: record has no %s counter", counter)
	}
	*n++
	return *n, nil
}

func (m *RecordMemory[R]) Summary(_ context.Context, recent int) (*model.KindSummary, error) {
	m.mu.RLock()
	all := make([]R, 0, len(m.items))
	for _, rec := range m.items {
		all = append(all, rec)
	}
	m.mu.RUnlock()

	out := &model.KindSummary{
		Total:  len(all),
		ByType: map[string]int{},
		Recent: make([]model.RecentItem, 0, recent),
	}
	for _, rec := range all {
		out.ByType[rec.Subtype()]++
	}
	sortNewestFirst(all)
	for i := 0; i < len(all) && i < recent; i++ {
		meta := all[i].Base()
		out.Recent = append(out.Recent, model.RecentItem{
			ID:        meta.ID,
			Title:     all[i].Heading(),
			CreatedAt: meta.CreatedAt,
		})
	}
	return out, nil
}

func sortNewestFirst[R model.Record](list []R) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i].Base(), list[j].Base()
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}
