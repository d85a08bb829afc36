package repository

import (
	"context"
	"sync"
	"time"

	"github.com/arunsaradgi/fullstacktodo/internal/todo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-memory Repository used by unit tests and when the
// service runs without MongoDB. Ids use the ObjectID format of MongoRepo.
type MemoryRepo struct {
	mu    sync.RWMutex
	order []string
	store map[string]*todo.Todo
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*todo.Todo), now: storeNow}
}

func (m *MemoryRepo) Create(_ context.Context, t *todo.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = primitive.NewObjectID().Hex()
	t.CreatedAt = m.now()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	m.store[t.ID] = &cp
	m.order = append(m.order, t.ID)
	return nil
}

func (m *MemoryRepo) List(_ context.Context) ([]todo.Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]todo.Todo, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.store[id])
	}
	return out, nil
}

func (m *MemoryRepo) Get(_ context.Context, id string) (*todo.Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.store[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, todo.ErrNotFound
}

func (m *MemoryRepo) Update(_ context.Context, id string, p todo.Patch) (*todo.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[id]
	if !ok {
		return nil, todo.ErrNotFound
	}
	if !p.IsEmpty() {
		t.Apply(p)
		t.UpdatedAt = m.now()
	}
	cp := *t
	return &cp, nil
}

func (m *MemoryRepo) Delete(_ context.Context, id string) (*todo.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[id]
	if !ok {
		return nil, todo.ErrNotFound
	}
	delete(m.store, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return t, nil
}

func (m *MemoryRepo) Ping(context.Context) error { return nil }

// storeNow matches the millisecond UTC precision MongoDB keeps for dates.
func storeNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
