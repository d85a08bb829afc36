package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/arunsaradgi/fullstacktodo/internal/todo"
	"github.com/arunsaradgi/fullstacktodo/internal/todo/cache"
	"github.com/arunsaradgi/fullstacktodo/internal/todo/repository"
	"github.com/arunsaradgi/fullstacktodo/pkg/logger"
	"github.com/arunsaradgi/fullstacktodo/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// Service validates input, delegates persistence to a Repository and keeps an
// optional list cache coherent with writes.
type Service struct {
	repo  repository.Repository
	cache cache.ListCache
	group singleflight.Group

	// gen counts successful writes. A list read is shared and cached only
	// within the generation it started in.
	gen     atomic.Uint64
	cacheMu sync.Mutex
	// stale is set while the cached list may predate a write.
	stale atomic.Bool
}

// Option configures a Service.
type Option func(*Service)

// WithListCache serves List from c and invalidates it after every write.
func WithListCache(c cache.ListCache) Option {
	return func(s *Service) { s.cache = c }
}

func NewService(repo repository.Repository, opts ...Option) *Service {
	s := &Service{repo: repo}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService(opts ...Option) *Service {
	return NewService(repository.NewMemoryRepo(), opts...)
}

const listFlightKey = "todos"

func (s *Service) List(ctx context.Context) ([]todo.Todo, error) {
	gen := s.gen.Load()
	if todos, ok := s.cachedList(ctx); ok {
		return todos, nil
	}
	// Concurrent misses of the same write generation share one store query;
	// a caller going away must not fail the others.
	key := fmt.Sprintf("%s:%d", listFlightKey, gen)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		todos, err := s.repo.List(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.storeList(context.WithoutCancel(ctx), gen, todos)
		return todos, nil
	})
	record("list", err)
	if err != nil {
		return nil, err
	}
	return v.([]todo.Todo), nil
}

func (s *Service) Get(ctx context.Context, id string) (*todo.Todo, error) {
	t, err := s.repo.Get(ctx, id)
	record("get", err)
	return t, err
}

func (s *Service) Create(ctx context.Context, in todo.CreateInput) (*todo.Todo, error) {
	if err := in.Validate(); err != nil {
		record("create", err)
		return nil, err
	}
	t := in.Todo()
	err := s.repo.Create(ctx, t)
	record("create", err)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return t, nil
}

func (s *Service) Update(ctx context.Context, id string, p todo.Patch) (*todo.Todo, error) {
	if err := p.Validate(); err != nil {
		record("update", err)
		return nil, err
	}
	t, err := s.repo.Update(ctx, id, p)
	record("update", err)
	if err != nil {
		return nil, err
	}
	if !p.IsEmpty() {
		s.invalidate(ctx)
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id string) (*todo.Todo, error) {
	t, err := s.repo.Delete(ctx, id)
	record("delete", err)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return t, nil
}

// Ping checks the record store.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *Service) cachedList(ctx context.Context) ([]todo.Todo, bool) {
	if s.cache == nil {
		return nil, false
	}
	if s.stale.Load() && !s.clearStale(ctx) {
		return nil, false
	}
	if todos, ok := s.cache.Get(ctx); ok {
		metrics.ListCache.WithLabelValues("hit").Inc()
		return todos, true
	}
	metrics.ListCache.WithLabelValues("miss").Inc()
	return nil, false
}

// storeList caches todos read during generation gen, unless a write has
// happened since.
func (s *Service) storeList(ctx context.Context, gen uint64, todos []todo.Todo) {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.gen.Load() != gen || s.stale.Load() {
		return
	}
	s.cache.Set(ctx, todos)
}

// invalidate starts a new write generation and drops the cached list. When
// the drop fails the cache is bypassed until clearStale succeeds.
func (s *Service) invalidate(ctx context.Context) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.gen.Add(1)
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
		logger.Warnf("todo list cache invalidation failed, bypassing cache: %v", err)
		s.stale.Store(true)
	}
}

func (s *Service) clearStale(ctx context.Context) bool {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if !s.stale.Load() {
		return true
	}
	if err := s.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
		return false
	}
	s.stale.Store(false)
	logger.Infof("todo list cache invalidated, serving from cache again")
	return true
}

func record(op string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, todo.ErrNotFound):
		outcome = "not_found"
	case todo.IsValidation(err):
		outcome = "invalid"
	default:
		outcome = "error"
	}
	metrics.TodoOperations.WithLabelValues(op, outcome).Inc()
}
