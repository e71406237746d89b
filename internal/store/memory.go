package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xeroq/api/internal/model"
)

// MemoryStore is an in-process Store used in tests and when Redis is not
// configured. Job timestamps are strictly monotonic so FIFO ordering stays
// well defined even for back-to-back submissions.
type MemoryStore struct {
	mu        sync.RWMutex
	jobs      map[string]model.Job
	lastStamp time.Time

	lmu       sync.Mutex
	listeners map[int]func()
	nextToken int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:      make(map[string]model.Job),
		listeners: make(map[int]func()),
	}
}

func (s *MemoryStore) Create(ctx context.Context, job *model.Job) error {
	s.mu.Lock()
	job.ID = uuid.New().String()
	job.CreatedAt = s.stamp()
	s.jobs[job.ID] = *job
	s.mu.Unlock()

	s.notify()
	return nil
}

// stamp returns a wall-clock time guaranteed to be after the previous one.
// Callers must hold mu.
func (s *MemoryStore) stamp() time.Time {
	now := time.Now().UTC()
	if !now.After(s.lastStamp) {
		now = s.lastStamp.Add(time.Microsecond)
	}
	s.lastStamp = now
	return now
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &job, nil
}

func (s *MemoryStore) Update(ctx context.Context, job *model.Job) error {
	s.mu.Lock()
	if _, ok := s.jobs[job.ID]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.jobs[job.ID] = *job
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.jobs[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.jobs, id)
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Subscribe(fn func()) func() {
	s.lmu.Lock()
	token := s.nextToken
	s.nextToken++
	s.listeners[token] = fn
	s.lmu.Unlock()

	return func() {
		s.lmu.Lock()
		delete(s.listeners, token)
		s.lmu.Unlock()
	}
}

func (s *MemoryStore) notify() {
	s.lmu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.lmu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
