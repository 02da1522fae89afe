package profile

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewMemoryRepository builds an in-memory profile store. Updates run under a single
// lock so each read-modify-write on a record is atomic.
func NewMemoryRepository(seed ...Profile) Repository {
	r := &memoryRepository{profiles: make(map[string]Profile, len(seed))}
	for _, p := range seed {
		r.profiles[p.Handle] = p.clone()
	}
	return r
}

func (r *memoryRepository) Get(_ context.Context, handle string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[handle]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p.clone(), nil
}

func (r *memoryRepository) Create(_ context.Context, p Profile) (Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.profiles[p.Handle]; ok {
		return existing.clone(), nil
	}
	r.profiles[p.Handle] = p.clone()
	return p.clone(), nil
}

func (r *memoryRepository) Update(_ context.Context, handle string, mutate func(*Profile) error) (Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.profiles[handle]
	if !ok {
		return Profile{}, ErrNotFound
	}
	working := current.clone()
	if err := mutate(&working); err != nil {
		return Profile{}, err
	}
	r.profiles[handle] = working
	return working.clone(), nil
}
