// Package customrepo persists owner-scoped custom activities.
package customrepo

import (
	"context"
	"sync"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
)

// MemoryRepository keeps custom activities in process memory for tests/dev.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string][]activity.Activity
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string][]activity.Activity)}
}

// List returns the owner's activities in insertion order.
func (r *MemoryRepository) List(_ context.Context, ownerID string) ([]activity.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]activity.Activity, len(r.items[ownerID]))
	copy(out, r.items[ownerID])
	return out, nil
}

// Get fetches a single activity.
func (r *MemoryRepository) Get(_ context.Context, ownerID, id string) (activity.Activity, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items[ownerID] {
		if item.ID == id {
			return item, true, nil
		}
	}
	return activity.Activity{}, false, nil
}

// Save inserts or replaces an activity, keeping its original position.
func (r *MemoryRepository) Save(_ context.Context, ownerID string, item activity.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.items[ownerID]
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = item
			return nil
		}
	}
	r.items[ownerID] = append(items, item)
	return nil
}

// Delete removes an activity and reports whether it existed.
func (r *MemoryRepository) Delete(_ context.Context, ownerID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.items[ownerID]
	for i := range items {
		if items[i].ID == id {
			r.items[ownerID] = append(items[:i:i], items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
