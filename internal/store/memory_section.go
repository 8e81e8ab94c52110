package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dunamismax/folio/internal/domain"
)

type memorySection[T any, P domain.Entry[T]] struct {
	mu   sync.RWMutex
	rows map[int64]T
	next int64
	now  func() time.Time
	// less breaks ties after display order; nil falls back to newest first.
	less func(a, b *T) bool
}

func newMemorySection[T any, P domain.Entry[T]](now func() time.Time, less func(a, b *T) bool) *memorySection[T, P] {
	return &memorySection[T, P]{rows: make(map[int64]T), now: now, less: less}
}

func (s *memorySection[T, P]) List(_ context.Context, activeOnly bool) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.rows))
	for _, row := range s.rows {
		if activeOnly && !P(&row).Meta().IsActive {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := P(&out[i]).Meta(), P(&out[j]).Meta()
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		if s.less != nil {
			if s.less(&out[i], &out[j]) {
				return true
			}
			if s.less(&out[j], &out[i]) {
				return false
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return out, nil
}

func (s *memorySection[T, P]) Get(_ context.Context, id int64) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[id]
	if !ok {
		var zero T
		return zero, domain.ErrNotFound
	}
	return row, nil
}

func (s *memorySection[T, P]) Create(_ context.Context, entry T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	meta := P(&entry).Meta()
	meta.ID = s.next
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = s.now()
	}
	meta.UpdatedAt = nil
	s.rows[meta.ID] = entry
	return entry, nil
}

func (s *memorySection[T, P]) Update(_ context.Context, entry T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta := P(&entry).Meta()
	existing, ok := s.rows[meta.ID]
	if !ok {
		var zero T
		return zero, domain.ErrNotFound
	}
	now := s.now()
	meta.CreatedAt = P(&existing).Meta().CreatedAt
	meta.UpdatedAt = &now
	s.rows[meta.ID] = entry
	return entry, nil
}

func (s *memorySection[T, P]) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func skillsByPercentage(a, b *domain.Skill) bool {
	return a.Percentage > b.Percentage
}

// startedLater orders dated entries most recent first; undated ones go last.
func startedLater(a, b *time.Time) bool {
	switch {
	case a == nil || b == nil:
		return a != nil && b == nil
	default:
		return a.After(*b)
	}
}
