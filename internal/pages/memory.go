package pages

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryPageRepository is an in-memory page store for local runs and tests.
type MemoryPageRepository struct {
	mu        sync.RWMutex
	pages     map[uuid.UUID]*Page
	slugIndex map[string]uuid.UUID
	order     []uuid.UUID
}

// NewMemoryPageRepository constructs the repository.
func NewMemoryPageRepository() *MemoryPageRepository {
	return &MemoryPageRepository{
		pages:     make(map[uuid.UUID]*Page),
		slugIndex: make(map[string]uuid.UUID),
	}
}

// Create inserts the supplied page.
func (m *MemoryPageRepository) Create(_ context.Context, page *Page) (*Page, error) {
	record, err := prepareForCreate(page)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.slugIndex[record.Slug]; exists {
		return nil, ErrSlugExists
	}
	m.pages[record.ID] = record
	m.slugIndex[record.Slug] = record.ID
	m.order = append(m.order, record.ID)
	return clonePage(record), nil
}

// GetByID retrieves a page by identifier.
func (m *MemoryPageRepository) GetByID(_ context.Context, id uuid.UUID) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	page, ok := m.pages[id]
	if !ok {
		return nil, &PageNotFoundError{Key: id.String()}
	}
	return clonePage(page), nil
}

// GetBySlug retrieves a page by slug.
func (m *MemoryPageRepository) GetBySlug(_ context.Context, slug string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, &PageNotFoundError{Key: slug}
	}
	return clonePage(m.pages[id]), nil
}

// ListByTrackers returns pages bound to any of the trackers in creation order.
func (m *MemoryPageRepository) ListByTrackers(_ context.Context, trackerIDs []uuid.UUID) ([]*Page, error) {
	out := make([]*Page, 0)
	if len(trackerIDs) == 0 {
		return out, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.order {
		page := m.pages[id]
		if page.TrackerID != nil && slices.Contains(trackerIDs, *page.TrackerID) {
			out = append(out, clonePage(page))
		}
	}
	return out, nil
}

// Len reports how many pages are stored.
func (m *MemoryPageRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pages)
}
