package pages

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// PageReader exposes the lookups the resolver and renderer need.
type PageReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Page, error)
	GetBySlug(ctx context.Context, slug string) (*Page, error)
	ListByTrackers(ctx context.Context, trackerIDs []uuid.UUID) ([]*Page, error)
}

// PageRepository persists pages.
type PageRepository interface {
	PageReader
	Create(ctx context.Context, page *Page) (*Page, error)
}

// prepareForCreate validates and normalizes a page before it is stored.
func prepareForCreate(page *Page) (*Page, error) {
	if page == nil {
		return nil, ErrPageRequired
	}
	if page.Placeholder {
		return nil, ErrPlaceholderNotPersistable
	}
	record := clonePage(page)
	record.Title = strings.TrimSpace(record.Title)
	if record.Title == "" {
		return nil, ErrTitleRequired
	}
	source := record.Slug
	if strings.TrimSpace(source) == "" {
		source = record.Title
	}
	normalized, err := slug.Normalize(source)
	if err != nil || normalized == "" {
		return nil, ErrSlugInvalid
	}
	record.Slug = normalized
	if record.ContentModel == "" {
		record.ContentModel = PlaceholderContentModel
	}
	if record.Status == "" {
		record.Status = StatusDraft
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	return record, nil
}
