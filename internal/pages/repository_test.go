package pages_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cms-widgy/internal/pages"
	"github.com/goliatone/go-cms-widgy/pkg/testsupport"
	"github.com/google/uuid"
)

func pageRepositories(t *testing.T) map[string]pages.PageRepository {
	t.Helper()
	db := testsupport.NewBunDB(t, (*pages.Page)(nil))
	return map[string]pages.PageRepository{
		"memory": pages.NewMemoryPageRepository(),
		"bun":    pages.NewBunPageRepository(db),
	}
}

func TestPageRepositoryCreateAndLookup(t *testing.T) {
	for name, repo := range pageRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			trackerID := uuid.New()
			created, err := repo.Create(ctx, &pages.Page{Title: "Contact Us", TrackerID: &trackerID})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if created.Slug != "contact-us" {
				t.Fatalf("expected normalized slug, got %q", created.Slug)
			}
			if created.ContentModel != pages.PlaceholderContentModel {
				t.Fatalf("expected default content model, got %q", created.ContentModel)
			}

			byID, err := repo.GetByID(ctx, created.ID)
			if err != nil {
				t.Fatalf("get by id: %v", err)
			}
			if byID.Slug != created.Slug {
				t.Fatalf("expected slug %q, got %q", created.Slug, byID.Slug)
			}

			bySlug, err := repo.GetBySlug(ctx, "contact-us")
			if err != nil {
				t.Fatalf("get by slug: %v", err)
			}
			if bySlug.ID != created.ID {
				t.Fatalf("expected id %s, got %s", created.ID, bySlug.ID)
			}

			listed, err := repo.ListByTrackers(ctx, []uuid.UUID{trackerID})
			if err != nil {
				t.Fatalf("list by trackers: %v", err)
			}
			if len(listed) != 1 || listed[0].ID != created.ID {
				t.Fatalf("unexpected tracker listing: %+v", listed)
			}

			if _, err := repo.Create(ctx, &pages.Page{Title: "Contact", Slug: "contact-us"}); !errors.Is(err, pages.ErrSlugExists) {
				t.Fatalf("expected ErrSlugExists, got %v", err)
			}
		})
	}
}

func TestPageRepositoryRejectsPlaceholder(t *testing.T) {
	for name, repo := range pageRepositories(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Create(context.Background(), pages.NewPlaceholderPage())
			if !errors.Is(err, pages.ErrPlaceholderNotPersistable) {
				t.Fatalf("expected ErrPlaceholderNotPersistable, got %v", err)
			}
		})
	}
}

func TestPageRepositoryNotFound(t *testing.T) {
	for name, repo := range pageRepositories(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.GetBySlug(context.Background(), "missing")
			var notFound *pages.PageNotFoundError
			if !errors.As(err, &notFound) {
				t.Fatalf("expected PageNotFoundError, got %v", err)
			}
			if !errors.Is(err, pages.ErrPageNotFound) {
				t.Fatalf("expected ErrPageNotFound, got %v", err)
			}
		})
	}
}
