package pages_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-cms-widgy/internal/nodes"
	"github.com/goliatone/go-cms-widgy/internal/pages"
	"github.com/goliatone/go-cms-widgy/internal/versioning"
	"github.com/goliatone/go-cms-widgy/pkg/testsupport"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
)

type bunResolverFixture struct {
	nodes    *nodes.BunNodeRepository
	versions *versioning.BunRepository
	pages    *pages.BunPageRepository
	resolver *pages.Resolver
}

func newBunResolverFixture(t *testing.T, cached bool) *bunResolverFixture {
	t.Helper()
	db := testsupport.NewBunDB(t,
		(*nodes.Node)(nil),
		(*versioning.Tracker)(nil),
		(*versioning.Commit)(nil),
		(*pages.Page)(nil),
	)

	var (
		service    repocache.CacheService
		serializer repocache.KeySerializer
	)
	if cached {
		var err error
		service, err = repocache.NewCacheService(repocache.DefaultConfig())
		if err != nil {
			t.Fatalf("cache service: %v", err)
		}
		serializer = repocache.NewDefaultKeySerializer()
	}

	f := &bunResolverFixture{
		nodes:    nodes.NewBunNodeRepositoryWithCache(db, service, serializer),
		versions: versioning.NewBunRepository(db),
		pages:    pages.NewBunPageRepositoryWithCache(db, service, serializer),
	}
	f.resolver = pages.NewResolver(f.nodes, f.versions, f.pages)
	return f
}

func (f *bunResolverFixture) tree(t *testing.T) (root, leaf *nodes.Node) {
	t.Helper()
	ctx := context.Background()
	root, err := f.nodes.CreateRoot(ctx, &nodes.Node{ContentType: "layout"})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	section, err := f.nodes.AddChild(ctx, root, &nodes.Node{ContentType: "section"})
	if err != nil {
		t.Fatalf("add section: %v", err)
	}
	leaf, err = f.nodes.AddChild(ctx, section, &nodes.Node{ContentType: "form"})
	if err != nil {
		t.Fatalf("add leaf: %v", err)
	}
	return root, leaf
}

func (f *bunResolverFixture) page(t *testing.T, title string, workingCopy uuid.UUID) (*pages.Page, *versioning.Tracker) {
	t.Helper()
	ctx := context.Background()
	tracker, err := f.versions.CreateTracker(ctx, &versioning.Tracker{WorkingCopyID: workingCopy})
	if err != nil {
		t.Fatalf("create tracker: %v", err)
	}
	trackerID := tracker.ID
	page, err := f.pages.Create(ctx, &pages.Page{Title: title, TrackerID: &trackerID})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	return page, tracker
}

func (f *bunResolverFixture) commit(t *testing.T, tracker *versioning.Tracker, root *nodes.Node) {
	t.Helper()
	if _, err := f.versions.CreateCommit(context.Background(), &versioning.Commit{TrackerID: tracker.ID, RootNodeID: root.ID}); err != nil {
		t.Fatalf("create commit: %v", err)
	}
}

func TestBunResolverKeepsTreesApart(t *testing.T) {
	for _, cached := range []bool{false, true} {
		name := "uncached"
		if cached {
			name = "cached"
		}
		t.Run(name, func(t *testing.T) {
			f := newBunResolverFixture(t, cached)
			ctx := context.Background()

			publishedRoot, publishedLeaf := f.tree(t)
			about, tracker := f.page(t, "About Us", uuid.New())
			f.commit(t, tracker, publishedRoot)

			draftRoot, draftLeaf := f.tree(t)
			contact, _ := f.page(t, "Contact", draftRoot.ID)

			cases := []struct {
				node *nodes.Node
				slug string
			}{
				{publishedLeaf, about.Slug},
				{draftLeaf, contact.Slug},
				{publishedRoot, about.Slug},
				{draftRoot, contact.Slug},
				{publishedLeaf, about.Slug},
			}
			for _, tc := range cases {
				got, err := f.resolver.Resolve(ctx, tc.node)
				if err != nil {
					t.Fatalf("resolve %s: %v", tc.node.Path, err)
				}
				if got.Slug != tc.slug {
					t.Fatalf("node %s: expected %q, got %q", tc.node.Path, tc.slug, got.Slug)
				}
			}

			for _, want := range []*pages.Page{about, contact, about} {
				got, err := f.pages.GetBySlug(ctx, want.Slug)
				if err != nil {
					t.Fatalf("get %s: %v", want.Slug, err)
				}
				if got.ID != want.ID {
					t.Fatalf("GetBySlug(%s) returned %s", want.Slug, got.Slug)
				}
			}
		})
	}
}

func TestBunResolverPrefersCommitOverWorkingCopy(t *testing.T) {
	f := newBunResolverFixture(t, true)
	ctx := context.Background()
	root, leaf := f.tree(t)

	draft, _ := f.page(t, "Draft Owner", root.ID)
	published, tracker := f.page(t, "Published Owner", uuid.New())
	f.commit(t, tracker, root)
	f.commit(t, tracker, root)

	for _, node := range []*nodes.Node{root, leaf} {
		got, err := f.resolver.Resolve(ctx, node)
		if err != nil {
			t.Fatalf("resolve %s: %v", node.Path, err)
		}
		if got.ID != published.ID {
			t.Fatalf("node %s: expected committed page %s, got %s (draft %s)", node.Path, published.ID, got.ID, draft.ID)
		}
	}

	ids, err := f.versions.TrackersByCommitRoot(ctx, root.ID)
	if err != nil {
		t.Fatalf("trackers by commit root: %v", err)
	}
	if len(ids) != 1 || ids[0] != tracker.ID {
		t.Fatalf("expected commits grouped under tracker %s, got %v", tracker.ID, ids)
	}
}
