package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-cms-widgy/internal/forms"
	"github.com/goliatone/go-cms-widgy/internal/identity"
	"github.com/goliatone/go-cms-widgy/internal/nodes"
	"github.com/goliatone/go-cms-widgy/internal/pages"
	"github.com/goliatone/go-cms-widgy/internal/versioning"
)

var ErrAlreadySeeded = errors.New("seed: demo data already present")

// Stores groups the repositories the demo data is written to.
type Stores struct {
	Nodes    nodes.NodeRepository
	Versions versioning.Repository
	Pages    pages.PageRepository
}

// Demo holds the records created by Demo so callers can print preview URLs.
type Demo struct {
	About   *pages.Page
	Contact *pages.Page

	PublishedRoot *nodes.Node
	DraftRoot     *nodes.Node
	AboutForm     *nodes.Node
	ContactRoot   *nodes.Node
	ContactForm   *nodes.Node
	OrphanRoot    *nodes.Node
}

// Load writes a published page, a draft-only page and an orphan tree. Ids
// are deterministic so repeated runs against a fresh store agree.
func Load(ctx context.Context, stores Stores) (*Demo, error) {
	if stores.Nodes == nil || stores.Versions == nil || stores.Pages == nil {
		return nil, fmt.Errorf("seed: stores are required")
	}
	if _, err := stores.Pages.GetBySlug(ctx, "about-us"); err == nil {
		return nil, ErrAlreadySeeded
	} else if !errors.Is(err, pages.ErrPageNotFound) {
		return nil, err
	}

	demo := &Demo{}
	var err error

	if demo.PublishedRoot, demo.AboutForm, err = formTree(ctx, stores.Nodes, "about-us/published"); err != nil {
		return nil, err
	}
	if demo.DraftRoot, _, err = formTree(ctx, stores.Nodes, "about-us/draft"); err != nil {
		return nil, err
	}
	if demo.ContactRoot, demo.ContactForm, err = formTree(ctx, stores.Nodes, "contact/draft"); err != nil {
		return nil, err
	}
	if demo.OrphanRoot, _, err = formTree(ctx, stores.Nodes, "orphan"); err != nil {
		return nil, err
	}

	aboutTracker, err := stores.Versions.CreateTracker(ctx, &versioning.Tracker{
		ID:            identity.TrackerUUID("about-us"),
		WorkingCopyID: demo.DraftRoot.ID,
	})
	if err != nil {
		return nil, err
	}
	if _, err := stores.Versions.CreateCommit(ctx, &versioning.Commit{
		ID:         identity.CommitUUID(aboutTracker.ID, "initial"),
		TrackerID:  aboutTracker.ID,
		RootNodeID: demo.PublishedRoot.ID,
		Message:    "Initial publish",
	}); err != nil {
		return nil, err
	}
	if demo.About, err = stores.Pages.Create(ctx, &pages.Page{
		ID:        identity.PageUUID("about-us"),
		Slug:      "about-us",
		Title:     "About Us",
		TrackerID: &aboutTracker.ID,
		Status:    pages.StatusPublished,
	}); err != nil {
		return nil, err
	}

	contactTracker, err := stores.Versions.CreateTracker(ctx, &versioning.Tracker{
		ID:            identity.TrackerUUID("contact"),
		WorkingCopyID: demo.ContactRoot.ID,
	})
	if err != nil {
		return nil, err
	}
	if demo.Contact, err = stores.Pages.Create(ctx, &pages.Page{
		ID:        identity.PageUUID("contact"),
		Slug:      "contact",
		Title:     "Contact",
		TrackerID: &contactTracker.ID,
	}); err != nil {
		return nil, err
	}

	return demo, nil
}

func formTree(ctx context.Context, repo nodes.NodeRepository, tree string) (*nodes.Node, *nodes.Node, error) {
	root, err := repo.CreateRoot(ctx, &nodes.Node{
		ID:          identity.NodeUUID(tree, "root"),
		ContentType: "layout",
		Content:     map[string]any{"title": tree, "body": "Preview of **" + tree + "**."},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("seed: %s root: %w", tree, err)
	}
	section, err := repo.AddChild(ctx, root, &nodes.Node{
		ID:          identity.NodeUUID(tree, "section"),
		ContentType: "section",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("seed: %s section: %w", tree, err)
	}
	form, err := repo.AddChild(ctx, section, &nodes.Node{
		ID:          identity.NodeUUID(tree, "form"),
		ContentType: forms.FormContentType,
		Content: map[string]any{
			"fields": []any{
				map[string]any{"name": "name", "label": "Name", "required": true, "max_length": 80},
				map[string]any{"name": "email", "label": "Email", "type": forms.FieldEmail, "required": true},
				map[string]any{"name": "message", "label": "Message", "type": forms.FieldTextarea, "max_length": 2000},
			},
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("seed: %s form: %w", tree, err)
	}
	return root, form, nil
}
