package pages

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	PlaceholderTitle        = "restoring page"
	PlaceholderContentModel = "widgypage"

	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Page is a site page whose body is a widget tree tracked by a version tracker.
type Page struct {
	bun.BaseModel `bun:"table:widgy_pages,alias:wp"`

	ID           uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Slug         string     `bun:"slug,notnull,unique" json:"slug"`
	Title        string     `bun:"title,notnull" json:"title"`
	ContentModel string     `bun:"content_model,notnull" json:"content_model"`
	TrackerID    *uuid.UUID `bun:"tracker_id,type:uuid" json:"tracker_id,omitempty"`
	Status       string     `bun:"status,notnull,default:'draft'" json:"status"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	// Placeholder marks an in-memory stand-in for a tree with no owning page.
	Placeholder bool `bun:"-" json:"placeholder,omitempty"`
}

// NewPlaceholderPage returns the transient page used when a tree has no owner.
func NewPlaceholderPage() *Page {
	return &Page{
		Title:        PlaceholderTitle,
		ContentModel: PlaceholderContentModel,
		Status:       StatusDraft,
		Placeholder:  true,
	}
}

func clonePage(src *Page) *Page {
	if src == nil {
		return nil
	}
	out := *src
	if src.TrackerID != nil {
		id := *src.TrackerID
		out.TrackerID = &id
	}
	return &out
}
