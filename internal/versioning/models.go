package versioning

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Tracker links a page to its editable working copy and its commit history.
type Tracker struct {
	bun.BaseModel `bun:"table:widgy_version_trackers,alias:vt"`

	ID            uuid.UUID `bun:",pk,type:uuid" json:"id"`
	WorkingCopyID uuid.UUID `bun:"working_copy_id,notnull,type:uuid" json:"working_copy_id"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// Commit is an immutable published snapshot of a tree rooted at RootNodeID.
type Commit struct {
	bun.BaseModel `bun:"table:widgy_version_commits,alias:vc"`

	ID         uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	TrackerID  uuid.UUID  `bun:"tracker_id,notnull,type:uuid" json:"tracker_id"`
	ParentID   *uuid.UUID `bun:"parent_id,type:uuid" json:"parent_id,omitempty"`
	RootNodeID uuid.UUID  `bun:"root_node_id,notnull,type:uuid" json:"root_node_id"`
	AuthorID   *uuid.UUID `bun:"author_id,type:uuid" json:"author_id,omitempty"`
	Message    string     `bun:"message" json:"message,omitempty"`
	PublishAt  time.Time  `bun:"publish_at,nullzero" json:"publish_at"`
	CreatedAt  time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}
