package versioning

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewTrackerRepository builds the generic go-repository-bun repository for trackers.
func NewTrackerRepository(db *bun.DB) repository.Repository[*Tracker] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Tracker]{
		NewRecord: func() *Tracker { return &Tracker{} },
		GetID: func(t *Tracker) uuid.UUID {
			return t.ID
		},
		SetID: func(t *Tracker, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(t *Tracker) string {
			return t.ID.String()
		},
	})
}

// NewCommitRepository builds the generic go-repository-bun repository for commits.
func NewCommitRepository(db *bun.DB) repository.Repository[*Commit] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Commit]{
		NewRecord: func() *Commit { return &Commit{} },
		GetID: func(c *Commit) uuid.UUID {
			return c.ID
		},
		SetID: func(c *Commit, id uuid.UUID) {
			c.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(c *Commit) string {
			return c.ID.String()
		},
	})
}

// BunRepository persists trackers and commits with bun.
type BunRepository struct {
	trackers repository.Repository[*Tracker]
	commits  repository.Repository[*Commit]
}

// NewBunRepository constructs a bun backed repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{
		trackers: NewTrackerRepository(db),
		commits:  NewCommitRepository(db),
	}
}

func (r *BunRepository) CreateTracker(ctx context.Context, tracker *Tracker) (*Tracker, error) {
	if err := validateTracker(tracker); err != nil {
		return nil, err
	}
	record := *tracker
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	created, err := r.trackers.Create(ctx, &record)
	if err != nil {
		return nil, mapRepositoryError(err, "insert tracker")
	}
	return created, nil
}

func (r *BunRepository) GetTracker(ctx context.Context, id uuid.UUID) (*Tracker, error) {
	record, err := r.trackers.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "select tracker")
	}
	return record, nil
}

func (r *BunRepository) CreateCommit(ctx context.Context, commit *Commit) (*Commit, error) {
	if err := validateCommit(commit); err != nil {
		return nil, err
	}
	record := *commit
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.PublishAt.IsZero() {
		record.PublishAt = now
	}
	created, err := r.commits.Create(ctx, &record)
	if err != nil {
		return nil, mapRepositoryError(err, "insert commit")
	}
	return created, nil
}

func (r *BunRepository) ListCommits(ctx context.Context, trackerID uuid.UUID) ([]*Commit, error) {
	records, _, err := r.commits.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.tracker_id = ?", trackerID).
				OrderExpr("?TableAlias.created_at ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "list commits")
	}
	return records, nil
}

// TrackersByCommitRoot orders trackers by their earliest commit of rootID.
func (r *BunRepository) TrackersByCommitRoot(ctx context.Context, rootID uuid.UUID) ([]uuid.UUID, error) {
	records, _, err := r.commits.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.root_node_id = ?", rootID).
				OrderExpr("?TableAlias.created_at ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "trackers by commit root")
	}
	seen := make(map[uuid.UUID]struct{}, len(records))
	ids := make([]uuid.UUID, 0, len(records))
	for _, commit := range records {
		if _, ok := seen[commit.TrackerID]; ok {
			continue
		}
		seen[commit.TrackerID] = struct{}{}
		ids = append(ids, commit.TrackerID)
	}
	return ids, nil
}

func (r *BunRepository) TrackersByWorkingCopy(ctx context.Context, rootID uuid.UUID) ([]uuid.UUID, error) {
	records, _, err := r.trackers.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.working_copy_id = ?", rootID).
				OrderExpr("?TableAlias.created_at ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "trackers by working copy")
	}
	ids := make([]uuid.UUID, 0, len(records))
	for _, tracker := range records {
		ids = append(ids, tracker.ID)
	}
	return ids, nil
}

func mapRepositoryError(err error, op string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return ErrTrackerNotFound
	}
	return fmt.Errorf("versioning repository: %s: %w", op, err)
}
