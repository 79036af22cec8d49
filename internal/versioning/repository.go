package versioning

import (
	"context"

	"github.com/google/uuid"
)

// RootLookup answers which trackers reference a tree root. Both methods
// return tracker ids in a stable order without duplicates.
type RootLookup interface {
	TrackersByCommitRoot(ctx context.Context, rootID uuid.UUID) ([]uuid.UUID, error)
	TrackersByWorkingCopy(ctx context.Context, rootID uuid.UUID) ([]uuid.UUID, error)
}

// Repository persists trackers and commits. Commits are insert only.
type Repository interface {
	RootLookup
	CreateTracker(ctx context.Context, tracker *Tracker) (*Tracker, error)
	GetTracker(ctx context.Context, id uuid.UUID) (*Tracker, error)
	CreateCommit(ctx context.Context, commit *Commit) (*Commit, error)
	ListCommits(ctx context.Context, trackerID uuid.UUID) ([]*Commit, error)
}

func validateTracker(tracker *Tracker) error {
	if tracker == nil {
		return ErrTrackerRequired
	}
	if tracker.WorkingCopyID == uuid.Nil {
		return ErrWorkingCopyRequired
	}
	return nil
}

func validateCommit(commit *Commit) error {
	if commit == nil {
		return ErrCommitRequired
	}
	if commit.TrackerID == uuid.Nil {
		return ErrTrackerRequired
	}
	if commit.RootNodeID == uuid.Nil {
		return ErrCommitRootRequired
	}
	return nil
}
