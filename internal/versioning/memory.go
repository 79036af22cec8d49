package versioning

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps trackers and commits in memory. Insertion order is
// preserved so lookups are deterministic.
type MemoryRepository struct {
	mu       sync.RWMutex
	trackers []*Tracker
	commits  []*Commit
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) CreateTracker(_ context.Context, tracker *Tracker) (*Tracker, error) {
	if err := validateTracker(tracker); err != nil {
		return nil, err
	}
	stored := *tracker
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.trackers = append(m.trackers, &stored)
	out := stored
	return &out, nil
}

func (m *MemoryRepository) GetTracker(_ context.Context, id uuid.UUID) (*Tracker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, tracker := range m.trackers {
		if tracker.ID == id {
			out := *tracker
			return &out, nil
		}
	}
	return nil, ErrTrackerNotFound
}

func (m *MemoryRepository) CreateCommit(_ context.Context, commit *Commit) (*Commit, error) {
	if err := validateCommit(commit); err != nil {
		return nil, err
	}
	stored := *commit
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	if stored.PublishAt.IsZero() {
		stored.PublishAt = now
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.commits = append(m.commits, &stored)
	out := stored
	return &out, nil
}

func (m *MemoryRepository) ListCommits(_ context.Context, trackerID uuid.UUID) ([]*Commit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Commit, 0)
	for _, commit := range m.commitsByCreation() {
		if commit.TrackerID == trackerID {
			cloned := *commit
			out = append(out, &cloned)
		}
	}
	return out, nil
}

func (m *MemoryRepository) TrackersByCommitRoot(_ context.Context, rootID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]uuid.UUID, 0)
	for _, commit := range m.commitsByCreation() {
		if commit.RootNodeID == rootID && !slices.Contains(ids, commit.TrackerID) {
			ids = append(ids, commit.TrackerID)
		}
	}
	return ids, nil
}

// commitsByCreation matches the bun ordering; ties keep insertion order.
func (m *MemoryRepository) commitsByCreation() []*Commit {
	ordered := slices.Clone(m.commits)
	slices.SortStableFunc(ordered, func(a, b *Commit) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return ordered
}

func (m *MemoryRepository) TrackersByWorkingCopy(_ context.Context, rootID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]uuid.UUID, 0)
	for _, tracker := range m.trackers {
		if tracker.WorkingCopyID == rootID && !slices.Contains(ids, tracker.ID) {
			ids = append(ids, tracker.ID)
		}
	}
	return ids, nil
}
