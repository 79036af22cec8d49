package forms

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SubmissionStore records valid form posts.
type SubmissionStore interface {
	Record(ctx context.Context, submission *Submission) (*Submission, error)
	List(ctx context.Context, formNodeID uuid.UUID) ([]*Submission, error)
}

func prepareSubmission(submission *Submission) (*Submission, error) {
	if submission == nil {
		return nil, ErrSubmissionRequired
	}
	record := *submission
	record.Data = maps.Clone(submission.Data)
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	return &record, nil
}

// MemorySubmissionStore keeps submissions in memory.
type MemorySubmissionStore struct {
	mu          sync.RWMutex
	submissions []*Submission
}

func NewMemorySubmissionStore() *MemorySubmissionStore {
	return &MemorySubmissionStore{}
}

func (m *MemorySubmissionStore) Record(_ context.Context, submission *Submission) (*Submission, error) {
	record, err := prepareSubmission(submission)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions = append(m.submissions, record)
	out := *record
	return &out, nil
}

func (m *MemorySubmissionStore) List(_ context.Context, formNodeID uuid.UUID) ([]*Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Submission, 0)
	for _, submission := range m.submissions {
		if submission.FormNodeID == formNodeID {
			cloned := *submission
			cloned.Data = maps.Clone(submission.Data)
			out = append(out, &cloned)
		}
	}
	return out, nil
}

// BunSubmissionStore persists submissions with bun.
type BunSubmissionStore struct {
	db *bun.DB
}

func NewBunSubmissionStore(db *bun.DB) *BunSubmissionStore {
	return &BunSubmissionStore{db: db}
}

func (s *BunSubmissionStore) Record(ctx context.Context, submission *Submission) (*Submission, error) {
	record, err := prepareSubmission(submission)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}
	return record, nil
}

func (s *BunSubmissionStore) List(ctx context.Context, formNodeID uuid.UUID) ([]*Submission, error) {
	var records []*Submission
	err := s.db.NewSelect().
		Model(&records).
		Where("?TableAlias.form_node_id = ?", formNodeID).
		OrderExpr("?TableAlias.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return records, nil
}
