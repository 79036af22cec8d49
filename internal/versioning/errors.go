package versioning

import "errors"

var (
	ErrTrackerRequired     = errors.New("versioning: tracker is required")
	ErrTrackerNotFound     = errors.New("versioning: tracker not found")
	ErrWorkingCopyRequired = errors.New("versioning: working copy root is required")
	ErrCommitRequired      = errors.New("versioning: commit is required")
	ErrCommitRootRequired  = errors.New("versioning: commit root node is required")
)
