package nodes

import (
	"errors"
	"fmt"
)

var (
	ErrNodeRequired   = errors.New("nodes: node is required")
	ErrNodeNotFound   = errors.New("nodes: node not found")
	ErrInvalidPath    = errors.New("nodes: invalid materialized path")
	ErrPathExhausted  = errors.New("nodes: no free path slot under parent")
	ErrParentRequired = errors.New("nodes: parent is required")
)

// NotFoundError reports a missing node lookup.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e == nil || e.Key == "" {
		return ErrNodeNotFound.Error()
	}
	return fmt.Sprintf("%s: %s", ErrNodeNotFound.Error(), e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNodeNotFound
}
