package pages

import (
	"errors"
	"fmt"
)

var (
	ErrPageRequired              = errors.New("pages: page is required")
	ErrPageNotFound              = errors.New("pages: page not found")
	ErrPlaceholderNotPersistable = errors.New("pages: placeholder pages cannot be stored")
	ErrSlugInvalid               = errors.New("pages: slug is invalid")
	ErrSlugExists                = errors.New("pages: slug already exists")
	ErrTitleRequired             = errors.New("pages: title is required")
)

// PageNotFoundError reports a missing page lookup.
type PageNotFoundError struct {
	Key string
}

func (e *PageNotFoundError) Error() string {
	if e == nil || e.Key == "" {
		return ErrPageNotFound.Error()
	}
	return fmt.Sprintf("%s: %s", ErrPageNotFound.Error(), e.Key)
}

func (e *PageNotFoundError) Unwrap() error {
	return ErrPageNotFound
}
