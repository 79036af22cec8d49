package forms

import "errors"

var (
	ErrNotAForm           = errors.New("forms: node is not a form")
	ErrFieldsInvalid      = errors.New("forms: field definitions are invalid")
	ErrFormInvalid        = errors.New("forms: form has validation errors")
	ErrFormNotBound       = errors.New("forms: form has not been bound")
	ErrSubmissionRequired = errors.New("forms: submission is required")
)
