package apperrors

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrUnknownSource  = errors.New("unknown source")
	ErrNoEndpoint     = errors.New("no endpoint configured")
	ErrEmptyDocument  = errors.New("document is empty")
	ErrHeaderMismatch = errors.New("header row does not match expected columns")
)
