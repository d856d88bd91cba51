package apperrors

import "errors"

var (
	ErrEmptyDataset      = errors.New("dataset has no rows")
	ErrMissingAPIKey     = errors.New("model provider API key not configured")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)
