package errors

import "errors"

// Kind classifies an application failure so callers can distinguish
// "no match found" from "backend unreachable" from "malformed input".
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindNotFound     Kind = "not_found"
	KindStorage      Kind = "storage_error"
	KindEmbedding    Kind = "embedding_error"
	KindLLM          Kind = "llm_error"
	KindScrape       Kind = "scrape_error"
	KindConfig       Kind = "config_error"
	KindUnavailable  Kind = "unavailable"
)

// AppError encodes domain specific error details.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(kind Kind, message string, err error) error {
	if err == nil {
		return &AppError{Kind: kind, Message: message}
	}
	return &AppError{Kind: kind, Message: message, Err: err}
}

// IsKind helps callers differentiate failures.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// KindOf returns the kind attached to err, or the empty kind when err
// is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
