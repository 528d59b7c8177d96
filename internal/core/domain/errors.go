package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrStorageIO    = errors.New("storage io failure")
	ErrTemporary    = errors.New("temporary failure")

	// Extraction and summarization failures are recoverable pipeline
	// conditions, never crashes.
	ErrExtraction         = errors.New("text extraction failed")
	ErrSummaryService     = errors.New("summary service error")
	ErrSummaryUnavailable = errors.New("summary service unavailable")
	ErrSummaryEmpty       = errors.New("summary service returned empty result")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
