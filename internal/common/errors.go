package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors with a stable kind.
type AppError struct {
	Kind    error
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Kind
}

// Is reports the error kind so callers can match with errors.Is.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// Processing error kinds. Stable sentinels matched by the pipeline and the
// API layer.
var (
	ErrUnsupportedFileType        = errors.New("unsupported file type")
	ErrEmptyExtractionResult      = errors.New("no text could be extracted from the document")
	ErrOCRExtraction              = errors.New("ocr extraction failed")
	ErrScannedDocumentUnsupported = errors.New("scanned document requires a document-ocr capability")
	ErrAuthentication             = errors.New("authentication failed")
	ErrDuplicateRecord            = errors.New("duplicate invoice record")
	ErrDestinationNotConfigured   = errors.New("persistence destination not configured")
	ErrUnknownProcessing          = errors.New("unknown processing error")
)

// NewAppError builds an AppError for a kind with a user-facing message.
func NewAppError(kind error, message string, cause error) *AppError {
	return &AppError{Kind: kind, Message: message, Cause: cause}
}

// WrapError annotates err preserving its chain.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
