package services

import (
	"errors"
	"fmt"

	apperrors "github.com/civicprep/quiz-engine/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrTopicNotFound    = errors.New("topic not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrValidationFailed = errors.New("validation failed")

	// Import specific errors
	ErrUnsupportedFormat = errors.New("unsupported import file format")
	ErrEmptyImport       = errors.New("import file has no data rows")
)

// ValidationError with field details
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed on field '%s': %s", e.Field, e.Message)
}

func NewValidationError(field, message string, value interface{}) ValidationError {
	return ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// ===== ERROR CLASSIFICATION HELPERS =====

func IsNotFound(err error) bool {
	return errors.Is(err, ErrTopicNotFound) || errors.Is(err, ErrSessionNotFound)
}

func IsValidation(err error) bool {
	var validationErr ValidationError
	if errors.As(err, &validationErr) {
		return true
	}
	var fieldErrors apperrors.ValidationErrors
	if errors.As(err, &fieldErrors) {
		return true
	}
	return errors.Is(err, ErrValidationFailed)
}
