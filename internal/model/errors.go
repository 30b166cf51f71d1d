package model

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError is a rejected input field. It is reported as 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ParseID checks that raw is a UUID and returns it in canonical form.
func ParseID(field, raw string) (string, error) {
	if raw == "" {
		return "", Invalid(field, "is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", Invalid(field, "must be a valid id")
	}
	return id.String(), nil
}
