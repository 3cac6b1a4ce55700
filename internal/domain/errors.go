package domain

import (
	"fmt"
	"strings"
)

// ValidationError is a field-scoped input validation failure. It is
// recovered at the service boundary and surfaced as a per-field message,
// never propagated past it.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates field errors so one bad field does not mask
// the others.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// Fields returns the errors as a field->message map for API responses.
func (e ValidationErrors) Fields() map[string]string {
	m := make(map[string]string, len(e))
	for _, ve := range e {
		m[ve.Field] = ve.Message
	}
	return m
}

// DuplicateDocumentError rejects a create when the cleaned document number
// already belongs to an existing record of the same kind.
type DuplicateDocumentError struct {
	Document string
}

func (e DuplicateDocumentError) Error() string {
	return fmt.Sprintf("document %s already registered", e.Document)
}
