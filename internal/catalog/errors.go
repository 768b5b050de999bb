package catalog

import "fmt"

// ValidationError reports a catalog field that failed a validation rule.
type ValidationError struct {
	Field string
	Rule  string
	Value any
}

func (e ValidationError) Error() string {
	return fmt.Sprintf(
		"catalog field %s failed %q validation (value: %v)\nHint: fix the record in the catalog document",
		e.Field, e.Rule, e.Value,
	)
}

// DuplicateBookError is returned when two records share an id.
type DuplicateBookError struct {
	ID string
}

func (e DuplicateBookError) Error() string {
	return fmt.Sprintf("duplicate book id %q\nHint: book ids must be unique within a catalog", e.ID)
}
