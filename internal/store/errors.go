package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by a backend that has never saved the namespace.
	ErrNotFound = errors.New("selection state not found")

	// ErrUnknownCategory is returned when setting a category outside the catalog.
	ErrUnknownCategory = errors.New("unknown product category")
)

// ValidationError reports a partial vehicle selection. Seeing one means the
// caller broke the all-or-nothing contract.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("incomplete vehicle selection: missing %s", strings.Join(e.Fields, ", "))
}
