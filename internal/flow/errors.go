package flow

import (
	"errors"
	"fmt"
)

var (
	// ErrWrongStage is returned when an action does not belong to the current stage.
	ErrWrongStage = errors.New("action not available at this stage")

	// ErrUnknownSubOption is returned when a sub-product is not offered by the category.
	ErrUnknownSubOption = errors.New("unknown sub-product for category")
)

// LoadError wraps a failed stage fetch. Message is the shopper-facing text.
type LoadError struct {
	Stage Stage
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Message returns the localized failure text of the stage.
func (e *LoadError) Message() string { return FailureMessage(e.Stage) }
