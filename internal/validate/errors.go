package validate

import (
	"fmt"

	"github.com/totemove/inventory-cli/internal/model"
)

// Code classifies terminal validation failures. Both codes are terminal for
// the item only: the orchestrator converts them into a failed record, never
// into an aborted run.
type Code string

const (
	CodeMissingField Code = "MissingField"
	CodeInvalidEnum  Code = "InvalidEnum"
)

// Error is a terminal schema violation in a synthesis draft.
type Error struct {
	Code  Code
	Field string
	Value string
}

func (e *Error) Error() string {
	if e.Code == CodeMissingField {
		return fmt.Sprintf("validate: missing required field %q", e.Field)
	}
	return fmt.Sprintf("validate: invalid %s value %q", e.Field, e.Value)
}

// ReviewReason maps the error onto the review-reason code carried by the
// resulting failed record.
func (e *Error) ReviewReason() model.ReviewReason {
	if e.Code == CodeMissingField {
		return model.ReasonMissingField
	}
	return model.ReasonInvalidEnum
}
