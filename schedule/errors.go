package schedule

import (
	"errors"
	"fmt"
)

// ErrAmbiguousRecurrence marks a template whose recurrence data is
// insufficient to evaluate (for example interval>1 with no reference date).
// The materializer logs and skips such templates; it is never a hard
// failure.
var ErrAmbiguousRecurrence = errors.New("recurrence cannot be evaluated")

// ValidationError reports malformed or contradictory fields. It is raised
// before any write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError covers ids that do not exist or do not belong to the
// requesting owner; the two cases are deliberately indistinguishable.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError reports a (template_id, local_date) collision that could not
// be resolved by updating the existing row in place.
type ConflictError struct {
	TemplateID string
	LocalDate  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("a scheduled task already exists for template %s on %s", e.TemplateID, e.LocalDate)
}
