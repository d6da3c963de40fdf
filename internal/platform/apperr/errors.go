// Package apperr defines the error taxonomy shared by every relief service.
//
// Validation and not-found errors are produced before any mutation takes
// place. A ConsistencyFault is different: it reports that a multi-store write
// was only partially applied, so callers must treat the operation as failed
// even though one of the stores may already hold the new state.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError is returned when a required entity or foreign key reference
// does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// DuplicateError is returned when a create is attempted with an id that is
// already present.
type DuplicateError struct {
	Entity string
	ID     string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Entity, e.ID)
}

// ValidationError reports a field that violates its invariant.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// InsufficientStockError reports that a requested quantity exceeds the
// available stock of a drug.
type InsufficientStockError struct {
	DrugID    string
	DrugName  string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	name := e.DrugName
	if name == "" {
		name = e.DrugID
	}
	return fmt.Sprintf("insufficient stock for drug %q: available %d, requested %d", name, e.Available, e.Requested)
}

// ConsistencyFault reports a write that succeeded in some stores and failed
// in others. The stores listed in Applied keep the new state.
type ConsistencyFault struct {
	Op      string
	ID      string
	Applied []string
	Failed  string
	Cause   error
}

func (e *ConsistencyFault) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "consistency fault during %s of %q", e.Op, e.ID)
	if len(e.Applied) > 0 {
		fmt.Fprintf(&b, " (applied: %s)", strings.Join(e.Applied, ","))
	}
	if e.Failed != "" {
		fmt.Fprintf(&b, " (failed: %s)", e.Failed)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *ConsistencyFault) Unwrap() error {
	return e.Cause
}

// NotFound builds a NotFoundError.
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// Duplicate builds a DuplicateError.
func Duplicate(entity, id string) error {
	return &DuplicateError{Entity: entity, ID: id}
}

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Required is shorthand for a ValidationError on a missing field.
func Required(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsDuplicate(err error) bool {
	var target *DuplicateError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}

func IsConsistencyFault(err error) bool {
	var target *ConsistencyFault
	return errors.As(err, &target)
}
