// Package pkgerrors provides the resolver's sentinel errors and the
// mark-carrying detail type every resolver error is reported as.
package pkgerrors

import (
	"errors"
	"fmt"

	"github.com/pkgspec/resolver/internal/docval"
)

// Sentinel errors, one per fatal resolution failure kind.
var (
	ErrPackageNotFound     = errors.New("package specification not found")
	ErrDiamondInheritance  = errors.New("diamond inheritance")
	ErrParameterCollision  = errors.New("parameter collision")
	ErrConditionalConflict = errors.New("conditional conflict")
	ErrMalformedWhen       = errors.New("malformed conditional")
	ErrStageCollision      = errors.New("stage collision")
	ErrMissingHandler      = errors.New("missing stage handler")
	ErrDanglingStage       = errors.New("dangling stage reference")
	ErrCycle               = errors.New("stage dependency cycle")
	ErrIllegalMode         = errors.New("illegal stage mode")
	ErrSourceOverride      = errors.New("source override misuse")
	ErrCheckoutNameReuse   = errors.New("checkout name reuse")
)

// SpecError is a fatal, mark-carrying resolver error.
type SpecError struct {
	// Sentinel is one of the Err* values above, for errors.Is matching.
	Sentinel error
	// Message is the specific, user-facing description.
	Message string
	// Mark is the nearest available source location, if any.
	Mark docval.Mark
}

// Error implements the error interface.
func (e *SpecError) Error() string {
	if loc := e.Mark.String(); loc != "" {
		return fmt.Sprintf("%s: %s (at %s)", e.Sentinel, e.Message, loc)
	}
	return fmt.Sprintf("%s: %s", e.Sentinel, e.Message)
}

// Unwrap allows errors.Is(err, pkgerrors.ErrX) to match.
func (e *SpecError) Unwrap() error {
	return e.Sentinel
}

// New constructs a SpecError with no mark.
func New(sentinel error, format string, args ...any) *SpecError {
	return &SpecError{Sentinel: sentinel, Message: fmt.Sprintf(format, args...)}
}

// NewAt constructs a SpecError carrying the mark nearest the offending value.
func NewAt(sentinel error, mark docval.Mark, format string, args ...any) *SpecError {
	return &SpecError{Sentinel: sentinel, Message: fmt.Sprintf(format, args...), Mark: mark}
}
