// Package cmd implements the pkgspec CLI's cobra commands.
package cmd

import (
	"errors"

	"github.com/pkgspec/resolver/internal/pkgerrors"
)

// Exit codes returned by the pkgspec binary.
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitResolutionError = 2
	ExitNotFound        = 3
)

// ExitCodeFromError classifies err into a process exit code. A
// pkgerrors.SpecError maps to ExitResolutionError, with
// ErrPackageNotFound singled out as ExitNotFound; anything else is a
// general error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, pkgerrors.ErrPackageNotFound) {
		return ExitNotFound
	}
	var specErr *pkgerrors.SpecError
	if errors.As(err, &specErr) {
		return ExitResolutionError
	}
	return ExitGeneralError
}
