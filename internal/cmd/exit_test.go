package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkgspec/resolver/internal/pkgerrors"
)

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error returns success", nil, ExitSuccess},
		{"package not found returns not-found", pkgerrors.New(pkgerrors.ErrPackageNotFound, "x"), ExitNotFound},
		{"cycle returns resolution error", pkgerrors.New(pkgerrors.ErrCycle, "x"), ExitResolutionError},
		{"plain error returns general error", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFromError(tt.err))
		})
	}
}
