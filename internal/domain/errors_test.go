package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	t.Parallel()

	cause := errors.New("503 upstream")
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrNotFound, "NotFound"},
		{fmt.Errorf("load: %w", ErrNotFound), "NotFound"},
		{ErrInvalidState, "InvalidState"},
		{&InsufficientReferencesError{Found: 1, Required: 2}, "InsufficientReferences"},
		{ErrScrapeFailure, "ScrapeFailure"},
		{&GenerationError{Attempts: 3, Err: cause}, "GenerationFailure"},
		{fmt.Errorf("create: %w", ErrConflict), "Conflict"},
		{fmt.Errorf("%w: title is required", ErrValidation), "Validation"},
		{errors.New("boom"), "Internal"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Kind(tc.err), "err=%v", tc.err)
	}
}

func TestGenerationErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("rate limited")
	err := error(&GenerationError{Attempts: 3, Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrGenerationFailure)
	assert.Equal(t, "completion failed after 3 attempts: rate limited", err.Error())
}

func TestInsufficientReferencesMessage(t *testing.T) {
	t.Parallel()

	err := &InsufficientReferencesError{Found: 1, Required: 2}
	assert.Equal(t, "not enough reference articles found (1/2 required)", err.Error())
}
