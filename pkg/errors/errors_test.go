package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessRuleViolationsAreBadRequests(t *testing.T) {
	for _, e := range []*Error{ErrConflict, ErrEmailTaken, ErrScheduleConflict, ErrDuplicateEvaluation, ErrInvalidState} {
		assert.Equal(t, http.StatusBadRequest, e.Status, e.Code)
	}
}

func TestAuthErrorsKeepTheirStatuses(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, ErrUnauthorized.Status)
	assert.Equal(t, http.StatusUnauthorized, ErrTokenExpired.Status)
	assert.Equal(t, http.StatusForbidden, ErrForbidden.Status)
	assert.Equal(t, http.StatusNotFound, ErrNotFound.Status)
	assert.Equal(t, http.StatusBadRequest, ErrValidation.Status)
	assert.Equal(t, http.StatusInternalServerError, ErrInternal.Status)
}

func TestFromErrorPreservesTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", Clone(ErrScheduleConflict, "room taken"))

	typed := FromError(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, ErrScheduleConflict.Code, typed.Code)
	assert.Equal(t, http.StatusBadRequest, typed.Status)
	assert.Equal(t, "room taken", typed.Message)
}

func TestFromErrorNormalisesUnknownErrors(t *testing.T) {
	typed := FromError(errors.New("boom"))
	require.NotNil(t, typed)
	assert.Equal(t, ErrInternal.Code, typed.Code)
	assert.Equal(t, http.StatusInternalServerError, typed.Status)
}

func TestCloneDoesNotMutateTheOriginal(t *testing.T) {
	clone := Clone(ErrConflict, "duplicate submission")
	clone.Details = map[string]string{"kind": "grade"}

	assert.Equal(t, "conflict", ErrConflict.Message)
	assert.Nil(t, ErrConflict.Details)
	assert.Equal(t, "duplicate submission", clone.Message)
}
