package errors

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorWrapsUnknownErrors(t *testing.T) {
	err := FromError(sql.ErrConnDone)
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", Clone(ErrNotFound, "client not found"))
	err := FromError(wrapped)
	assert.Equal(t, ErrNotFound.Code, err.Code)
	assert.Equal(t, "client not found", err.Message)
}

func TestValidationNamesField(t *testing.T) {
	err := Validation("date", "expected YYYY-MM-DD")
	assert.Equal(t, ErrValidation.Code, err.Code)
	assert.Equal(t, "date: expected YYYY-MM-DD", err.Message)
	assert.True(t, IsCode(err, ErrValidation.Code))
	assert.False(t, IsCode(sql.ErrNoRows, ErrValidation.Code))
}

func TestCloneDoesNotMutateOriginal(t *testing.T) {
	clone := Clone(ErrConflict, "code taken")
	assert.Equal(t, "conflict", ErrConflict.Message)
	assert.Equal(t, "code taken", clone.Message)
}
