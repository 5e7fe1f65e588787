package common

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMatchesWrappedCode(t *testing.T) {
	err := NewError(CodeConflict, "already applied", nil)
	wrapped := fmt.Errorf("submit: %w", err)

	assert.True(t, Is(wrapped, CodeConflict))
	assert.False(t, Is(wrapped, CodeNotFound))
}

func TestCodeOfPlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.Equal(t, Code(""), CodeOf(nil))
}

func TestNewErrorKeepsCause(t *testing.T) {
	err := NewError(CodeNotFound, "job not found", sql.ErrNoRows)

	require.True(t, errors.Is(err, sql.ErrNoRows))
	appErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "job not found", appErr.Message)
}

func TestValidationErrorFields(t *testing.T) {
	err := NewValidationError("invalid request", map[string]string{"cover_letter": "too long"})

	appErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, appErr.Code)
	assert.Equal(t, "too long", appErr.Fields["cover_letter"])
}

func TestParseUUID(t *testing.T) {
	id := NewUUID()
	parsed, err := ParseUUID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseUUID("not-a-uuid")
	assert.Error(t, err)
}
