package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	notFound := NewNotFound("ticket", map[string]any{"id": "TKT-1"})
	wrapped := fmt.Errorf("load: %w", notFound)
	de := ToDomainError(wrapped)
	require.NotNil(t, de)
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, "ticket not found", de.Message)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)

	de = ToDomainError(fmt.Errorf("scan: %w", pgx.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)

	cause := errors.New("connection reset")
	de = ToDomainError(cause)
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.ErrorIs(t, de, cause)
}

func TestHasCode(t *testing.T) {
	assert.True(t, HasCode(NewRateLimited("slow down"), "RATE_LIMITED"))
	assert.False(t, HasCode(NewForbidden("nope"), "RATE_LIMITED"))
	assert.False(t, HasCode(errors.New("plain"), "RATE_LIMITED"))
}
