package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	base := New(KindNotFound, "record not found")
	wrapped := fmt.Errorf("service: %w", base)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestIsMatchesSentinel(t *testing.T) {
	sentinel := New(KindConflict, "username already exists")
	err := fmt.Errorf("register: %w", New(KindConflict, "username already exists"))

	assert.ErrorIs(t, err, sentinel)
	assert.NotErrorIs(t, err, New(KindConflict, "other"))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, StatusOf(KindUnauthenticated))
	assert.Equal(t, http.StatusRequestEntityTooLarge, StatusOf(KindPayloadTooLarge))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(Kind("weird")))
}

func TestPublicMessageHidesInternalDetail(t *testing.T) {
	err := Wrap(KindInternal, errors.New("open /var/uploads/x: permission denied"), "storage failure")
	assert.Equal(t, "internal server error", PublicMessage(err))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("pq: relation missing")))

	assert.Equal(t, "unsupported file type", PublicMessage(New(KindInvalidInput, "unsupported file type")))
	assert.Contains(t, err.Error(), "permission denied")
}
