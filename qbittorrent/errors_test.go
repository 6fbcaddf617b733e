package qbittorrent

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientErrorIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", newClientError(ErrorTypeInvalidCredentials, "bad password"))

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NotErrorIs(t, err, ErrIPBanned)
	assert.NotErrorIs(t, err, ErrOperationFailed)
	assert.True(t, IsType(err, ErrorTypeInvalidCredentials))
	assert.False(t, IsType(errors.New("other"), ErrorTypeInvalidCredentials))

	var ce *ClientError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrorTypeInvalidCredentials, ce.Type)
	assert.Equal(t, "qbittorrent: bad password", ce.Error())
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		code      int
		forbidden bool
		notFound  bool
	}{
		{code: 403, forbidden: true},
		{code: 404, notFound: true},
		{code: 500},
	}

	for _, tt := range tests {
		err := &StatusError{Endpoint: "torrents/info", StatusCode: tt.code}
		assert.Equal(t, tt.forbidden, err.IsForbidden())
		assert.Equal(t, tt.notFound, err.IsNotFound())
		assert.Contains(t, err.Error(), fmt.Sprintf("status %d", tt.code))
	}
}

func TestHashHelpers(t *testing.T) {
	assert.Equal(t, "abcdef0123", NormalizeHash("ABCdef0123"))
	assert.Equal(t, NormalizeHash("ABC"), NormalizeHash(NormalizeHash("ABC")))

	assert.Equal(t, "b|a|c", JoinHashes([]string{"B", "a", "C"}))
	assert.Equal(t, "", JoinHashes(nil))
	assert.Equal(t, "single", JoinHashes([]string{"SINGLE"}))
}
