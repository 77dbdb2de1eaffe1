//go:build unit

package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finca-reservations/internal/pkg/password"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := password.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NoError(t, password.ComparePassword(hash, "correct horse battery staple"))
	assert.ErrorIs(t, password.ComparePassword(hash, "wrong"), password.ErrComparisonFailed)
}

func TestEmptyInputs(t *testing.T) {
	_, err := password.Hash("")
	assert.ErrorIs(t, err, password.ErrInvalidPassword)

	assert.ErrorIs(t, password.ComparePassword("", "x"), password.ErrInvalidPassword)
	assert.ErrorIs(t, password.ComparePassword("hash", ""), password.ErrInvalidPassword)
}
