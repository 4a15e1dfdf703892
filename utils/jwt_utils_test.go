package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("6f1c7f6e-9b1d-4b2e-8a77-0e9a2d3c4b5a", "secret")
	require.NoError(t, err)

	userID, err := ValidateToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "6f1c7f6e-9b1d-4b2e-8a77-0e9a2d3c4b5a", userID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("user-1", "secret-a")
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret-b")
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", "secret")
	assert.Error(t, err)
}

func TestValidateTokenMissingSubject(t *testing.T) {
	token, err := GenerateToken("", "secret")
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret")
	assert.Error(t, err)
}
