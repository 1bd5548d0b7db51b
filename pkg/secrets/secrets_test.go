package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "sentra/pkg/domain-errors"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("482913")
	require.NoError(t, err)
	assert.NotContains(t, hash, "482913")

	assert.NoError(t, Verify("482913", hash))

	err = Verify("000000", hash)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestHashRejectsBadInput(t *testing.T) {
	_, err := Hash("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	// bcrypt caps input at 72 bytes.
	_, err = Hash(strings.Repeat("9", 80))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
