package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "sentra/pkg/domain-errors"
)

type sampleRequest struct {
	InstitutionalUser string `validate:"max=10"`
	DisplayName       string `validate:"notblank"`
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(sampleRequest{InstitutionalUser: "vitor", DisplayName: "Vitor"}))

	err := Validate(sampleRequest{InstitutionalUser: strings.Repeat("x", 11), DisplayName: "Vitor"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.EqualError(t, err, "institutional_user must be at most 10")

	err = Validate(sampleRequest{InstitutionalUser: "vitor", DisplayName: "   "})
	require.Error(t, err)
	assert.EqualError(t, err, "display_name must not be blank")
}
