package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "sentra/pkg/domain-errors"
)

// LimitsSuite covers the trust-boundary length validators: max must pass,
// max+1 must fail.
type LimitsSuite struct {
	suite.Suite
}

func TestLimitsSuite(t *testing.T) {
	suite.Run(t, new(LimitsSuite))
}

func (s *LimitsSuite) TestCheckStringLength() {
	s.Run("passes when length equals max", func() {
		err := CheckStringLength("pin", strings.Repeat("a", MaxPINLength), MaxPINLength)
		s.NoError(err)
	})

	s.Run("passes when length is below max", func() {
		s.NoError(CheckStringLength("pin", "4812", MaxPINLength))
	})

	s.Run("passes on empty string", func() {
		s.NoError(CheckStringLength("pin", "", MaxPINLength))
	})

	s.Run("fails when length exceeds max", func() {
		err := CheckStringLength("pin", strings.Repeat("a", MaxPINLength+1), MaxPINLength)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "exceeds max length")
	})
}
