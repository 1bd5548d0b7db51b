package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"sentra/internal/clientclass"
	"sentra/internal/sentinel"
	id "sentra/pkg/domain"
	dErrors "sentra/pkg/domain-errors"
)

type VerifierSuite struct {
	suite.Suite
	exchanger *mockExchanger
	verifier  *Verifier
}

func TestVerifierSuite(t *testing.T) {
	suite.Run(t, new(VerifierSuite))
}

type mockExchanger struct {
	identity *Identity
	errs     []error // consumed per call; nil entry means success
	calls    int
}

func (m *mockExchanger) Exchange(_ context.Context, _ string) (*Identity, error) {
	idx := m.calls
	m.calls++
	if idx < len(m.errs) && m.errs[idx] != nil {
		return nil, m.errs[idx]
	}
	return m.identity, nil
}

func (s *VerifierSuite) SetupTest() {
	s.exchanger = &mockExchanger{
		identity: &Identity{ID: id.UserID(uuid.New()), Email: "admin@example.edu", IsAdmin: true},
	}
	s.verifier = NewVerifier(s.exchanger, WithRetryPolicy(2, time.Millisecond))
}

func (s *VerifierSuite) TestMissingToken() {
	for _, header := range []string{"", "Bearer ", "Token abc", "Bearer"} {
		_, err := s.verifier.Verify(context.Background(), header, clientclass.ClassStable)
		s.Require().Error(err, "header %q", header)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	}
	s.Zero(s.exchanger.calls, "no exchange attempted without a token")
}

func (s *VerifierSuite) TestStableClientFailsFast() {
	s.exchanger.errs = []error{errors.New("connection reset")}

	_, err := s.verifier.Verify(context.Background(), "Bearer tok", clientclass.ClassStable)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Equal(1, s.exchanger.calls, "stable clients get no retry")
}

func (s *VerifierSuite) TestUnstableClientRetriesThenSucceeds() {
	s.exchanger.errs = []error{errors.New("dropped"), errors.New("dropped"), nil}

	ident, err := s.verifier.Verify(context.Background(), "Bearer tok", clientclass.ClassUnstable)
	s.Require().NoError(err)
	s.Equal(s.exchanger.identity.ID, ident.ID)
	s.Equal(3, s.exchanger.calls, "two extra attempts for unstable clients")
}

func (s *VerifierSuite) TestUnstableClientExhaustsRetries() {
	s.exchanger.errs = []error{errors.New("dropped"), errors.New("dropped"), errors.New("dropped")}

	_, err := s.verifier.Verify(context.Background(), "Bearer tok", clientclass.ClassUnstable)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Equal(3, s.exchanger.calls)
}

func (s *VerifierSuite) TestUnknownCredentialIsNotRetried() {
	s.exchanger.errs = []error{sentinel.ErrNotFound}

	_, err := s.verifier.Verify(context.Background(), "Bearer tok", clientclass.ClassUnstable)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Equal(1, s.exchanger.calls, "a rejected credential is final")
}

func (s *VerifierSuite) TestExpiredCredentialIsNotRetried() {
	s.exchanger.errs = []error{sentinel.ErrExpired}

	_, err := s.verifier.Verify(context.Background(), "Bearer tok", clientclass.ClassUnstable)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.ErrorContains(err, "expired")
	s.Equal(1, s.exchanger.calls)
}

func (s *VerifierSuite) TestContextCancelledDuringRetry() {
	s.exchanger.errs = []error{errors.New("dropped")}
	s.verifier = NewVerifier(s.exchanger, WithRetryPolicy(2, 50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.verifier.Verify(ctx, "Bearer tok", clientclass.ClassUnstable)
	s.Require().Error(err)
	s.Equal(1, s.exchanger.calls, "cancellation stops the retry loop")
}

func (s *VerifierSuite) TestSuccessFirstTry() {
	ident, err := s.verifier.Verify(context.Background(), "Bearer tok", clientclass.ClassUnstable)
	s.Require().NoError(err)
	s.True(ident.IsAdmin)
	s.Equal(1, s.exchanger.calls)
}
