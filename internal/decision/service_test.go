package decision

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"sentra/internal/audit"
	"sentra/internal/decision/ports"
	"sentra/internal/identity"
	"sentra/internal/ratelimit"
	id "sentra/pkg/domain"
	dErrors "sentra/pkg/domain-errors"
)

// DecisionSuite verifies the access policy against deterministic oracle
// stand-ins.
type DecisionSuite struct {
	suite.Suite
	oracle   *mockRiskOracle
	profiles *mockProfileStore
	minter   *mockMinter
	store    *audit.InMemoryStore
	service  *Service
	ident    *identity.Identity
}

func TestDecisionSuite(t *testing.T) {
	suite.Run(t, new(DecisionSuite))
}

type mockRiskOracle struct {
	eligible       bool
	eligibilityErr error
	report         *ports.RiskReport
	riskErr        error
}

func (m *mockRiskOracle) CheckEligibility(_ context.Context, _ id.UserID) (bool, error) {
	return m.eligible, m.eligibilityErr
}

func (m *mockRiskOracle) CheckRisk(_ context.Context, _ id.UserID) (*ports.RiskReport, error) {
	return m.report, m.riskErr
}

type mockProfileStore struct {
	profile *ports.Profile
	err     error
}

func (m *mockProfileStore) GetProfile(_ context.Context, _ id.UserID) (*ports.Profile, error) {
	return m.profile, m.err
}

type mockMinter struct {
	err   error
	mints int
}

func (m *mockMinter) Mint(_ id.UserID, _ time.Time) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.mints++
	return "tok-" + uuid.NewString(), nil
}

func (s *DecisionSuite) SetupTest() {
	s.oracle = &mockRiskOracle{report: &ports.RiskReport{}}
	s.profiles = &mockProfileStore{}
	s.minter = &mockMinter{}
	s.store = audit.NewInMemoryStore()

	s.service = New(s.oracle, s.profiles, s.minter, audit.NewPublisher(s.store))
	s.ident = &identity.Identity{ID: id.UserID(uuid.New()), Email: "admin@example.edu"}
}

func (s *DecisionSuite) auditActions() []audit.Action {
	events, err := s.store.ListByUser(context.Background(), s.ident.ID.String())
	s.Require().NoError(err)
	actions := make([]audit.Action, 0, len(events))
	for _, ev := range events {
		actions = append(actions, ev.Action)
	}
	return actions
}

func (s *DecisionSuite) TestAdminExemptionInvariant() {
	// Eligible admins are granted regardless of risk score magnitude.
	s.oracle.eligible = true
	s.oracle.report = &ports.RiskReport{RiskScore: 87, IsSuspicious: true, ShouldBlock: true}

	dec, err := s.service.Evaluate(context.Background(), s.ident, "10.0.0.1")
	s.Require().NoError(err)

	s.Equal(OutcomeGranted, dec.Outcome)
	s.True(dec.IsValid)
	s.False(dec.Blocked())
	s.NotEmpty(dec.ValidationToken, "token present iff valid")
	s.Equal(87.0, dec.RiskScore)
	s.True(dec.IsSuspicious)

	s.Equal([]audit.Action{audit.ActionAdminAccessCheck, audit.ActionAdminAccessGranted}, s.auditActions())
}

func (s *DecisionSuite) TestNonAdminWithBlockFlagIsBlocked() {
	s.oracle.eligible = false
	s.oracle.report = &ports.RiskReport{RiskScore: 42, IsSuspicious: true, ShouldBlock: true}

	dec, err := s.service.Evaluate(context.Background(), s.ident, "10.0.0.1")
	s.Require().NoError(err)

	s.Equal(OutcomeBlocked, dec.Outcome)
	s.True(dec.Blocked())
	s.False(dec.IsValid)
	s.Empty(dec.ValidationToken)

	actions := s.auditActions()
	s.Equal([]audit.Action{audit.ActionAdminAccessCheck, audit.ActionAdminAccessBlocked}, actions)
}

func (s *DecisionSuite) TestNonAdminWithoutBlockFlagIsPlainDeny() {
	s.oracle.eligible = false
	s.oracle.report = &ports.RiskReport{RiskScore: 95, IsSuspicious: true, ShouldBlock: false}

	dec, err := s.service.Evaluate(context.Background(), s.ident, "10.0.0.1")
	s.Require().NoError(err)

	s.Equal(OutcomeDenied, dec.Outcome)
	s.False(dec.Blocked(), "never BLOCK-flagged without should_block")
	s.False(dec.IsValid)
	s.Empty(dec.ValidationToken)
}

func (s *DecisionSuite) TestEligibilityOracleFailureIsFatal() {
	s.oracle.eligibilityErr = errors.New("stored procedure timeout")

	_, err := s.service.Evaluate(context.Background(), s.ident, "10.0.0.1")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeOracleFailed), "distinct from a legitimate deny")
	s.Zero(s.minter.mints)

	// The pre-check audit record still lands, plus the error branch record.
	s.Equal([]audit.Action{audit.ActionAdminAccessCheck, audit.ActionAdminAccessDenied}, s.auditActions())
}

func (s *DecisionSuite) TestRiskOracleFailureDegradesGracefully() {
	s.oracle.eligible = true
	s.oracle.report = nil
	s.oracle.riskErr = errors.New("risk engine down")

	dec, err := s.service.Evaluate(context.Background(), s.ident, "10.0.0.1")
	s.Require().NoError(err, "risk outage alone never fails the request")

	s.True(dec.IsValid)
	s.Zero(dec.RiskScore, "safe default report")
	s.False(dec.IsSuspicious)
	s.False(dec.Blocked())
}

func (s *DecisionSuite) TestRiskOracleFailureNeverCausesFalseBlock() {
	s.oracle.eligible = false
	s.oracle.riskErr = errors.New("risk engine down")

	dec, err := s.service.Evaluate(context.Background(), s.ident, "10.0.0.1")
	s.Require().NoError(err)

	s.Equal(OutcomeDenied, dec.Outcome, "safe default cannot block")
	s.False(dec.Blocked())
}

func (s *DecisionSuite) TestAuditPrecedesJudgment() {
	s.oracle.eligible = true

	_, err := s.service.Evaluate(context.Background(), s.ident, "10.0.0.1")
	s.Require().NoError(err)

	events, err := s.store.ListByUser(context.Background(), s.ident.ID.String())
	s.Require().NoError(err)
	s.Require().NotEmpty(events)
	s.Equal(audit.ActionAdminAccessCheck, events[0].Action, "check is audited before evaluating risk")
}

func (s *DecisionSuite) TestTokenMintFailureSurfaces() {
	s.oracle.eligible = true
	s.minter.err = errors.New("signing key unavailable")

	_, err := s.service.Evaluate(context.Background(), s.ident, "10.0.0.1")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *DecisionSuite) TestRateLimitedAfterCap() {
	s.oracle.eligible = true
	limited := New(s.oracle, s.profiles, s.minter, audit.NewPublisher(s.store),
		WithRateLimiter(ratelimit.NewLimiter(ratelimit.NewInMemoryStore())),
	)

	ctx := context.Background()
	for range accessCheckLimit {
		_, err := limited.Evaluate(ctx, s.ident, "10.0.0.1")
		s.Require().NoError(err)
	}

	_, err := limited.Evaluate(ctx, s.ident, "10.0.0.1")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeRateLimited))
}

func (s *DecisionSuite) TestDashboardGrantedPopulatesProfile() {
	s.oracle.eligible = true
	s.profiles.profile = &ports.Profile{UserID: s.ident.ID, Email: s.ident.Email, DisplayName: "Admin"}

	dec, err := s.service.CheckDashboard(context.Background(), s.ident, "10.0.0.1")
	s.Require().NoError(err)
	s.True(dec.CanAccess)
	s.Require().NotNil(dec.Profile)
	s.Equal("Admin", dec.Profile.DisplayName)
}

func (s *DecisionSuite) TestDashboardDeniedOmitsProfile() {
	s.oracle.eligible = false
	s.profiles.profile = &ports.Profile{UserID: s.ident.ID}

	dec, err := s.service.CheckDashboard(context.Background(), s.ident, "10.0.0.1")
	s.Require().NoError(err)
	s.False(dec.CanAccess)
	s.Nil(dec.Profile, "profile populated only when access is granted")
}

func (s *DecisionSuite) TestDashboardProfileFetchFailureDoesNotRevokeAccess() {
	s.oracle.eligible = true
	s.profiles.err = errors.New("profile store down")

	dec, err := s.service.CheckDashboard(context.Background(), s.ident, "10.0.0.1")
	s.Require().NoError(err)
	s.True(dec.CanAccess)
	s.Nil(dec.Profile)
}
