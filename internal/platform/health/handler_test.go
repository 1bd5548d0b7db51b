package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadinessReflectsChecks(t *testing.T) {
	h := New("test")
	h.RegisterCheck("database", func() error { return nil })

	rec := httptest.NewRecorder()
	h.handleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var report readinessReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "ready", report.Status)
	assert.Equal(t, "up", report.Checks["database"])

	h.RegisterCheck("database", func() error { return errors.New("connection refused") })

	rec = httptest.NewRecorder()
	h.handleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "not_ready", report.Status)
	assert.Contains(t, report.Checks["database"], "connection refused")
}

func TestLivenessAlwaysOK(t *testing.T) {
	rec := httptest.NewRecorder()
	New("test").handleLiveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
