package httptransport

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"sentra/internal/clientclass"
	"sentra/internal/platform/middleware"
	dErrors "sentra/pkg/domain-errors"
	"sentra/pkg/platform/httputil"
)

// accessResponse is the admin-access envelope. Denials and errors reuse it
// with isValid=false so clients render a specific message instead of a
// generic HTTP failure page.
type accessResponse struct {
	IsValid         bool    `json:"isValid"`
	UserID          string  `json:"userId,omitempty"`
	Timestamp       string  `json:"timestamp,omitempty"`
	RiskScore       float64 `json:"riskScore,omitempty"`
	IsSuspicious    bool    `json:"isSuspicious,omitempty"`
	ValidationToken string  `json:"validationToken,omitempty"`
	Error           string  `json:"error,omitempty"`
	Blocked         bool    `json:"blocked,omitempty"`
}

func (h *Handler) handleAdminAccess(w http.ResponseWriter, r *http.Request) {
	class := clientclass.Detect(r.Header.Get("X-Client-Class"), r.UserAgent())

	ident, err := h.verifier.Verify(r.Context(), r.Header.Get("Authorization"), class)
	if err != nil {
		h.logger.Warn("identity verification failed",
			slog.String("request_id", requestID(r)),
			slog.Any("error", err))
		writeAccessError(w, http.StatusUnauthorized, "invalid or missing credential", false)
		return
	}

	dec, err := h.decisions.Evaluate(r.Context(), ident, realIP(r))
	if err != nil {
		status, msg := accessErrorStatus(err)
		writeAccessError(w, status, msg, false)
		return
	}

	switch {
	case dec.Blocked():
		writeAccessError(w, http.StatusForbidden, "access blocked due to suspicious activity", true)
	case !dec.IsValid:
		writeAccessError(w, http.StatusUnauthorized, "admin access denied", false)
	default:
		httputil.WriteJSON(w, http.StatusOK, accessResponse{
			IsValid:         true,
			UserID:          dec.UserID.String(),
			Timestamp:       dec.Timestamp.UTC().Format(time.RFC3339),
			RiskScore:       dec.RiskScore,
			IsSuspicious:    dec.IsSuspicious,
			ValidationToken: dec.ValidationToken,
		})
	}
}

// dashboardResponse mirrors the lighter read-only check.
type dashboardResponse struct {
	Success   bool           `json:"success"`
	CanAccess bool           `json:"canAccess"`
	Message   string         `json:"message"`
	Profile   map[string]any `json:"userProfile,omitempty"`
}

func (h *Handler) handleDashboardAccess(w http.ResponseWriter, r *http.Request) {
	class := clientclass.Detect(r.Header.Get("X-Client-Class"), r.UserAgent())

	ident, err := h.verifier.Verify(r.Context(), r.Header.Get("Authorization"), class)
	if err != nil {
		httputil.WriteJSON(w, http.StatusUnauthorized, dashboardResponse{
			Success: false,
			Message: "invalid or missing credential",
		})
		return
	}

	dec, err := h.decisions.CheckDashboard(r.Context(), ident, realIP(r))
	if err != nil {
		status, msg := accessErrorStatus(err)
		httputil.WriteJSON(w, status, dashboardResponse{Success: false, Message: msg})
		return
	}

	resp := dashboardResponse{
		Success:   true,
		CanAccess: dec.CanAccess,
		Message:   dec.Message,
	}
	if dec.Profile != nil {
		resp.Profile = map[string]any{
			"userId":      dec.Profile.UserID.String(),
			"email":       dec.Profile.Email,
			"displayName": dec.Profile.DisplayName,
			"role":        dec.Profile.Role,
		}
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func writeAccessError(w http.ResponseWriter, status int, msg string, blocked bool) {
	httputil.WriteJSON(w, status, accessResponse{
		IsValid: false,
		Error:   msg,
		Blocked: blocked,
	})
}

// accessErrorStatus maps a domain error to the transport status and a client
// safe message. Oracle failures stay distinct from legitimate denials.
func accessErrorStatus(err error) (int, string) {
	var dErr *dErrors.Error
	if errors.As(err, &dErr) {
		return httputil.DomainCodeToHTTPStatus(dErr.Code), dErr.Message
	}
	return http.StatusInternalServerError, "internal error"
}

func requestID(r *http.Request) string {
	return middleware.GetRequestID(r.Context())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	httputil.WriteJSON(w, status, v)
}
