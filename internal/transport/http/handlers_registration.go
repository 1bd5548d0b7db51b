package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"sentra/internal/ratelimit"
	"sentra/internal/registration"
	"sentra/pkg/platform/httputil"
	limits "sentra/pkg/platform/validation"
	str "sentra/pkg/string"
	"sentra/pkg/validation"
)

// registerRequest bounds field lengths at the transport edge; presence rules
// belong to the fraud-prevention pipeline, not the codec.
type registerRequest struct {
	InstitutionalUser string `json:"institutional_user" validate:"max=100"`
	DisplayName       string `json:"display_name" validate:"max=200"`
	PIN               string `json:"pin" validate:"max=64"`
	UserAgent         string `json:"user_agent" validate:"max=512"`
}

// registerResponse is the validation envelope. Business denials are 200 with
// canRegister=false so the client can surface the specific reason.
type registerResponse struct {
	Success         bool   `json:"success"`
	CanRegister     bool   `json:"canRegister"`
	RequiresCaptcha bool   `json:"requiresCaptcha"`
	Message         string `json:"message"`
	Reason          string `json:"reason,omitempty"`
	BlockedUntil    string `json:"blockedUntil,omitempty"`
}

func (h *Handler) handleRegisterValidate(w http.ResponseWriter, r *http.Request) {
	ip := realIP(r)

	// Endpoint throttle, separate from the per-IP registration quota the
	// guard consults.
	allowed, err := h.limiter.Allow(r.Context(), ratelimit.Key("registration", ip), registrationLimit, registrationWindow)
	if err == nil && !allowed {
		httputil.WriteJSON(w, http.StatusTooManyRequests, registerResponse{
			Success: false,
			Message: "too many validation attempts, try again shortly",
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxBodySize)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, registerResponse{
			Success: false,
			Message: "malformed request body",
		})
		return
	}
	str.TrimStrings(&req.InstitutionalUser, &req.DisplayName, &req.UserAgent)
	if err := validation.Validate(req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, registerResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = r.UserAgent()
	}

	decision, err := h.guard.Evaluate(r.Context(), registration.Attempt{
		InstitutionalUser: req.InstitutionalUser,
		DisplayName:       req.DisplayName,
		PIN:               req.PIN,
		IPAddress:         ip,
		UserAgent:         userAgent,
	})
	if err != nil {
		h.logger.Error("registration validation failed",
			slog.String("request_id", requestID(r)),
			slog.Any("error", err))
		httputil.WriteJSON(w, http.StatusInternalServerError, registerResponse{
			Success: false,
			Message: "validation temporarily unavailable",
		})
		return
	}

	resp := registerResponse{
		Success:         true,
		CanRegister:     decision.CanRegister,
		RequiresCaptcha: decision.RequiresCaptcha,
		Message:         decision.Message,
		Reason:          decision.Reason,
	}
	if decision.BlockedUntil != nil {
		resp.BlockedUntil = decision.BlockedUntil.UTC().Format(time.RFC3339)
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
