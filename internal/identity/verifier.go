package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"sentra/internal/clientclass"
	"sentra/internal/sentinel"
	dErrors "sentra/pkg/domain-errors"
)

const (
	bearerPrefix = "Bearer "

	// Unstable mobile network stacks drop requests mid-flight; two extra
	// attempts with a fixed short delay absorb most of that.
	defaultMaxRetries = 2
	defaultRetryDelay = 300 * time.Millisecond
)

// Verifier resolves bearer credentials, retrying transiently for client
// classes known to drop requests. It performs no logging and no audit writes;
// the calling pipeline owns observability.
type Verifier struct {
	exchanger  TokenExchanger
	maxRetries int
	retryDelay time.Duration
}

// Option configures the Verifier.
type Option func(*Verifier)

// WithRetryPolicy overrides the retry count and delay for unstable clients.
// Used by tests to keep retries fast.
func WithRetryPolicy(retries int, delay time.Duration) Option {
	return func(v *Verifier) {
		if retries >= 0 {
			v.maxRetries = retries
		}
		if delay > 0 {
			v.retryDelay = delay
		}
	}
}

// NewVerifier creates a Verifier. Panics if the exchanger is nil - fail fast
// at startup.
func NewVerifier(exchanger TokenExchanger, opts ...Option) *Verifier {
	if exchanger == nil {
		panic("identity.NewVerifier: token exchanger is required")
	}
	v := &Verifier{
		exchanger:  exchanger,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify strips the bearer scheme and exchanges the token for an identity.
// Unstable clients get up to two extra attempts with a fixed delay; stable
// clients fail fast.
func (v *Verifier) Verify(ctx context.Context, authorization string, class clientclass.Class) (*Identity, error) {
	token, ok := strings.CutPrefix(authorization, bearerPrefix)
	if !ok || strings.TrimSpace(token) == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token")
	}
	token = strings.TrimSpace(token)

	attempts := 1
	if class.IsUnstable() {
		attempts += v.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(v.retryDelay):
			case <-ctx.Done():
				return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeUnauthorized, "identity resolution cancelled")
			}
		}

		ident, err := v.exchanger.Exchange(ctx, token)
		if err == nil {
			return ident, nil
		}
		// Rejections are final; retrying only helps transient exchange failures.
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "unknown credential")
		}
		if errors.Is(err, sentinel.ErrExpired) {
			return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "credential expired")
		}
		lastErr = err
	}

	return nil, dErrors.Wrap(lastErr, dErrors.CodeUnauthorized, "could not resolve identity")
}
