// Command watchdog runs the session continuity manager against simulated
// network conditions: sign-in, a dropped session, recovery. Useful for
// watching the state machine's signals without a real client.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"sentra/internal/clientclass"
	"sentra/internal/platform/config"
	"sentra/internal/platform/logger"
	"sentra/internal/session"
	"sentra/internal/session/adapters"
	"sentra/internal/session/ports"
)

// flakyRefresher fails every other refresh to exercise the rehydration path.
type flakyRefresher struct {
	calls atomic.Int64
}

func (f *flakyRefresher) Refresh(_ context.Context) (*ports.Credential, error) {
	if f.calls.Add(1)%2 == 0 {
		return nil, errors.New("simulated refresh failure")
	}
	return &ports.Credential{
		Token:     fmt.Sprintf("refreshed-%d", f.calls.Load()),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

// droppingOracle reports the session gone once per minute.
type droppingOracle struct {
	calls atomic.Int64
}

func (o *droppingOracle) HasLiveSession(_ context.Context) (bool, error) {
	return o.calls.Add(1)%4 != 0, nil
}

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	manager := session.NewManager(
		&flakyRefresher{},
		&droppingOracle{},
		adapters.NewMemoryCache(),
		clientclass.ClassUnstable,
		session.WithHeartbeatInterval(cfg.HeartbeatInterval),
		session.WithRecoveryDebounce(cfg.RecoveryDebounce),
		session.WithManagerLogger(log),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go manager.Run(ctx)
	manager.SignIn(ports.Credential{
		Token:     "initial-session",
		ExpiresAt: time.Now().Add(time.Hour),
	})

	for {
		select {
		case <-ctx.Done():
			log.Info("watchdog stopped")
			return
		case st := <-manager.Status():
			log.Info("session signal",
				"kind", string(st.Kind),
				"detail", st.Detail)
		}
	}
}
