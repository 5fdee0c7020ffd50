package poll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handle controls one running polling loop. Each consumer owns exactly
// one handle per loop and must stop it on teardown.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop cancels the loop and waits for it to exit. After Stop returns the
// callback will not run again. A callback already in flight finishes
// first; its result is simply dropped by whoever was rendering it.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

// Done is closed when the loop has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Every runs fn immediately and then once per interval until the handle
// is stopped or the parent context is cancelled.
func Every(ctx context.Context, interval time.Duration, fn func(ctx context.Context)) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	id := uuid.NewString()

	go func() {
		defer close(h.done)
		zap.L().Debug("poll loop started",
			zap.String("poll_id", id),
			zap.Duration("interval", interval))

		t := time.NewTicker(interval)
		defer t.Stop()

		fn(ctx)
		for {
			select {
			case <-ctx.Done():
				zap.L().Debug("poll loop stopped", zap.String("poll_id", id))
				return
			case <-t.C:
				fn(ctx)
			}
		}
	}()
	return h
}

// Staggered sweeps the symbol list once per interval, pausing stagger
// between symbols to smooth load on the shared rate-limit gate.
func Staggered(ctx context.Context, interval, stagger time.Duration, symbols []string, fn func(ctx context.Context, symbol string)) *Handle {
	return Every(ctx, interval, func(ctx context.Context) {
		for i, sym := range symbols {
			if i > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(stagger):
				}
			}
			fn(ctx, sym)
		}
	})
}
