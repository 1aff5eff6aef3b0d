package cleanup

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// IdleEvicter ends sessions that have gone quiet.
type IdleEvicter interface {
	CleanupIdle(ctx context.Context, maxIdle time.Duration) int
}

type Worker struct {
	Sessions IdleEvicter
	MaxIdle  time.Duration
	Interval time.Duration
}

func NewWorker(sessions IdleEvicter, maxIdle time.Duration) *Worker {
	interval := maxIdle / 4
	if interval < time.Second {
		interval = time.Second
	}
	return &Worker{Sessions: sessions, MaxIdle: maxIdle, Interval: interval}
}

// Start runs the sweep every Interval until ctx is done. The returned channel
// closes once the worker has stopped.
func (w *Worker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	ticker := time.NewTicker(w.Interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("cleanup worker stopped")
				return
			case <-ticker.C:
				w.RunOnce(ctx)
			}
		}
	}()
	log.Info().Dur("interval", w.Interval).Dur("max_idle", w.MaxIdle).Msg("cleanup worker started")
	return done
}

func (w *Worker) RunOnce(ctx context.Context) int {
	n := w.Sessions.CleanupIdle(ctx, w.MaxIdle)
	if n > 0 {
		log.Debug().Int("evicted", n).Msg("cleanup sweep")
	}
	return n
}
