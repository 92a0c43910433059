package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/unitechhub/examhub/internal/service"
)

// expirySweepLimit caps how many overdue sessions one sweep closes.
const expirySweepLimit = 100

// ExpiryWorker sweeps IN_PROGRESS sessions past their deadline and
// force-submits them with whatever was autosaved. The timer shown to
// the client is cosmetic; this sweep is what actually ends a session.
type ExpiryWorker struct {
	practiceService *service.PracticeService
	interval        time.Duration
	log             zerolog.Logger
}

// NewExpiryWorker creates a new ExpiryWorker.
func NewExpiryWorker(practiceService *service.PracticeService, interval time.Duration, log zerolog.Logger) *ExpiryWorker {
	if interval <= 0 {
		interval = time.Second
	}
	return &ExpiryWorker{
		practiceService: practiceService,
		interval:        interval,
		log:             log.With().Str("component", "expiry_worker").Logger(),
	}
}

// Start begins the sweep loop. Call in a goroutine.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			expired, err := w.practiceService.ExpireOverdue(ctx, expirySweepLimit)
			if err != nil {
				if ctx.Err() == nil {
					w.log.Error().Err(err).Msg("Expiry sweep error")
				}
				continue
			}
			if expired > 0 {
				w.log.Info().Int("count", expired).Msg("Overdue sessions closed")
			}
		}
	}
}
