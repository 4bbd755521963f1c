package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Releaser frees option bookings whose hold date has passed.
type Releaser interface {
	ReleaseExpiredOptions(ctx context.Context) (int, error)
}

type OptionSweeper struct {
	releaser Releaser
	interval time.Duration
	log      *zap.Logger
}

func NewOptionSweeper(releaser Releaser, interval time.Duration, log *zap.Logger) *OptionSweeper {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &OptionSweeper{
		releaser: releaser,
		interval: interval,
		log:      log.With(zap.String("worker", "option_sweeper")),
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *OptionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("Option sweeper started", zap.Duration("interval", s.interval))
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Option sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *OptionSweeper) sweep(ctx context.Context) {
	released, err := s.releaser.ReleaseExpiredOptions(ctx)
	if err != nil {
		s.log.Error("Option sweep failed", zap.Error(err), zap.Int("released", released))
		return
	}
	if released > 0 {
		s.log.Info("Expired options released", zap.Int("released", released))
	}
}
