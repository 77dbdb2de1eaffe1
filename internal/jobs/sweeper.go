package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"finca-reservations/internal/pkg/config"
	"finca-reservations/internal/usecase/commands"
)

// Sweeper runs the expiry sweep on a fixed schedule so stale pending holds
// release their dates even when no external cron hits the ops endpoint.
type Sweeper struct {
	cron   *cron.Cron
	sweep  commands.SweepCommands
	logger *slog.Logger
}

func NewSweeper(cfg config.OpsConfig, sweep commands.SweepCommands, logger *slog.Logger) (*Sweeper, error) {
	c := cron.New()
	s := &Sweeper{cron: c, sweep: sweep, logger: logger}

	schedule := fmt.Sprintf("@every %s", cfg.SweepInterval)
	if _, err := c.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("failed to schedule expiry sweep: %w", err)
	}
	return s, nil
}

func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop waits for an in-flight sweep to finish.
func (s *Sweeper) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := s.sweep.SweepExpired(ctx)
	if err != nil {
		s.logger.Error("expiry sweep failed", "error", err)
		return
	}
	if count > 0 {
		s.logger.Info("expiry sweep released holds", "count", count)
	}
}
