package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/homestock/auth-api/internal/otp"
)

// Sweeper periodically evicts expired recovery passcodes from the ledger.
// Expired entries are also evicted on read; the sweep keeps the ledger from
// accumulating challenges nobody ever presents.
type Sweeper struct {
	ledger   *otp.Ledger
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewSweeper creates a new ledger sweeper
func NewSweeper(ledger *otp.Ledger, logger *slog.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		ledger:   ledger,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep. Blocks until Stop or ctx cancellation.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.ledger.SweepExpired(); removed > 0 {
				s.logger.Info("expired passcodes evicted", slog.Int("count", removed))
			}
		case <-s.stopCh:
			s.logger.Info("passcode sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("passcode sweeper context cancelled")
			return
		}
	}
}

// Stop signals the sweeper to stop
func (s *Sweeper) Stop() {
	close(s.stopCh)
}
