package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/harborcrest/authgate/internal/identity/store"
)

// SweeperService periodically removes revocation entries whose tokens have
// already expired, bounding store growth. It runs off the request path;
// verification never depends on a sweep having happened.
type SweeperService struct {
	Revocations store.RevokedTokens
	Logger      *slog.Logger
	Interval    time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewSweeperService creates a sweeper. interval <= 0 defaults to 1 hour.
func NewSweeperService(revocations store.RevokedTokens, logger *slog.Logger, interval time.Duration) *SweeperService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SweeperService{
		Revocations: revocations,
		Logger:      logger,
		Interval:    interval,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start launches the background worker. Non-blocking; call Stop to shut
// it down.
func (s *SweeperService) Start() {
	go s.run()
	s.Logger.Info("revocation sweeper started", "interval", s.Interval)
}

// Stop shuts down the worker and blocks until any in-progress sweep
// finishes.
func (s *SweeperService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("revocation sweeper stopped")
}

func (s *SweeperService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.sweep()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *SweeperService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.Revocations.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		s.Logger.Error("revocation sweep failed", "error", err)
		return
	}
	if n > 0 {
		s.Logger.Info("revocation sweep completed", "deleted", n)
	}
}
