package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LicenseSweeper re-checks every active license and returns how many were checked
type LicenseSweeper interface {
	SweepActiveLicenses(ctx context.Context) (int, error)
}

// Scheduler runs background jobs
type Scheduler struct {
	sweeper  LicenseSweeper
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewScheduler(sweeper LicenseSweeper, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("license_sweep_interval", s.interval))

	s.wg.Add(1)
	go s.runLicenseSweepTask(ctx)
}

// Stop signals the jobs and waits for the running sweep to return
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

// runLicenseSweepTask surfaces expiry notifications for robots that stopped polling
func (s *Scheduler) runLicenseSweepTask(ctx context.Context) {
	defer s.wg.Done()

	// first run right away
	s.sweepLicenses(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweepLicenses(ctx)
		case <-s.stopChan:
			s.logger.Info("License sweep task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("License sweep task cancelled")
			return
		}
	}
}

func (s *Scheduler) sweepLicenses(ctx context.Context) {
	started := time.Now()

	checked, err := s.sweeper.SweepActiveLicenses(ctx)
	if err != nil {
		s.logger.Error("License sweep failed",
			zap.Int("checked", checked),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("License sweep completed",
		zap.Int("checked", checked),
		zap.Duration("took", time.Since(started)),
	)
}
