package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/store"
)

// Swept counts the rows one housekeeping pass removed.
type Swept struct {
	Sessions int64
	Flows    int64
}

// HousekeepingService drops expired sessions and auth flows on a timer.
// Expired rows are already invisible to readers; this only reclaims space.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewHousekeepingService sweeps every interval, hourly when interval <= 0.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		Now:      time.Now,
	}
}

// Start sweeps once right away, then every Interval until Stop.
func (s *HousekeepingService) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(ctx)
	}()

	s.Logger.Info("housekeeping started", "interval", s.Interval)
}

// Stop cancels the loop and waits for a running sweep to return. It is safe
// to call more than once, or without Start.
func (s *HousekeepingService) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) loop(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		s.Cleanup(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Cleanup runs one sweep. A failing table is logged and the other is still
// swept.
func (s *HousekeepingService) Cleanup(ctx context.Context) Swept {
	var swept Swept
	now := s.Now()

	n, err := s.Store.Sessions().DeleteExpired(ctx, now)
	if err != nil {
		s.Logger.Error("failed to sweep sessions", "error", err)
	}
	swept.Sessions = n

	n, err = s.Store.AuthFlows().DeleteExpired(ctx, now)
	if err != nil {
		s.Logger.Error("failed to sweep auth flows", "error", err)
	}
	swept.Flows = n

	if swept.Sessions > 0 || swept.Flows > 0 {
		s.Logger.Info("housekeeping sweep", "sessions", swept.Sessions, "flows", swept.Flows)
	}
	return swept
}
