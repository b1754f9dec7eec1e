package reservation

import (
	"context"
	"time"

	"kaizen/internal/clock"
	"kaizen/internal/economy"
	"kaizen/internal/logger"
	"kaizen/internal/metrics"

	"github.com/google/uuid"
)

// registrationAction is the reward action posted when a seat is
// confirmed.
const registrationAction = "event_registration"

type Service struct {
	repo           Repository
	economy        economy.Service
	clock          clock.Clock
	lease          time.Duration
	reaperInterval time.Duration
}

type ServiceOptions struct {
	Clock          clock.Clock
	LeaseDuration  time.Duration
	ReaperInterval time.Duration
}

func NewService(repo Repository, economySvc economy.Service, opts ServiceOptions) *Service {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.LeaseDuration <= 0 {
		opts.LeaseDuration = 10 * time.Minute
	}
	if opts.ReaperInterval <= 0 {
		opts.ReaperInterval = time.Minute
	}
	return &Service{
		repo:           repo,
		economy:        economySvc,
		clock:          opts.Clock,
		lease:          opts.LeaseDuration,
		reaperInterval: opts.ReaperInterval,
	}
}

func (s *Service) CreateEvent(ctx context.Context, event *Event) error {
	return s.repo.CreateEvent(ctx, event)
}

func (s *Service) GetEvent(ctx context.Context, id int) (*Event, error) {
	return s.repo.GetEvent(ctx, id)
}

func (s *Service) ListEvents(ctx context.Context) ([]Event, error) {
	return s.repo.ListEvents(ctx)
}

func (s *Service) ListRegistrations(ctx context.Context, eventID int) ([]Registration, error) {
	return s.repo.ListRegistrations(ctx, eventID)
}

// Reserve holds one seat for the user under a fresh lease.
func (s *Service) Reserve(ctx context.Context, eventID, userID int) (*SeatLock, error) {
	now := s.clock.Now()
	token := uuid.NewString()

	lock, err := s.repo.Acquire(ctx, eventID, userID, token, now, now.Add(s.lease))
	if err != nil {
		metrics.RecordSeatLockAcquire("rejected")
		return nil, err
	}

	metrics.RecordSeatLockAcquire("acquired")
	return lock, nil
}

// Confirm converts the user's lock into a registration and pays out
// the registration reward. A failed reward does not undo the seat.
func (s *Service) Confirm(ctx context.Context, token string, userID int) (*Registration, error) {
	reg, err := s.repo.Confirm(ctx, token, userID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	metrics.RecordSeatLockConfirm()

	if _, err := s.economy.AwardForAction(ctx, userID, registrationAction); err != nil {
		logger.Errorf("Failed to award registration reward for user %d: %v", userID, err)
	}

	return reg, nil
}

func (s *Service) Release(ctx context.Context, token string, userID int) error {
	released, err := s.repo.Release(ctx, token, userID)
	if err != nil {
		return err
	}
	if released {
		metrics.RecordSeatLockRelease()
	}
	return nil
}

// ReapExpired sweeps stale locks once and returns how many were freed.
func (s *Service) ReapExpired(ctx context.Context) (int, error) {
	n, err := s.repo.ReapExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.RecordSeatLocksExpired(n)
		logger.Info("Reaped expired seat locks", "count", n)
	}
	return n, nil
}

// StartReaper sweeps expired locks on a ticker until the context is
// cancelled.
func (s *Service) StartReaper(ctx context.Context) {
	logger.Info("Seat lock reaper started", "interval", s.reaperInterval.String())

	ticker := time.NewTicker(s.reaperInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Seat lock reaper stopped")
			return
		case <-ticker.C:
			if _, err := s.ReapExpired(ctx); err != nil {
				logger.Errorf("Seat lock reap failed: %v", err)
			}
		}
	}
}
