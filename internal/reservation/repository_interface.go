package reservation

import (
	"context"
	"time"
)

type Repository interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, id int) (*Event, error)
	ListEvents(ctx context.Context) ([]Event, error)

	Acquire(ctx context.Context, eventID, userID int, token string, now, expiresAt time.Time) (*SeatLock, error)
	Confirm(ctx context.Context, token string, userID int, now time.Time) (*Registration, error)
	Release(ctx context.Context, token string, userID int) (bool, error)
	ReapExpired(ctx context.Context, now time.Time) (int, error)

	ListRegistrations(ctx context.Context, eventID int) ([]Registration, error)
}
