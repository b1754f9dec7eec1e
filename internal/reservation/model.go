package reservation

import "time"

// Event carries the two occupancy counters next to capacity so a
// single conditional UPDATE can enforce the limit.
type Event struct {
	ID             int       `db:"id" json:"id"`
	Name           string    `db:"name" json:"name" binding:"required"`
	Venue          string    `db:"venue" json:"venue" binding:"required"`
	StartsAt       time.Time `db:"starts_at" json:"starts_at" binding:"required"`
	Capacity       int       `db:"capacity" json:"capacity" binding:"required,gt=0"`
	ConfirmedCount int       `db:"confirmed_count" json:"confirmed_count"`
	LockedCount    int       `db:"locked_count" json:"locked_count"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Available is the number of seats a new reservation can still claim.
func (e *Event) Available() int {
	return e.Capacity - e.ConfirmedCount - e.LockedCount
}

// SeatLock is a leased hold on one seat. It counts against capacity
// until it is confirmed, released, or its lease runs out.
type SeatLock struct {
	Token     string    `db:"token" json:"token"`
	EventID   int       `db:"event_id" json:"event_id"`
	UserID    int       `db:"user_id" json:"user_id"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Registration struct {
	ID          int       `db:"id" json:"id"`
	EventID     int       `db:"event_id" json:"event_id"`
	UserID      int       `db:"user_id" json:"user_id"`
	ConfirmedAt time.Time `db:"confirmed_at" json:"confirmed_at"`
}
