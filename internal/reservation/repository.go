package reservation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrCapacityExhausted = errors.New("no seats available")
	ErrLockNotFound      = errors.New("seat lock not found")
	ErrLockExpired       = errors.New("seat lock has expired")
	ErrAlreadyRegistered = errors.New("user already registered for this event")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateEvent(ctx context.Context, event *Event) error {
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO events (name, venue, starts_at, capacity)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, confirmed_count, locked_count, created_at`,
		event.Name, event.Venue, event.StartsAt, event.Capacity,
	).Scan(&event.ID, &event.ConfirmedCount, &event.LockedCount, &event.CreatedAt)
}

func (r *repository) GetEvent(ctx context.Context, id int) (*Event, error) {
	e := &Event{}
	err := r.db.GetContext(ctx, e,
		`SELECT id, name, venue, starts_at, capacity, confirmed_count, locked_count, created_at
		 FROM events
		 WHERE id = $1`,
		id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *repository) ListEvents(ctx context.Context) ([]Event, error) {
	events := []Event{}
	err := r.db.SelectContext(ctx, &events,
		`SELECT id, name, venue, starts_at, capacity, confirmed_count, locked_count, created_at
		 FROM events
		 ORDER BY starts_at`,
	)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Acquire claims one seat under a lease. The capacity check and the
// counter bump happen in a single conditional UPDATE, so two
// concurrent acquires for the last seat cannot both succeed.
// Re-acquiring while an unexpired lock is held returns that lock
// unchanged instead of taking a second seat.
func (r *repository) Acquire(ctx context.Context, eventID, userID int, token string, now, expiresAt time.Time) (*SeatLock, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	existing := &SeatLock{}
	err = tx.QueryRowxContext(ctx,
		`SELECT token, event_id, user_id, expires_at, created_at
		 FROM seat_locks
		 WHERE event_id = $1 AND user_id = $2 AND expires_at > $3`,
		eventID, userID, now,
	).StructScan(existing)
	if err == nil {
		return existing, tx.Commit()
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// An expired lock the reaper has not swept yet would still trip
	// the one-lock-per-user index. Hand its seat back here before
	// claiming a fresh one.
	var staleEvent int
	err = tx.QueryRowContext(ctx,
		`DELETE FROM seat_locks
		 WHERE event_id = $1 AND user_id = $2 AND expires_at <= $3
		 RETURNING event_id`,
		eventID, userID, now,
	).Scan(&staleEvent)
	if err == nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE events SET locked_count = locked_count - 1 WHERE id = $1`,
			staleEvent,
		); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var registered bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM registrations WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID,
	).Scan(&registered)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, ErrAlreadyRegistered
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE events
		 SET locked_count = locked_count + 1
		 WHERE id = $1 AND confirmed_count + locked_count < capacity`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		var exists bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`,
			eventID,
		).Scan(&exists)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrEventNotFound
		}
		return nil, ErrCapacityExhausted
	}

	lock := &SeatLock{}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO seat_locks (token, event_id, user_id, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING token, event_id, user_id, expires_at, created_at`,
		token, eventID, userID, expiresAt, now,
	).StructScan(lock)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return lock, nil
}

// Confirm turns a live lock into a registration. The DELETE carries
// the expiry predicate, so a lock past its lease can never confirm no
// matter when the reaper last ran.
func (r *repository) Confirm(ctx context.Context, token string, userID int, now time.Time) (*Registration, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var eventID int
	err = tx.QueryRowContext(ctx,
		`DELETE FROM seat_locks
		 WHERE token = $1 AND user_id = $2 AND expires_at > $3
		 RETURNING event_id`,
		token, userID, now,
	).Scan(&eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.classifyMissingLock(ctx, tx, token, userID)
	}
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE events
		 SET locked_count = locked_count - 1, confirmed_count = confirmed_count + 1
		 WHERE id = $1`,
		eventID,
	)
	if err != nil {
		return nil, err
	}

	reg := &Registration{EventID: eventID, UserID: userID}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO registrations (event_id, user_id, confirmed_at)
		 VALUES ($1, $2, $3)
		 RETURNING id, confirmed_at`,
		eventID, userID, now,
	).Scan(&reg.ID, &reg.ConfirmedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return reg, nil
}

// classifyMissingLock distinguishes a stale token from one that never
// existed for this user. An expired row may still be sitting in the
// table until the reaper sweeps it.
func (r *repository) classifyMissingLock(ctx context.Context, tx *sqlx.Tx, token string, userID int) error {
	var exists bool
	err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM seat_locks WHERE token = $1 AND user_id = $2)`,
		token, userID,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return ErrLockExpired
	}
	return ErrLockNotFound
}

// Release gives the seat back. Releasing a token that no longer exists
// is a no-op, not an error, so clients can retry safely.
func (r *repository) Release(ctx context.Context, token string, userID int) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var eventID int
	err = tx.QueryRowContext(ctx,
		`DELETE FROM seat_locks
		 WHERE token = $1 AND user_id = $2
		 RETURNING event_id`,
		token, userID,
	).Scan(&eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, tx.Commit()
	}
	if err != nil {
		return false, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE events
		 SET locked_count = locked_count - 1
		 WHERE id = $1`,
		eventID,
	)
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// ReapExpired deletes every lock past its lease and hands the seats
// back to their events. Returns the number of locks swept.
func (r *repository) ReapExpired(ctx context.Context, now time.Time) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`DELETE FROM seat_locks
		 WHERE expires_at <= $1
		 RETURNING event_id`,
		now,
	)
	if err != nil {
		return 0, err
	}

	perEvent := map[int]int{}
	total := 0
	for rows.Next() {
		var eventID int
		if err := rows.Scan(&eventID); err != nil {
			rows.Close()
			return 0, err
		}
		perEvent[eventID]++
		total++
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	for eventID, n := range perEvent {
		_, err = tx.ExecContext(ctx,
			`UPDATE events
			 SET locked_count = locked_count - $1
			 WHERE id = $2`,
			n, eventID,
		)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repository) ListRegistrations(ctx context.Context, eventID int) ([]Registration, error) {
	regs := []Registration{}
	err := r.db.SelectContext(ctx, &regs,
		`SELECT id, event_id, user_id, confirmed_at
		 FROM registrations
		 WHERE event_id = $1
		 ORDER BY confirmed_at`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	return regs, nil
}
