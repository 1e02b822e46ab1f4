package repository

import (
	"context"
	"database/sql"

	"parkada/internal/models"
	"parkada/internal/store"
)

// SessionRepository is the Postgres-backed SessionStore. History order is
// the insertion order of rows (seq bigserial); completed sessions are
// rewritten in place by Update, never deleted.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository returns repository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `
	id, user_id, user_name, user_email, parking_spot_id, parking_spot_name,
	hourly_rate, start_time, end_time, duration, total_cost, status,
	lat, lng, address
`

// Insert appends a session row to history.
func (r *SessionRepository) Insert(ctx context.Context, session *models.ParkingSession) error {
	const query = `
		INSERT INTO parking_sessions (
			id, user_id, user_name, user_email, parking_spot_id, parking_spot_name,
			hourly_rate, start_time, end_time, duration, total_cost, status,
			lat, lng, address, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
	`
	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		session.UserName,
		session.UserEmail,
		session.ParkingSpotID,
		session.ParkingSpotName,
		session.HourlyRate,
		session.StartTime,
		session.EndTime,
		session.Duration,
		session.TotalCost,
		session.Status,
		session.Location.Lat,
		session.Location.Lng,
		session.Location.Address,
	)
	return err
}

// Update rewrites the mutable fields of an existing session row.
func (r *SessionRepository) Update(ctx context.Context, session *models.ParkingSession) error {
	const query = `
		UPDATE parking_sessions
		SET end_time = $2,
		    duration = $3,
		    total_cost = $4,
		    status = $5
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.EndTime,
		session.Duration,
		session.TotalCost,
		session.Status,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrSessionNotFound
	}
	return nil
}

// ActiveByUser returns the user's active session, or nil when there is none.
func (r *SessionRepository) ActiveByUser(ctx context.Context, userID string) (*models.ParkingSession, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM parking_sessions
		WHERE user_id = $1 AND status = 'active'
		ORDER BY created_at DESC
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, userID)
	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// SessionsByUser returns the user's history in insertion order.
func (r *SessionRepository) SessionsByUser(ctx context.Context, userID string) ([]models.ParkingSession, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM parking_sessions
		WHERE user_id = $1
		ORDER BY seq ASC
	`
	return r.querySessions(ctx, query, userID)
}

// SessionsBySpot returns the spot's history in insertion order.
func (r *SessionRepository) SessionsBySpot(ctx context.Context, spotID string) ([]models.ParkingSession, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM parking_sessions
		WHERE parking_spot_id = $1
		ORDER BY seq ASC
	`
	return r.querySessions(ctx, query, spotID)
}

func (r *SessionRepository) querySessions(ctx context.Context, query string, arg string) ([]models.ParkingSession, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.ParkingSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.ParkingSession, error) {
	var s models.ParkingSession
	var endTime sql.NullTime
	var duration, totalCost sql.NullFloat64

	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.UserName,
		&s.UserEmail,
		&s.ParkingSpotID,
		&s.ParkingSpotName,
		&s.HourlyRate,
		&s.StartTime,
		&endTime,
		&duration,
		&totalCost,
		&s.Status,
		&s.Location.Lat,
		&s.Location.Lng,
		&s.Location.Address,
	); err != nil {
		return nil, err
	}

	if endTime.Valid {
		t := endTime.Time
		s.EndTime = &t
	}
	if duration.Valid {
		d := duration.Float64
		s.Duration = &d
	}
	if totalCost.Valid {
		c := totalCost.Float64
		s.TotalCost = &c
	}
	return &s, nil
}
