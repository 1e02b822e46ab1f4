package store

import (
	"context"

	"parkada/internal/models"
)

// SessionStore is the persistence boundary owned by the session engine.
// History is append-only: Insert adds a new entry, Update rewrites an
// existing entry in place (used exactly once, on completion), and the list
// queries return entries in original insertion order. The active-session
// lookup is keyed per user.
type SessionStore interface {
	Insert(ctx context.Context, session *models.ParkingSession) error
	Update(ctx context.Context, session *models.ParkingSession) error
	ActiveByUser(ctx context.Context, userID string) (*models.ParkingSession, error)
	SessionsByUser(ctx context.Context, userID string) ([]models.ParkingSession, error)
	SessionsBySpot(ctx context.Context, spotID string) ([]models.ParkingSession, error)
}
