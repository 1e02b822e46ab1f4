package store

import (
	"context"
	"errors"
	"sync"

	"parkada/internal/models"
)

// ErrSessionNotFound indicates an Update for an id not present in history.
var ErrSessionNotFound = errors.New("store: session not found")

// Memory is the in-process SessionStore used in demo mode and in tests.
// History lives in an append-only slice; the active session per user is
// tracked in a separate index so lookups do not scan history.
type Memory struct {
	mu       sync.RWMutex
	history  []*models.ParkingSession
	byID     map[string]*models.ParkingSession
	activeBy map[string]*models.ParkingSession
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		byID:     make(map[string]*models.ParkingSession),
		activeBy: make(map[string]*models.ParkingSession),
	}
}

// Insert appends a session to history. An active session also becomes the
// user's active entry.
func (m *Memory) Insert(_ context.Context, session *models.ParkingSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := cloneSession(session)
	m.history = append(m.history, stored)
	m.byID[stored.ID] = stored
	if stored.Status == models.StatusActive {
		m.activeBy[stored.UserID] = stored
	}
	return nil
}

// Update rewrites the history entry with the session's id. A session leaving
// the active state is dropped from the active index.
func (m *Memory) Update(_ context.Context, session *models.ParkingSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.byID[session.ID]
	if !ok {
		return ErrSessionNotFound
	}

	*stored = *cloneSession(session)
	if stored.Status != models.StatusActive {
		if active, ok := m.activeBy[stored.UserID]; ok && active.ID == stored.ID {
			delete(m.activeBy, stored.UserID)
		}
	}
	return nil
}

// ActiveByUser returns the user's active session, or nil when there is none.
func (m *Memory) ActiveByUser(_ context.Context, userID string) (*models.ParkingSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.activeBy[userID]
	if !ok {
		return nil, nil
	}
	return cloneSession(session), nil
}

// SessionsByUser returns the user's history in insertion order.
func (m *Memory) SessionsByUser(_ context.Context, userID string) ([]models.ParkingSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sessions []models.ParkingSession
	for _, s := range m.history {
		if s.UserID == userID {
			sessions = append(sessions, *cloneSession(s))
		}
	}
	return sessions, nil
}

// SessionsBySpot returns the spot's history in insertion order.
func (m *Memory) SessionsBySpot(_ context.Context, spotID string) ([]models.ParkingSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sessions []models.ParkingSession
	for _, s := range m.history {
		if s.ParkingSpotID == spotID {
			sessions = append(sessions, *cloneSession(s))
		}
	}
	return sessions, nil
}

// cloneSession copies a session including its pointer fields so callers can
// never mutate stored state through a returned value.
func cloneSession(s *models.ParkingSession) *models.ParkingSession {
	c := *s
	if s.EndTime != nil {
		end := *s.EndTime
		c.EndTime = &end
	}
	if s.Duration != nil {
		d := *s.Duration
		c.Duration = &d
	}
	if s.TotalCost != nil {
		t := *s.TotalCost
		c.TotalCost = &t
	}
	return &c
}
