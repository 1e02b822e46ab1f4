package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"parkada/internal/models"
	"parkada/internal/notify"
	"parkada/internal/redisstore"
	"parkada/internal/store"
)

// SessionsService is the parking-session lifecycle engine. It owns the
// at-most-one-active-session-per-user invariant: Start and End for the same
// user are serialized on a per-user lock, so the invariant holds even with
// concurrent callers.
type SessionsService struct {
	store  store.SessionStore
	cache  *redisstore.Cache
	broker *notify.Broker
	logger *zap.Logger

	now func() time.Time

	locks sync.Map
}

// StartInput carries the identity snapshot and the chosen spot. The spot's
// HourlyRate must already be a parsed numeric amount; currency-string
// parsing belongs to the catalog boundary, not the engine.
type StartInput struct {
	UserID    string
	UserName  string
	UserEmail string
	Spot      models.ParkingSpot
}

// NewSessionsService builds the engine. cache and broker may be nil.
func NewSessionsService(st store.SessionStore, cache *redisstore.Cache, broker *notify.Broker, logger *zap.Logger) *SessionsService {
	return &SessionsService{
		store:  st,
		cache:  cache,
		broker: broker,
		logger: logger,
		now:    time.Now,
	}
}

// Start opens a new active session for the user. Any session the user
// already has active is completed first, so Start never fails on "already
// parked". Returns the newly created session.
func (s *SessionsService) Start(ctx context.Context, input StartInput) (*models.ParkingSession, error) {
	lock := s.userLock(input.UserID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.store.ActiveByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if _, err := s.complete(ctx, existing); err != nil {
			return nil, err
		}
	}

	address := input.Spot.Address
	if address == "" {
		address = input.Spot.Name
	}

	session := &models.ParkingSession{
		ID:              uuid.NewString(),
		UserID:          input.UserID,
		UserName:        input.UserName,
		UserEmail:       input.UserEmail,
		ParkingSpotID:   input.Spot.ID,
		ParkingSpotName: input.Spot.Name,
		HourlyRate:      input.Spot.HourlyRate,
		StartTime:       s.now().UTC(),
		Status:          models.StatusActive,
		Location: models.Location{
			Lat:     input.Spot.Lat,
			Lng:     input.Spot.Lng,
			Address: address,
		},
	}

	if err := s.store.Insert(ctx, session); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Save(ctx, session); err != nil && !errors.Is(err, redis.Nil) {
			s.logger.Warn("failed to cache active session", zap.Error(err))
		}
	}

	s.publish(notify.EventSessionStarted, session)
	s.logger.Info("parking session started",
		zap.String("session_id", session.ID),
		zap.String("user_id", session.UserID),
		zap.String("spot_id", session.ParkingSpotID),
	)
	return session, nil
}

// End completes the user's active session if its id matches sessionID.
// A missing or mismatching active session is not an error: End returns
// (nil, nil) and nothing changes, including a second End with an already
// completed id.
func (s *SessionsService) End(ctx context.Context, userID, sessionID string) (*models.ParkingSession, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	active, err := s.store.ActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active == nil || active.ID != sessionID {
		return nil, nil
	}

	return s.complete(ctx, active)
}

// complete finalizes an active session: billed hours are floored at one
// full hour, while the stored Duration keeps the actual elapsed hours.
// Caller must hold the user lock.
func (s *SessionsService) complete(ctx context.Context, session *models.ParkingSession) (*models.ParkingSession, error) {
	endTime := s.now().UTC()
	durationHours := endTime.Sub(session.StartTime).Hours()
	billedHours := math.Max(1, durationHours)

	duration := models.Round2(durationHours)
	totalCost := models.Round2(billedHours * session.HourlyRate)

	session.EndTime = &endTime
	session.Duration = &duration
	session.TotalCost = &totalCost
	session.Status = models.StatusCompleted

	if err := s.store.Update(ctx, session); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, session.UserID); err != nil && !errors.Is(err, redis.Nil) {
			s.logger.Warn("failed to clear active session cache", zap.Error(err))
		}
	}

	s.publish(notify.EventSessionCompleted, session)
	s.logger.Info("parking session completed",
		zap.String("session_id", session.ID),
		zap.String("user_id", session.UserID),
		zap.Float64("duration_hours", duration),
		zap.Float64("total_cost", totalCost),
	)
	return session, nil
}

// GetActiveSession returns the user's active session, or nil when there is
// none. The redis cache is a read fast path; the store stays authoritative.
func (s *SessionsService) GetActiveSession(ctx context.Context, userID string) (*models.ParkingSession, error) {
	if s.cache != nil {
		session, err := s.cache.Get(ctx, userID)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("active session cache read failed", zap.Error(err))
		}
	}
	return s.store.ActiveByUser(ctx, userID)
}

// HasActiveSession reports whether the user currently has an active session.
func (s *SessionsService) HasActiveSession(ctx context.Context, userID string) (bool, error) {
	session, err := s.GetActiveSession(ctx, userID)
	if err != nil {
		return false, err
	}
	return session != nil, nil
}

// GetUserSessions returns the user's full session history in insertion order.
func (s *SessionsService) GetUserSessions(ctx context.Context, userID string) ([]models.ParkingSession, error) {
	return s.store.SessionsByUser(ctx, userID)
}

// GetSpotSessions returns all sessions recorded against one spot in
// insertion order. The rentor dashboard aggregates these into earnings.
func (s *SessionsService) GetSpotSessions(ctx context.Context, spotID string) ([]models.ParkingSession, error) {
	return s.store.SessionsBySpot(ctx, spotID)
}

// CurrentCost returns the session's cost as of now: the billed total for
// completed sessions, a live un-floored estimate for active ones.
func (s *SessionsService) CurrentCost(session *models.ParkingSession) float64 {
	return session.CostAt(s.now().UTC())
}

// DurationLabel renders the session's elapsed time as a compact string.
func (s *SessionsService) DurationLabel(session *models.ParkingSession) string {
	return session.DurationAt(s.now().UTC())
}

func (s *SessionsService) publish(eventType string, session *models.ParkingSession) {
	if s.broker == nil {
		return
	}
	s.broker.Publish(notify.Event{
		Type:      eventType,
		UserID:    session.UserID,
		SessionID: session.ID,
		SpotID:    session.ParkingSpotID,
		At:        s.now().UTC(),
	})
}

func (s *SessionsService) userLock(userID string) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
