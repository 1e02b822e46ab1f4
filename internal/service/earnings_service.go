package service

import (
	"context"
	"time"

	"parkada/internal/catalog"
	"parkada/internal/models"
)

// EarningsSummary is the rentor dashboard aggregate over all of the
// rentor's listings.
type EarningsSummary struct {
	TotalEarnings   float64                 `json:"totalEarnings"`
	MonthlyEarnings float64                 `json:"monthlyEarnings"`
	ActiveRentals   []models.ParkingSession `json:"activeRentals"`
}

// EarningsService reconstructs rentor earnings from spot session history.
type EarningsService struct {
	sessions *SessionsService
	catalog  *catalog.Catalog

	now func() time.Time
}

// NewEarningsService builds the aggregator.
func NewEarningsService(sessions *SessionsService, cat *catalog.Catalog) *EarningsService {
	return &EarningsService{
		sessions: sessions,
		catalog:  cat,
		now:      time.Now,
	}
}

// Summary returns total and trailing-month completed earnings plus the
// currently active rentals across the owner's spots. Monthly earnings count
// completed sessions whose start falls inside the trailing month.
func (s *EarningsService) Summary(ctx context.Context, ownerID string) (*EarningsSummary, error) {
	summary := &EarningsSummary{ActiveRentals: []models.ParkingSession{}}
	oneMonthAgo := s.now().UTC().AddDate(0, -1, 0)

	for _, spot := range s.catalog.SpotsByOwner(ownerID) {
		sessions, err := s.sessions.GetSpotSessions(ctx, spot.ID)
		if err != nil {
			return nil, err
		}
		for _, session := range sessions {
			switch session.Status {
			case models.StatusCompleted:
				if session.TotalCost == nil {
					continue
				}
				summary.TotalEarnings += *session.TotalCost
				if !session.StartTime.Before(oneMonthAgo) {
					summary.MonthlyEarnings += *session.TotalCost
				}
			case models.StatusActive:
				summary.ActiveRentals = append(summary.ActiveRentals, session)
			}
		}
	}

	summary.TotalEarnings = models.Round2(summary.TotalEarnings)
	summary.MonthlyEarnings = models.Round2(summary.MonthlyEarnings)
	return summary, nil
}
