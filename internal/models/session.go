package models

import (
	"fmt"
	"math"
	"time"
)

// Session status values. StatusCancelled is a reserved variant: no engine
// operation currently produces it.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Location is the spot position snapshot frozen into a session at start.
type Location struct {
	Lat     float64 `db:"lat" json:"lat"`
	Lng     float64 `db:"lng" json:"lng"`
	Address string  `db:"address" json:"address"`
}

// ParkingSession represents one occupancy of one parking spot by one user,
// from start until (optionally) completion. Identity and spot fields are
// snapshots taken at start time; completed sessions are immutable.
type ParkingSession struct {
	ID              string     `db:"id" json:"id"`
	UserID          string     `db:"user_id" json:"userId"`
	UserName        string     `db:"user_name" json:"userName"`
	UserEmail       string     `db:"user_email" json:"userEmail"`
	ParkingSpotID   string     `db:"parking_spot_id" json:"parkingSpotId"`
	ParkingSpotName string     `db:"parking_spot_name" json:"parkingSpotName"`
	HourlyRate      float64    `db:"hourly_rate" json:"hourlyRate"`
	StartTime       time.Time  `db:"start_time" json:"startTime"`
	EndTime         *time.Time `db:"end_time" json:"endTime,omitempty"`
	Duration        *float64   `db:"duration" json:"duration,omitempty"`
	TotalCost       *float64   `db:"total_cost" json:"totalCost,omitempty"`
	Status          string     `db:"status" json:"status"`
	Location        Location   `db:"-" json:"location"`
}

// IsActive reports whether the session has not been completed yet.
func (s *ParkingSession) IsActive() bool {
	return s.Status == StatusActive
}

// CostAt returns the cost of the session as of the given instant. Completed
// sessions return the billed total. Active sessions return a live estimate
// proportional to elapsed time with no minimum-billing floor applied; the
// floor only kicks in when the session ends.
func (s *ParkingSession) CostAt(now time.Time) float64 {
	if s.Status != StatusActive {
		if s.TotalCost == nil {
			return 0
		}
		return *s.TotalCost
	}

	elapsed := now.Sub(s.StartTime).Hours()
	return Round2(elapsed * s.HourlyRate)
}

// DurationAt renders elapsed wall-clock time as a compact label: "45m",
// "1h", "1h 30m". For active sessions the window runs to now, otherwise to
// the recorded end time.
func (s *ParkingSession) DurationAt(now time.Time) string {
	end := now
	if s.EndTime != nil {
		end = *s.EndTime
	}

	elapsed := end.Sub(s.StartTime)
	hours := int(elapsed.Hours())
	minutes := int(elapsed.Minutes()) % 60

	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", minutes)
	case minutes == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
}

// Round2 rounds a currency or hour amount to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
