package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"parkada/internal/models"
	"parkada/internal/notify"
	"parkada/internal/store"
)

type clock struct {
	current time.Time
}

func newClock() *clock {
	return &clock{current: time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	return c.current
}

func (c *clock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestService() (*SessionsService, *clock, *notify.Broker) {
	broker := notify.NewBroker()
	svc := NewSessionsService(store.NewMemory(), nil, broker, zap.NewNop())
	clk := newClock()
	svc.now = clk.Now
	return svc, clk, broker
}

func testSpot(rate float64) models.ParkingSpot {
	return models.ParkingSpot{
		ID:         "PARK001",
		Name:       "DLSU Parking Building",
		Lat:        14.5640,
		Lng:        120.9935,
		Rate:       "₱70",
		HourlyRate: rate,
	}
}

func startInput(rate float64) StartInput {
	return StartInput{
		UserID:    "user4",
		UserName:  "Ana Cruz",
		UserEmail: "ana.cruz@email.com",
		Spot:      testSpot(rate),
	}
}

func TestStartCreatesActiveSession(t *testing.T) {
	svc, clk, _ := newTestService()
	ctx := context.Background()

	session, err := svc.Start(ctx, startInput(70))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.ID == "" {
		t.Fatal("expected generated session id")
	}
	if session.Status != models.StatusActive {
		t.Fatalf("status = %q, want active", session.Status)
	}
	if !session.StartTime.Equal(clk.Now()) {
		t.Fatalf("start time = %v, want %v", session.StartTime, clk.Now())
	}
	if session.HourlyRate != 70 {
		t.Fatalf("hourly rate = %v, want 70", session.HourlyRate)
	}
	if session.UserName != "Ana Cruz" || session.UserEmail != "ana.cruz@email.com" {
		t.Fatalf("identity snapshot not recorded: %+v", session)
	}
	if session.Location.Address != "DLSU Parking Building" {
		t.Fatalf("address should fall back to spot name, got %q", session.Location.Address)
	}
	if session.EndTime != nil || session.Duration != nil || session.TotalCost != nil {
		t.Fatal("active session must not carry completion fields")
	}

	active, err := svc.GetActiveSession(ctx, "user4")
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active == nil || active.ID != session.ID {
		t.Fatalf("active session = %+v, want id %s", active, session.ID)
	}

	has, err := svc.HasActiveSession(ctx, "user4")
	if err != nil || !has {
		t.Fatalf("HasActiveSession = %v, %v, want true", has, err)
	}
}

func TestStartImplicitlyEndsPreviousSession(t *testing.T) {
	svc, clk, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Start(ctx, startInput(70))
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	clk.Advance(30 * time.Minute)

	second, err := svc.Start(ctx, startInput(70))
	if err != nil {
		t.Fatalf("second start: %v", err)
	}

	history, err := svc.GetUserSessions(ctx, "user4")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].ID != first.ID || history[1].ID != second.ID {
		t.Fatal("history must preserve insertion order")
	}
	if history[0].Status != models.StatusCompleted {
		t.Fatalf("prior session status = %q, want completed", history[0].Status)
	}
	if history[0].EndTime == nil || history[0].Duration == nil || history[0].TotalCost == nil {
		t.Fatal("implicitly ended session must carry completion fields")
	}

	active, err := svc.GetActiveSession(ctx, "user4")
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active == nil || active.ID != second.ID {
		t.Fatal("the most recently started session must be the only active one")
	}
}

func TestEndAppliesMinimumBillingFloor(t *testing.T) {
	svc, clk, _ := newTestService()
	ctx := context.Background()

	session, err := svc.Start(ctx, startInput(100))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	clk.Advance(18 * time.Minute) // 0.3 hours

	completed, err := svc.End(ctx, "user4", session.ID)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if completed == nil {
		t.Fatal("expected completed session")
	}
	if got := *completed.TotalCost; got != 100.00 {
		t.Fatalf("total cost = %v, want 100.00 (one full hour billed)", got)
	}
	if got := *completed.Duration; got != 0.30 {
		t.Fatalf("duration = %v, want 0.30 (actual elapsed hours)", got)
	}
	if completed.Status != models.StatusCompleted {
		t.Fatalf("status = %q, want completed", completed.Status)
	}
}

func TestEndBillsProportionallyAboveFloor(t *testing.T) {
	svc, clk, _ := newTestService()
	ctx := context.Background()

	session, err := svc.Start(ctx, startInput(100))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	clk.Advance(2*time.Hour + 30*time.Minute)

	completed, err := svc.End(ctx, "user4", session.ID)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if got := *completed.TotalCost; got != 250.00 {
		t.Fatalf("total cost = %v, want 250.00", got)
	}
	if got := *completed.Duration; got != 2.50 {
		t.Fatalf("duration = %v, want 2.50", got)
	}
}

func TestEndIsIdempotent(t *testing.T) {
	svc, clk, _ := newTestService()
	ctx := context.Background()

	session, err := svc.Start(ctx, startInput(100))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	clk.Advance(time.Hour)

	first, err := svc.End(ctx, "user4", session.ID)
	if err != nil || first == nil {
		t.Fatalf("first end = %v, %v", first, err)
	}

	clk.Advance(time.Hour)
	second, err := svc.End(ctx, "user4", session.ID)
	if err != nil {
		t.Fatalf("second end: %v", err)
	}
	if second != nil {
		t.Fatal("ending an already completed session must be a no-op")
	}

	history, err := svc.GetUserSessions(ctx, "user4")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if got := *history[0].TotalCost; got != *first.TotalCost {
		t.Fatalf("stale end must not alter history: cost %v, want %v", got, *first.TotalCost)
	}
	if !history[0].EndTime.Equal(*first.EndTime) {
		t.Fatal("stale end must not alter recorded end time")
	}
}

func TestEndWithNoActiveSession(t *testing.T) {
	svc, _, _ := newTestService()

	session, err := svc.End(context.Background(), "user4", "does-not-exist")
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if session != nil {
		t.Fatal("expected nothing to end")
	}
}

func TestActiveSessionScopedByUser(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Start(ctx, startInput(70)); err != nil {
		t.Fatalf("start: %v", err)
	}

	other, err := svc.GetActiveSession(ctx, "user1")
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if other != nil {
		t.Fatal("another user's active session must not be visible")
	}

	input := startInput(70)
	input.UserID = "user1"
	input.UserName = "John Doe"
	input.UserEmail = "john.doe@email.com"
	if _, err := svc.Start(ctx, input); err != nil {
		t.Fatalf("start user1: %v", err)
	}

	for _, userID := range []string{"user1", "user4"} {
		active, err := svc.GetActiveSession(ctx, userID)
		if err != nil || active == nil {
			t.Fatalf("user %s should keep an independent active session", userID)
		}
		if active.UserID != userID {
			t.Fatalf("active session user = %s, want %s", active.UserID, userID)
		}
	}
}

func TestLiveCostDoesNotApplyFloor(t *testing.T) {
	svc, clk, _ := newTestService()
	ctx := context.Background()

	session, err := svc.Start(ctx, startInput(90))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	clk.Advance(20 * time.Minute)

	if got := svc.CurrentCost(session); got != 30.00 {
		t.Fatalf("live cost = %v, want 30.00 (no one-hour floor)", got)
	}

	completed, err := svc.End(ctx, "user4", session.ID)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if got := *completed.TotalCost; got != 90.00 {
		t.Fatalf("billed cost = %v, want 90.00 (floor applied at end)", got)
	}
	if got := svc.CurrentCost(completed); got != 90.00 {
		t.Fatalf("cost of completed session = %v, want stored total", got)
	}
}

func TestQueriesDoNotMutateStoredState(t *testing.T) {
	svc, clk, _ := newTestService()
	ctx := context.Background()

	session, err := svc.Start(ctx, startInput(70))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	clk.Advance(time.Hour)
	if _, err := svc.End(ctx, "user4", session.ID); err != nil {
		t.Fatalf("end: %v", err)
	}

	history, err := svc.GetUserSessions(ctx, "user4")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	history[0].UserName = "tampered"
	*history[0].TotalCost = 0

	again, err := svc.GetUserSessions(ctx, "user4")
	if err != nil {
		t.Fatalf("history again: %v", err)
	}
	if again[0].UserName != "Ana Cruz" || *again[0].TotalCost != 70.00 {
		t.Fatal("mutating query results must not affect stored state")
	}
}

func TestSpotSessionsKeepInsertionOrder(t *testing.T) {
	svc, clk, _ := newTestService()
	ctx := context.Background()

	users := []string{"user1", "user3", "user4"}
	var ids []string
	for _, userID := range users {
		input := startInput(70)
		input.UserID = userID
		session, err := svc.Start(ctx, input)
		if err != nil {
			t.Fatalf("start %s: %v", userID, err)
		}
		ids = append(ids, session.ID)
		clk.Advance(time.Minute)
	}

	sessions, err := svc.GetSpotSessions(ctx, "PARK001")
	if err != nil {
		t.Fatalf("spot sessions: %v", err)
	}
	if len(sessions) != len(ids) {
		t.Fatalf("spot sessions length = %d, want %d", len(sessions), len(ids))
	}
	for i, id := range ids {
		if sessions[i].ID != id {
			t.Fatalf("spot history order broken at %d", i)
		}
	}
}

func TestLifecycleEventsPublished(t *testing.T) {
	svc, clk, broker := newTestService()
	ctx := context.Background()

	events, cancel := broker.Subscribe("user4")
	defer cancel()

	session, err := svc.Start(ctx, startInput(70))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	clk.Advance(time.Hour)
	if _, err := svc.End(ctx, "user4", session.ID); err != nil {
		t.Fatalf("end: %v", err)
	}

	started := <-events
	if started.Type != notify.EventSessionStarted || started.SessionID != session.ID {
		t.Fatalf("first event = %+v, want session.started for %s", started, session.ID)
	}
	completed := <-events
	if completed.Type != notify.EventSessionCompleted || completed.SessionID != session.ID {
		t.Fatalf("second event = %+v, want session.completed for %s", completed, session.ID)
	}
	if completed.SpotID != "PARK001" {
		t.Fatalf("event spot id = %q, want PARK001", completed.SpotID)
	}
}
