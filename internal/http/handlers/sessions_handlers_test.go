package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"parkada/internal/auth"
	"parkada/internal/catalog"
	httpserver "parkada/internal/http"
	"parkada/internal/http/middleware"
	"parkada/internal/models"
	"parkada/internal/notify"
	"parkada/internal/service"
	"parkada/internal/store"
)

func newTestServer(t *testing.T) (http.Handler, string) {
	t.Helper()

	logger := zap.NewNop()
	sessions := service.NewSessionsService(store.NewMemory(), nil, notify.NewBroker(), logger)
	cat := catalog.New()
	tokens := auth.NewTokenService("test-secret", time.Hour)

	token, err := tokens.GenerateToken("user4", "Ana Cruz", "ana.cruz@email.com", models.UserTypeRenter)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	sessionHandlers := NewSessionsHandlers(sessions, cat, logger)
	authed := middleware.AuthMiddleware(tokens)

	router := httpserver.NewRouter(httpserver.Routes{
		SessionStart:  authed(http.HandlerFunc(sessionHandlers.HandleStart)),
		SessionEnd:    authed(http.HandlerFunc(sessionHandlers.HandleEnd)),
		SessionsMe:    authed(http.HandlerFunc(sessionHandlers.HandleMe)),
		ActiveSession: authed(http.HandlerFunc(sessionHandlers.HandleActive)),
		Receipt:       authed(http.HandlerFunc(sessionHandlers.HandleReceipt)),
		Health:        NewHealthHandler(),
	})
	return router, token
}

func doRequest(t *testing.T, router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestStartEndOverHTTP(t *testing.T) {
	router, token := newTestServer(t)

	rec := doRequest(t, router, http.MethodPost, "/sessions/start", token, `{"spot_id":"PARK001"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start status = %d, body %s", rec.Code, rec.Body.String())
	}

	var startResp struct {
		Session models.ParkingSession `json:"session"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &startResp); err != nil {
		t.Fatalf("decode start response: %v", err)
	}
	if startResp.Session.Status != models.StatusActive {
		t.Fatalf("session status = %q", startResp.Session.Status)
	}
	if startResp.Session.HourlyRate != 70 {
		t.Fatalf("hourly rate = %v, want 70 from PARK001", startResp.Session.HourlyRate)
	}

	rec = doRequest(t, router, http.MethodPost, "/sessions/end", token, `{"session_id":"stale-id"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("end status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ended":false`) {
		t.Fatalf("stale end should report ended=false, got %s", rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodPost, "/sessions/end", token,
		`{"session_id":"`+startResp.Session.ID+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("end status = %d, body %s", rec.Code, rec.Body.String())
	}
	var endResp struct {
		Ended   bool                  `json:"ended"`
		Session models.ParkingSession `json:"session"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &endResp); err != nil {
		t.Fatalf("decode end response: %v", err)
	}
	if !endResp.Ended || endResp.Session.Status != models.StatusCompleted {
		t.Fatalf("end response = %+v", endResp)
	}
	if endResp.Session.TotalCost == nil || *endResp.Session.TotalCost != 70.00 {
		t.Fatalf("total cost = %v, want 70.00 minimum billing", endResp.Session.TotalCost)
	}

	rec = doRequest(t, router, http.MethodGet, "/sessions/receipt?session_id="+startResp.Session.ID, token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("receipt status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "PARKADA") {
		t.Fatalf("receipt body missing header:\n%s", rec.Body.String())
	}
}

func TestActiveSessionOverHTTP(t *testing.T) {
	router, token := newTestServer(t)

	rec := doRequest(t, router, http.MethodGet, "/sessions/active", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("active status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"session":null`) {
		t.Fatalf("expected null session, got %s", rec.Body.String())
	}

	doRequest(t, router, http.MethodPost, "/sessions/start", token, `{"spot_id":"PARK002"}`)

	rec = doRequest(t, router, http.MethodGet, "/sessions/active", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("active status = %d", rec.Code)
	}
	var resp struct {
		Session     *models.ParkingSession `json:"session"`
		CurrentCost float64                `json:"currentCost"`
		Duration    string                 `json:"duration"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Session == nil || resp.Session.ParkingSpotID != "PARK002" {
		t.Fatalf("active response = %+v", resp)
	}
	if resp.Duration == "" {
		t.Fatal("expected duration label")
	}
}

func TestAuthRequired(t *testing.T) {
	router, _ := newTestServer(t)

	rec := doRequest(t, router, http.MethodPost, "/sessions/start", "", `{"spot_id":"PARK001"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	rec = doRequest(t, router, http.MethodPost, "/sessions/start", "not-a-token", `{"spot_id":"PARK001"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestMethodGuard(t *testing.T) {
	router, token := newTestServer(t)

	rec := doRequest(t, router, http.MethodGet, "/sessions/start", token, "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodPost {
		t.Fatalf("Allow = %q, want POST", allow)
	}
}

func TestHealth(t *testing.T) {
	router, _ := newTestServer(t)

	rec := doRequest(t, router, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
