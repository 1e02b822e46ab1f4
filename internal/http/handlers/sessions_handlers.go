package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"parkada/internal/catalog"
	"parkada/internal/http/middleware"
	"parkada/internal/receipt"
	"parkada/internal/service"
)

// SessionsHandlers exposes the parking-session lifecycle endpoints.
type SessionsHandlers struct {
	svc     *service.SessionsService
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewSessionsHandlers builds handler set.
func NewSessionsHandlers(svc *service.SessionsService, cat *catalog.Catalog, logger *zap.Logger) *SessionsHandlers {
	return &SessionsHandlers{svc: svc, catalog: cat, logger: logger}
}

type startSessionRequest struct {
	SpotID string `json:"spot_id"`
}

type endSessionRequest struct {
	SessionID string `json:"session_id"`
}

// HandleStart handles POST /sessions/start.
func (h *SessionsHandlers) HandleStart(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.SpotID == "" {
		writeError(w, http.StatusBadRequest, "spot_id is required")
		return
	}

	spot, err := h.catalog.Get(req.SpotID)
	if err != nil {
		if errors.Is(err, catalog.ErrSpotNotFound) {
			writeError(w, http.StatusNotFound, "spot not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to resolve spot")
		return
	}

	session, err := h.svc.Start(r.Context(), service.StartInput{
		UserID:    identity.ID,
		UserName:  identity.Name,
		UserEmail: identity.Email,
		Spot:      *spot,
	})
	if err != nil {
		h.logger.Error("start session failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"session": session})
}

// HandleEnd handles POST /sessions/end. Ending with a stale or unknown id
// reports ended=false rather than an error.
func (h *SessionsHandlers) HandleEnd(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req endSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	session, err := h.svc.End(r.Context(), identity.ID, req.SessionID)
	if err != nil {
		h.logger.Error("end session failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to end session")
		return
	}
	if session == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"ended": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ended":    true,
		"session":  session,
		"duration": h.svc.DurationLabel(session),
	})
}

// HandleMe handles GET /sessions/me.
func (h *SessionsHandlers) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	sessions, err := h.svc.GetUserSessions(r.Context(), identity.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch sessions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// HandleActive handles GET /sessions/active: the caller's active session
// with a live cost estimate and duration label for the floating indicator.
func (h *SessionsHandlers) HandleActive(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	session, err := h.svc.GetActiveSession(r.Context(), identity.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch active session")
		return
	}
	if session == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"session": nil})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session":     session,
		"currentCost": h.svc.CurrentCost(session),
		"duration":    h.svc.DurationLabel(session),
	})
}

// HandleReceipt handles GET /sessions/receipt?session_id=. Receipts are
// only issued to the session's own user, for completed sessions.
func (h *SessionsHandlers) HandleReceipt(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	sessions, err := h.svc.GetUserSessions(r.Context(), identity.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch sessions")
		return
	}

	for i := range sessions {
		if sessions[i].ID != sessionID {
			continue
		}
		text, err := receipt.Render(&sessions[i], time.Now().UTC())
		if err != nil {
			if errors.Is(err, receipt.ErrSessionNotCompleted) {
				writeError(w, http.StatusConflict, "session not completed")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to render receipt")
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(text))
		return
	}

	writeError(w, http.StatusNotFound, "session not found")
}
