package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"parkada/internal/catalog"
	"parkada/internal/http/middleware"
	"parkada/internal/models"
	"parkada/internal/service"
)

// SpotsHandlers exposes the spot catalog endpoints.
type SpotsHandlers struct {
	catalog  *catalog.Catalog
	sessions *service.SessionsService
}

// NewSpotsHandlers builds handler set.
func NewSpotsHandlers(cat *catalog.Catalog, sessions *service.SessionsService) *SpotsHandlers {
	return &SpotsHandlers{catalog: cat, sessions: sessions}
}

type addSpotRequest struct {
	Name      string  `json:"name"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Rate      string  `json:"rate"`
	Address   string  `json:"address"`
	Available int     `json:"available"`
	Total     int     `json:"total"`
}

// HandleList handles GET /spots.
func (h *SpotsHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"spots": h.catalog.List()})
}

// HandleAdd handles POST /spots: a rentor registering a listing.
func (h *SpotsHandlers) HandleAdd(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	if identity.Type == models.UserTypeRenter {
		writeError(w, http.StatusForbidden, "rentor account required")
		return
	}

	var req addSpotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	spot, err := h.catalog.AddSpot(models.ParkingSpot{
		ID:        fmt.Sprintf("RENT%d", time.Now().UnixMilli()),
		Name:      req.Name,
		Lat:       req.Lat,
		Lng:       req.Lng,
		Rate:      req.Rate,
		Address:   req.Address,
		Available: req.Available,
		Total:     req.Total,
		OwnerID:   identity.ID,
	})
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidRate) {
			writeError(w, http.StatusBadRequest, "invalid rate")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"spot": spot})
}

// HandleSpotSessions handles GET /spots/sessions?spot_id=: the session
// history of one spot, for the rentor dashboard.
func (h *SpotsHandlers) HandleSpotSessions(w http.ResponseWriter, r *http.Request) {
	spotID := r.URL.Query().Get("spot_id")
	if spotID == "" {
		writeError(w, http.StatusBadRequest, "spot_id is required")
		return
	}

	sessions, err := h.sessions.GetSpotSessions(r.Context(), spotID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch spot sessions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}
