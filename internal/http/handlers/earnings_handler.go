package handlers

import (
	"net/http"

	"parkada/internal/http/middleware"
	"parkada/internal/service"
)

// NewEarningsHandler returns the GET /rentor/earnings handler.
func NewEarningsHandler(svc *service.EarningsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing identity")
			return
		}

		summary, err := svc.Summary(r.Context(), identity.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to compute earnings")
			return
		}

		writeJSON(w, http.StatusOK, summary)
	}
}
