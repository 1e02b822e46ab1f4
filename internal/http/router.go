package httpserver

import "net/http"

// Routes groups handlers. Authed routes are wrapped by the caller before
// being assigned here.
type Routes struct {
	Login         http.Handler
	Signup        http.Handler
	Spots         http.Handler
	AddSpot       http.Handler
	SpotSessions  http.Handler
	SessionStart  http.Handler
	SessionEnd    http.Handler
	SessionsMe    http.Handler
	ActiveSession http.Handler
	Receipt       http.Handler
	Earnings      http.Handler
	EventsWS      http.Handler
	Health        http.Handler
}

// NewRouter registers endpoints using method patterns; ServeMux answers
// wrong-method requests with 405 and an Allow header on its own.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	register(mux, "POST /auth/login", routes.Login)
	register(mux, "POST /auth/signup", routes.Signup)
	register(mux, "GET /spots", routes.Spots)
	register(mux, "POST /spots", routes.AddSpot)
	register(mux, "GET /spots/sessions", routes.SpotSessions)
	register(mux, "POST /sessions/start", routes.SessionStart)
	register(mux, "POST /sessions/end", routes.SessionEnd)
	register(mux, "GET /sessions/me", routes.SessionsMe)
	register(mux, "GET /sessions/active", routes.ActiveSession)
	register(mux, "GET /sessions/receipt", routes.Receipt)
	register(mux, "GET /rentor/earnings", routes.Earnings)
	register(mux, "GET /ws/sessions", routes.EventsWS)
	register(mux, "GET /health", routes.Health)
	return mux
}

func register(mux *http.ServeMux, pattern string, handler http.Handler) {
	if handler == nil {
		return
	}
	mux.Handle(pattern, handler)
}
