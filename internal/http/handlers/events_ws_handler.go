package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"parkada/internal/auth"
	"parkada/internal/notify"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// EventsWSHandler streams session change events to UI observers over a
// WebSocket, replacing the old poll-a-dirty-flag refresh scheme. Browsers
// cannot set headers on WebSocket requests, so the token rides in the
// query string.
type EventsWSHandler struct {
	broker   *notify.Broker
	tokens   *auth.TokenService
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewEventsWSHandler builds the handler.
func NewEventsWSHandler(broker *notify.Broker, tokens *auth.TokenService, logger *zap.Logger) *EventsWSHandler {
	return &EventsWSHandler{
		broker: broker,
		tokens: tokens,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWS is the HTTP handler for GET /ws/sessions?token=.
func (h *EventsWSHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token is required", http.StatusUnauthorized)
		return
	}
	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	// The pumps outlive this handler; the request context is cancelled as
	// soon as HandleWS returns, so the connection gets its own context.
	ctx, cancel := context.WithCancel(context.Background())
	events, unsubscribe := h.broker.Subscribe(claims.UserID)

	go h.readPump(conn, cancel)
	go func() {
		defer func() {
			unsubscribe()
			_ = conn.Close()
		}()
		h.writePump(ctx, conn, events)
	}()

	h.logger.Info("session event subscriber connected", zap.String("user_id", claims.UserID))
}

// readPump discards inbound frames and cancels the subscription when the
// peer goes away.
func (h *EventsWSHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(1024)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *EventsWSHandler) writePump(ctx context.Context, conn *websocket.Conn, events <-chan notify.Event) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return
			}
		}
	}
}
