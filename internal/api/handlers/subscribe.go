package handlers

import (
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"github.com/investifai/investif/internal/api/middleware"
	"github.com/investifai/investif/internal/api/response"
	"github.com/investifai/investif/internal/apperrors"
	"github.com/investifai/investif/internal/service"
)

const (
	pingInterval = 45 * time.Second
	readTimeout  = 90 * time.Second
	writeTimeout = 10 * time.Second
)

// SubscribeHandler streams portfolio snapshots over a WebSocket.
type SubscribeHandler struct {
	portfolio *service.PortfolioService
	upgrader  websocket.Upgrader
}

// NewSubscribeHandler creates a handler accepting upgrades from allowedOrigins.
// Requests without an Origin header are always accepted.
func NewSubscribeHandler(portfolio *service.PortfolioService, allowedOrigins []string) *SubscribeHandler {
	return &SubscribeHandler{
		portfolio: portfolio,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// Subscribe upgrades the connection and sends the current snapshot followed
// by every later one. Client messages other than control frames are ignored.
//
// Endpoint: GET /api/portfolio/subscribe (WebSocket)
// Error: 401 Unauthorized without a token
func (h *SubscribeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, apperrors.ErrUnauthenticated.Error(), "")
		return
	}

	sub := h.portfolio.Subscribe(userID)
	defer sub.Close()

	first, err := h.portfolio.Snapshot(r.Context(), userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePositions.Error(), err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(readTimeout))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	write := func(v any) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		return conn.WriteJSON(v)
	}
	if err := write(first); err != nil {
		return
	}

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	for {
		select {
		case snap, ok := <-sub.C():
			if !ok {
				return
			}
			if err := write(snap); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
