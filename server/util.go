package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mr-tron/base58"
)

// upgrader creates a WebSocket upgrader with origin checking from config
func (s *LarderServer) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
}

// checkOrigin validates the request origin against server.allowed_origins
func (s *LarderServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Allow requests with no origin header (e.g., direct WebSocket clients, testing)
	if origin == "" {
		return true
	}

	// We use prefix matching to allow any port number
	for _, allowed := range s.current().config.GetServerAllowedOrigins() {
		if strings.HasPrefix(origin, allowed) {
			return true
		}
	}
	return false
}

// newSessionID returns a random UUID rendered in base58
func newSessionID() string {
	id := uuid.New()
	return base58.Encode(id[:])
}
