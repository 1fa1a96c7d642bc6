package server

import (
	"time"

	"github.com/teranos/larder/icon"
	"github.com/teranos/larder/match"
)

// WebSocket timeout constants following Gorilla best practices
// See: https://github.com/gorilla/websocket/blob/master/examples/chat/client.go
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Autocomplete events are tiny.
	maxMessageSize = 4 * 1024

	// Buffered replies per connection
	sendBufferSize = 64
)

// ServerState represents the server lifecycle state
type ServerState int32

const (
	ServerStateRunning  ServerState = iota // Normal operation
	ServerStateDraining                    // Graceful shutdown in progress
	ServerStateStopped                     // Shutdown complete
)

func (s ServerState) String() string {
	switch s {
	case ServerStateRunning:
		return "running"
	case ServerStateDraining:
		return "draining"
	case ServerStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	ServerState   string `json:"server_state"`
	Clients       int    `json:"clients"`
	Ingredients   int    `json:"ingredients"`
	IconTable     string `json:"icon_table"`
	EmptyQuery    string `json:"empty_query"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ParseQuantityRequest is the body of POST /api/quantity/parse
type ParseQuantityRequest struct {
	Text string `json:"text"`
}

// ParseQuantityResponse reports a parse outcome. Absent is true for blank
// input, which is not an error; Display then holds the placeholder.
type ParseQuantityResponse struct {
	Valid       bool     `json:"valid"`
	Absent      bool     `json:"absent,omitempty"`
	Numerator   int64    `json:"numerator"`
	Denominator int64    `json:"denominator"`
	Display     string   `json:"display"`
	Error       string   `json:"error,omitempty"`
	Hints       []string `json:"hints,omitempty"`
}

// FormatQuantityRequest is the body of POST /api/quantity/format. A missing
// numerator is an absent quantity; a missing denominator means 1.
type FormatQuantityRequest struct {
	Numerator   *int64 `json:"numerator"`
	Denominator *int64 `json:"denominator"`
}

// FormatQuantityResponse carries the display text.
type FormatQuantityResponse struct {
	Text string `json:"text"`
}

// IconResponse is returned by GET /api/icon. Fallback is the emoji a client
// shows when it cannot render the named icon.
type IconResponse struct {
	Kind     string `json:"kind"`
	Value    string `json:"value"`
	Fallback string `json:"fallback"`
}

// CreateIngredientRequest is the body of POST /api/ingredients
type CreateIngredientRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// ItemPayload is one suggestion row on the wire.
type ItemPayload struct {
	Kind     string     `json:"kind"`
	ID       int64      `json:"id,omitempty"`
	Name     string     `json:"name"`
	Category string     `json:"category,omitempty"`
	Icon     icon.Token `json:"icon"`
}

// SelectionPayload reports a committed row. Created is set when a create-new
// commit added the ingredient to the catalog; ID then names the new row.
type SelectionPayload struct {
	Kind     string `json:"kind"`
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Created  bool   `json:"created,omitempty"`
}

// SuggestResponse is a match result on the wire.
type SuggestResponse struct {
	Query       string           `json:"query"`
	Items       []ItemPayload    `json:"items"`
	Highlighted int              `json:"highlighted"`
	Exact       *match.Candidate `json:"exact"`
}

// AutocompleteEvent is a client message on /ws/autocomplete.
type AutocompleteEvent struct {
	Seq   int64  `json:"seq"`
	Event string `json:"event"`
	Text  string `json:"text,omitempty"`
}

// AutocompleteReply answers one AutocompleteEvent. Seq echoes the client's
// sequence number so stale replies can be dropped.
type AutocompleteReply struct {
	Seq         int64             `json:"seq"`
	SessionID   string            `json:"session_id"`
	State       string            `json:"state"`
	Text        string            `json:"text"`
	Items       []ItemPayload     `json:"items"`
	Highlighted int               `json:"highlighted"`
	Exact       *match.Candidate  `json:"exact"`
	Selection   *SelectionPayload `json:"selection"`
	Error       string            `json:"error,omitempty"`
}
