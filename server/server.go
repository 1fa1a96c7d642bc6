// Package server exposes quantities, icons and ingredient autocomplete over
// HTTP, plus a websocket that drives one autocomplete session per connection.
package server

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/larder/am"
	"github.com/teranos/larder/catalog"
	"github.com/teranos/larder/errors"
	"github.com/teranos/larder/icon"
	"github.com/teranos/larder/logger"
	"github.com/teranos/larder/match"
	"github.com/teranos/larder/quantity"
)

// LarderServer serves the larder HTTP API and autocomplete websocket
type LarderServer struct {
	store         *catalog.Store
	mux           *http.ServeMux
	settings      atomic.Pointer[settings] // swapped whole on config reload
	catalogGen    atomic.Uint64            // bumped on every catalog write
	configWatcher *am.ConfigWatcher
	clients       map[*Client]bool
	mu            sync.RWMutex
	logger        *zap.SugaredLogger
	httpServer    *http.Server
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	state         atomic.Int32
	startedAt     time.Time
}

// settings is everything derived from configuration. Handlers load it once
// per request so a reload never mixes old and new values.
type settings struct {
	config    *am.Config
	engine    *match.Engine
	formatter quantity.Formatter
	resolver  *icon.Resolver
}

// NewLarderServer creates a server over store configured by cfg. A nil log
// uses the "server" component logger.
func NewLarderServer(store *catalog.Store, cfg *am.Config, log *zap.SugaredLogger) (*LarderServer, error) {
	if store == nil {
		return nil, errors.New("catalog store cannot be nil")
	}
	if cfg == nil {
		return nil, errors.New("configuration cannot be nil")
	}
	if log == nil {
		log = logger.ComponentLogger("server")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &LarderServer{
		store:     store,
		mux:       http.NewServeMux(),
		clients:   make(map[*Client]bool),
		logger:    log,
		ctx:       ctx,
		cancel:    cancel,
		startedAt: time.Now(),
	}

	if err := s.ApplyConfig(cfg); err != nil {
		cancel()
		return nil, errors.Wrap(err, "failed to apply configuration")
	}

	s.setupHTTPRoutes()
	return s, nil
}

// Handler returns the server's routes, for embedding or httptest.
func (s *LarderServer) Handler() http.Handler {
	return s.mux
}

func (s *LarderServer) current() *settings {
	return s.settings.Load()
}

// catalogChanged tells every session to refresh its candidate snapshot on
// its next event.
func (s *LarderServer) catalogChanged() {
	s.catalogGen.Add(1)
}

func (s *LarderServer) register(c *Client) {
	s.mu.Lock()
	s.clients[c] = true
	count := len(s.clients)
	s.mu.Unlock()

	c.logger.Debugw("Client registered", logger.FieldCount, count)
}

func (s *LarderServer) unregister(c *Client) {
	s.mu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	count := len(s.clients)
	s.mu.Unlock()

	if ok {
		c.logger.Debugw("Client unregistered", logger.FieldCount, count)
	}
}

// ClientCount returns the number of open autocomplete connections.
func (s *LarderServer) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
