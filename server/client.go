package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/larder/am"
	"github.com/teranos/larder/db"
	"github.com/teranos/larder/errors"
	"github.com/teranos/larder/icon"
	"github.com/teranos/larder/logger"
	"github.com/teranos/larder/match"
)

// Client is one /ws/autocomplete connection. The session, engine and
// catalogGen fields belong to readPump.
type Client struct {
	server     *LarderServer
	conn       *websocket.Conn
	send       chan AutocompleteReply
	done       chan struct{} // closed when writePump exits
	id         string
	logger     *zap.SugaredLogger
	limiter    *rate.Limiter
	session    *match.Session
	engine     *match.Engine
	catalogGen uint64
	closeOnce  sync.Once
}

// HandleAutocompleteWebSocket upgrades the connection and starts a session
func (s *LarderServer) HandleAutocompleteWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.getState() != ServerStateRunning {
		writeError(w, http.StatusServiceUnavailable, "server is shutting down")
		return
	}

	// Read the snapshot before upgrading so a catalog failure is a plain 500
	cur := s.current()
	gen := s.catalogGen.Load()
	candidates, err := s.store.Candidates(r.Context())
	if err != nil {
		s.logger.Errorw("Failed to load candidates for session", logger.FieldError, err)
		writeErrorFrom(w, err)
		return
	}

	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		s.logger.Warnw("WebSocket upgrade failed",
			logger.FieldAddress, r.RemoteAddr,
			logger.FieldError, err,
		)
		return
	}

	id := newSessionID()
	client := &Client{
		server:     s,
		conn:       conn,
		send:       make(chan AutocompleteReply, sendBufferSize),
		done:       make(chan struct{}),
		id:         id,
		logger:     logger.ChildLogger(s.logger, logger.FieldSessionID, id),
		limiter:    newLimiter(cur.config),
		session:    match.NewSession(cur.engine, candidates),
		engine:     cur.engine,
		catalogGen: gen,
	}
	s.register(client)

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		client.writePump()
	}()
	go func() {
		defer s.wg.Done()
		client.readPump()
	}()
}

// newLimiter paces events per connection. A zero rate disables pacing.
func newLimiter(cfg *am.Config) *rate.Limiter {
	if cfg.Server.QueryRatePerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(cfg.Server.QueryRatePerSecond), cfg.Server.QueryBurst)
}

// readPump reads events from the websocket and answers each one in order.
// It is the only goroutine touching the session.
func (c *Client) readPump() {
	defer func() {
		c.server.unregister(c)
		c.closeSend()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.handleReadError(err)
			return
		}

		var reply AutocompleteReply
		var ev AutocompleteEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			reply = c.errorReply(0, "malformed event: "+err.Error())
		} else {
			reply = c.handle(ev)
		}

		select {
		case c.send <- reply:
		case <-c.done:
			return
		}
	}
}

// handleReadError logs the reason a connection ended
func (c *Client) handleReadError(err error) {
	if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
		c.logger.Warnw("WebSocket closed unexpectedly", logger.FieldError, err)
		return
	}
	c.logger.Debugw("WebSocket closed", logger.FieldError, err)
}

// writePump writes replies and keepalive pings to the websocket
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		c.conn.Close()
	}()

	for {
		select {
		case reply, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(reply); err != nil {
				c.logger.Debugw("Failed to write reply", logger.FieldSeq, reply.Seq, logger.FieldError, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// handle applies one event to the session and builds the reply
func (c *Client) handle(ev AutocompleteEvent) AutocompleteReply {
	if !c.limiter.Allow() {
		c.logger.Debugw("Event rate limited", logger.FieldSeq, ev.Seq, logger.FieldEvent, ev.Event)
		return c.errorReply(ev.Seq, "rate limit exceeded")
	}

	kind, err := match.ParseEventKind(ev.Event)
	if err != nil {
		return c.errorReply(ev.Seq, err.Error())
	}

	cur := c.server.current()
	c.sync(cur)

	sel, committed := c.session.Handle(match.Event{Kind: kind, Text: ev.Text})
	c.logger.Debugw("Autocomplete event",
		logger.FieldSeq, ev.Seq,
		logger.FieldEvent, kind.String(),
		logger.FieldState, c.session.State().String(),
	)

	var selection *SelectionPayload
	var commitErr error
	if committed {
		selection, commitErr = c.commit(sel)
	}

	reply := c.snapshot(ev.Seq, cur.resolver)
	reply.Selection = selection
	if commitErr != nil {
		log := c.logger.Errorw
		if db.IsDatabaseClosed(commitErr) {
			// Shutdown closed the catalog under a late commit
			log = c.logger.Debugw
		}
		log("Failed to persist new ingredient",
			logger.FieldIngredient, sel.Name(),
			logger.FieldError, commitErr,
		)
		reply.Error = commitErr.Error()
	}
	return reply
}

// sync brings the session up to date with config reloads and catalog
// writes made since its last event.
func (c *Client) sync(cur *settings) {
	if cur.engine != c.engine {
		c.session.SetEngine(cur.engine)
		c.engine = cur.engine
	}
	if c.server.catalogGen.Load() != c.catalogGen {
		if err := c.refreshCandidates(); err != nil {
			c.logger.Warnw("Failed to refresh candidates", logger.FieldError, err)
		}
	}
}

func (c *Client) refreshCandidates() error {
	gen := c.server.catalogGen.Load()
	candidates, err := c.server.store.Candidates(c.server.ctx)
	if err != nil {
		return err
	}
	c.session.SetCandidates(candidates)
	c.catalogGen = gen
	return nil
}

// commit turns a selection into its wire form. A create-new selection is
// added to the catalog; if someone else added the same name first, the
// existing row is reported instead.
func (c *Client) commit(sel match.Selection) (*SelectionPayload, error) {
	p := &SelectionPayload{Kind: sel.Kind.String(), Name: sel.Name()}
	if sel.Kind == match.SelectExisting {
		p.ID = sel.Candidate.ID
		p.Category = sel.Candidate.Category
		return p, nil
	}

	ctx := c.server.ctx
	ing, err := c.server.store.Create(ctx, sel.NewName, "")
	switch {
	case err == nil:
		p.Created = true
		c.server.catalogChanged()
		c.logger.Debugw("Create-new committed from autocomplete", logger.FieldIngredient, ing.Name)
	case errors.IsConflict(err):
		ing, err = c.server.store.FindByName(ctx, sel.NewName)
		if err != nil {
			return p, err
		}
		p.Kind = match.SelectExisting.String()
	default:
		return p, err
	}
	p.ID = ing.ID
	p.Name = ing.Name
	p.Category = ing.Category

	if err := c.refreshCandidates(); err != nil {
		c.logger.Warnw("Failed to refresh candidates", logger.FieldError, err)
	}
	return p, nil
}

// snapshot renders the session's current state
func (c *Client) snapshot(seq int64, resolver *icon.Resolver) AutocompleteReply {
	res := c.session.Result()
	reply := AutocompleteReply{
		Seq:         seq,
		SessionID:   c.id,
		State:       c.session.State().String(),
		Text:        c.session.Text(),
		Items:       []ItemPayload{},
		Highlighted: match.NoHighlight,
	}
	if c.session.State() == match.Open {
		reply.Items = itemPayloads(resolver, res.Items)
		reply.Highlighted = res.Highlighted
		reply.Exact = res.Exact
	}
	return reply
}

func (c *Client) errorReply(seq int64, message string) AutocompleteReply {
	reply := c.snapshot(seq, c.server.current().resolver)
	reply.Error = message
	return reply
}
