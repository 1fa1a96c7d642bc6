package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/teranos/larder/am"
	"github.com/teranos/larder/errors"
	"github.com/teranos/larder/logger"
)

// readHeaderTimeout bounds slow clients before a handler runs
const readHeaderTimeout = 10 * time.Second

// getState returns the current server state
func (s *LarderServer) getState() ServerState {
	return ServerState(s.state.Load())
}

// State returns the current server state
func (s *LarderServer) State() ServerState {
	return s.getState()
}

// setState atomically updates the server state
func (s *LarderServer) setState(newState ServerState) {
	s.state.Store(int32(newState))
	s.logger.Infow("Server state changed", logger.FieldState, newState.String())
}

// Start listens on port and serves until Stop
func (s *LarderServer) Start(port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return errors.Wrapf(err, "failed to listen on port %d", port)
	}
	return s.Serve(ln)
}

// Serve serves on ln until Stop. It returns nil after a graceful Stop.
func (s *LarderServer) Serve(ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	s.logger.Infow("HTTP server listening", logger.FieldAddress, ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "HTTP server failed")
	}
	return nil
}

// Stop gracefully shuts down the server and closes open websockets. It waits
// at most server.shutdown_timeout_seconds (the default when zero). Calling
// Stop again is a no-op.
func (s *LarderServer) Stop() error {
	if !s.state.CompareAndSwap(int32(ServerStateRunning), int32(ServerStateDraining)) {
		return nil
	}
	s.logger.Infow("Initiating server shutdown", logger.FieldState, ServerStateDraining.String())

	seconds := s.current().config.Server.ShutdownTimeoutSeconds
	if seconds <= 0 {
		seconds = am.DefaultShutdownTimeoutSeconds
	}
	timeout := time.Duration(seconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.mu.RLock()
	srv := s.httpServer
	watcher := s.configWatcher
	s.mu.RUnlock()

	var shutdownErr error
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Warnw("HTTP shutdown did not finish in time, forcing close", logger.FieldError, err)
			srv.Close()
			shutdownErr = errors.Wrap(err, "HTTP shutdown")
		}
	}

	// Close all client connections BEFORE cancelling context
	// This ensures readPump/writePump exit cleanly before context cancellation
	s.mu.Lock()
	clientsToClose := make([]*Client, 0, len(s.clients))
	for client := range s.clients {
		clientsToClose = append(clientsToClose, client)
		delete(s.clients, client)
	}
	s.mu.Unlock()

	if len(clientsToClose) > 0 {
		s.logger.Infow("Closing client connections", logger.FieldCount, len(clientsToClose))
		for _, client := range clientsToClose {
			client.conn.Close() // unblocks readPump
		}
	}

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warnw("Timed out waiting for connections to finish", "timeout", timeout.String())
	}

	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			s.logger.Warnw("Failed to stop config watcher", logger.FieldError, err)
		}
		if am.GetGlobalWatcher() == watcher {
			am.SetGlobalWatcher(nil)
		}
	}

	s.setState(ServerStateStopped)
	return shutdownErr
}
