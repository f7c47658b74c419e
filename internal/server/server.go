package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/artpar/favtag/internal/config"
	"github.com/artpar/favtag/internal/store"
)

// Server serves the tagging API over HTTP.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	config     config.ServerConfig
	logger     logrus.FieldLogger
	running    bool
	listener   net.Listener
	mu         sync.RWMutex
}

// New creates a tagging server backed by s.
func New(s store.Store, cfg config.ServerConfig, logger logrus.FieldLogger) *Server {
	return &Server{
		handler: NewHandler(s, cfg, logger),
		config:  cfg,
		logger:  logger,
	}
}

// Start starts serving and stops when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("tagging server is already running")
	}

	listener, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddr, err)
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.running = true
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			s.logger.WithError(err).Error("tagging server stopped")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.WithField("addr", listener.Addr().String()).Info("tagging server listening")
	return nil
}

// Stop stops the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		// Force close if graceful shutdown fails
		s.httpServer.Close()
	}

	s.running = false
	return nil
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// ListenAddr returns the actual address the server is listening on.
// Useful when using port 0 to get an available port.
func (s *Server) ListenAddr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.ListenAddr
}
