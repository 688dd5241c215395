package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/canemu/internal/bus"
	"github.com/muurk/canemu/internal/logging"
)

// Config holds the server configuration
type Config struct {
	Host string
	Port int
}

// Server serves the debug endpoints for one emulator
type Server struct {
	config     *Config
	emu        *bus.Emulator
	hub        *hub
	httpServer *http.Server
	listener   net.Listener
}

// New creates a Server and subscribes it to the emulator's device updates
func New(config *Config, emu *bus.Emulator) *Server {
	s := &Server{
		config: config,
		emu:    emu,
		hub:    newHub(),
	}
	emu.AddObserver(s.hub)
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler serving every endpoint
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/devices", s.handleDevices)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return logRequests(mux)
}

// Listen binds the listening socket. Port 0 picks a free port.
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	return nil
}

// Port returns the bound TCP port, or 0 before Listen.
func (s *Server) Port() int {
	if s.listener == nil {
		return 0
	}
	if tcp, ok := s.listener.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

// Run serves until SIGINT/SIGTERM or a serve error, then shuts down.
func (s *Server) Run() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	logging.Info("Debug server listening",
		zap.String("addr", s.listener.Addr().String()),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown stops accepting requests and closes every WebSocket client
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...",
		zap.Int("active_connections", s.GetActiveConnections()),
	)

	s.hub.closeAll()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		logging.Warn("Shutdown timeout, forcing close", zap.Error(err))
		_ = s.httpServer.Close()
	}

	logging.Sync()
	return nil
}

// GetActiveConnections returns the number of connected WebSocket clients
func (s *Server) GetActiveConnections() int {
	return s.hub.count()
}
