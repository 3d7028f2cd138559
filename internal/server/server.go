// Package server exposes the chart rendering service over HTTP.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/tradelens/chart-image/internal/logger"
	"github.com/tradelens/chart-image/internal/service"
)

// Server serves chart images over HTTP.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	service    *service.ChartService
	log        *logger.Logger
}

// NewServer creates a server wrapping the given chart service.
func NewServer(svc *service.ChartService, log *logger.Logger) *Server {
	return &Server{
		service: svc,
		log:     log,
	}
}

// Start starts the server on the given address.
// If address is empty or ":0", a random available port is used.
func (s *Server) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}

	s.listener = listener

	router := mux.NewRouter()
	router.Use(s.requestIDMiddleware)
	router.Use(s.corsMiddleware)

	router.HandleFunc("/api/chart-image", s.handleChartImage).Methods("GET", "OPTIONS")
	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	s.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			s.log.Error("HTTP server error", zap.Error(err))
		}
	}()

	s.log.Info("server listening", zap.String("address", s.Address()))

	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// Address returns the address the server is listening on.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// BaseURL returns the base URL for the server.
func (s *Server) BaseURL() string {
	return "http://" + s.Address()
}
