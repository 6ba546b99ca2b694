// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/ava-labs/walletkit/utils/logging"
)

const (
	baseURL                = "/ext"
	DefaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 10 * time.Second
)

type Config struct {
	// ListenAddress is the host:port the server listens on. Port 0 picks a
	// free port.
	ListenAddress   string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// Server maintains the HTTP router
type Server struct {
	// log this server writes to
	log logging.Logger
	// access log of every request
	httpLog io.Writer
	// Maps endpoints to handlers
	router *router
	// wraps the router with cors and gzip
	handler http.Handler

	listenAddress   string
	shutdownTimeout time.Duration

	lock     sync.Mutex
	srv      *http.Server
	listener net.Listener
	closed   bool
}

// New returns a server that logs each request to [httpLog].
func New(log logging.Logger, httpLog io.Writer, config Config) *Server {
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = DefaultShutdownTimeout
	}

	s := &Server{
		log:             log,
		httpLog:         httpLog,
		router:          newRouter(),
		listenAddress:   config.ListenAddress,
		shutdownTimeout: config.ShutdownTimeout,
	}

	log.Info("API created",
		zap.Strings("allowedOrigins", config.AllowedOrigins),
	)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   config.AllowedOrigins,
		AllowCredentials: true,
	}).Handler(s.router)
	s.handler = gziphandler.GzipHandler(corsHandler)
	return s
}

// Dispatch starts the API server. It returns http.ErrServerClosed once
// Shutdown is called.
func (s *Server) Dispatch() error {
	listener, err := net.Listen("tcp", s.listenAddress)
	if err != nil {
		return err
	}

	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		_ = listener.Close()
		return http.ErrServerClosed
	}
	s.listener = listener
	s.srv = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	srv := s.srv
	s.lock.Unlock()

	s.log.Info("HTTP API server listening",
		zap.Stringer("address", listener.Addr()),
	)
	return srv.Serve(listener)
}

// Addr returns the address the server listens on, or nil if it is not
// dispatched yet.
func (s *Server) Addr() net.Addr {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// AddRoute serves [handler] at /ext/[base][endpoint].
func (s *Server) AddRoute(handler http.Handler, base, endpoint string) error {
	url := fmt.Sprintf("%s/%s", baseURL, base)
	s.log.Info("adding route",
		zap.String("url", url),
		zap.String("endpoint", endpoint),
	)
	// Apply logging middleware
	h := handlers.CombinedLoggingHandler(s.httpLog, handler)
	return s.router.AddRouter(url, endpoint, h)
}

// AddAliases makes the routes of [endpoint] reachable under each of
// [aliases].
func (s *Server) AddAliases(endpoint string, aliases ...string) error {
	url := fmt.Sprintf("%s/%s", baseURL, endpoint)
	endpoints := make([]string, len(aliases))
	for i, alias := range aliases {
		endpoints[i] = fmt.Sprintf("%s/%s", baseURL, alias)
	}
	return s.router.AddAlias(url, endpoints...)
}

// Shutdown this server
func (s *Server) Shutdown() error {
	s.lock.Lock()
	s.closed = true
	srv := s.srv
	s.lock.Unlock()

	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
