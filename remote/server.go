// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package remote

import (
	"context"
	goerrors "errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"connectrpc.com/connect"
	"go.uber.org/atomic"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/tochemey/durable/errors"
	"github.com/tochemey/durable/internal/compression"
)

const (
	// FetchProcedure is the connect procedure delivering a request envelope
	FetchProcedure = "/durable.v1.ObjectService/Fetch"
	// ResolveProcedure is the connect procedure resolving a binding
	ResolveProcedure = "/durable.v1.ObjectService/Resolve"
)

// Server exposes a Backend over connect on HTTP/2 cleartext
type Server struct {
	mu       sync.Mutex
	backend  Backend
	config   *Config
	server   *http.Server
	listener net.Listener
	started  *atomic.Bool
	serveErr chan error
}

// NewServer creates a Server for the given backend
func NewServer(backend Backend, config *Config) *Server {
	return &Server{
		backend: backend,
		config:  config,
		started: atomic.NewBool(false),
	}
}

// Start binds the listener and serves in the background
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started.Load() {
		return nil
	}

	if err := s.config.Validate(); err != nil {
		return err
	}

	logger := s.config.Logger()
	logger.Info("starting remote server...")

	listener, err := net.Listen("tcp", s.config.HostPort())
	if err != nil {
		return err
	}

	http2Server := &http2.Server{
		MaxConcurrentStreams: 1000,
		MaxReadFrameSize:     s.config.MaxFrameSize(),
		IdleTimeout:          s.config.IdleTimeout(),
		WriteByteTimeout:     s.config.WriteTimeout(),
		ReadIdleTimeout:      s.config.ReadIdleTimeout(),
	}

	s.listener = listener
	s.server = &http.Server{
		Addr:              listener.Addr().String(),
		Handler:           h2c.NewHandler(s.mux(), http2Server),
		ReadHeaderTimeout: time.Second,
		IdleTimeout:       s.config.IdleTimeout(),
		MaxHeaderBytes:    8 * 1024,
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	s.serveErr = make(chan error, 1)
	go func() {
		err := s.server.Serve(listener)
		if err != nil && !goerrors.Is(err, http.ErrServerClosed) {
			logger.Errorf("remote server failed: %v", err)
		}
		s.serveErr <- err
	}()

	s.started.Store(true)
	logger.Infof("remote server listening on %s", s.Addr())
	return nil
}

// Stop gracefully shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started.Load() {
		return nil
	}

	s.config.Logger().Info("stopping remote server...")
	s.started.Store(false)
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}

	if err := <-s.serveErr; err != nil && !goerrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the address the server listens on
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Port returns the port the server listens on
func (s *Server) Port() int {
	if s.listener == nil {
		return 0
	}
	return s.listener.Addr().(*net.TCPAddr).Port
}

func (s *Server) mux() *http.ServeMux {
	logger := s.config.Logger()
	opts := []connect.HandlerOption{
		connect.WithCodec(newFrameCodec()),
		connect.WithReadMaxBytes(int(s.config.MaxFrameSize())),
		connect.WithRecover(func(_ context.Context, spec connect.Spec, _ http.Header, recovered any) error {
			logger.Errorf("remote panic in %s: %v", spec.Procedure, recovered)
			return connect.NewError(connect.CodeInternal, fmt.Errorf("internal server error"))
		}),
	}
	opts = append(opts, compression.HandlerOptions(s.config.Compression())...)

	mux := http.NewServeMux()
	mux.Handle(FetchProcedure, connect.NewUnaryHandler(FetchProcedure, s.fetch, opts...))
	mux.Handle(ResolveProcedure, connect.NewUnaryHandler(ResolveProcedure, s.resolve, opts...))
	return mux
}

func (s *Server) fetch(ctx context.Context, request *connect.Request[FetchRequest]) (*connect.Response[FetchResponse], error) {
	if !s.started.Load() {
		return nil, connect.NewError(connect.CodeUnavailable, errors.ErrServerNotStarted)
	}

	reply, err := serve(ctx, s.backend, request.Msg)
	if err != nil {
		return nil, connect.NewError(toCode(err), err)
	}
	return connect.NewResponse(&FetchResponse{Body: reply}), nil
}

func (s *Server) resolve(_ context.Context, request *connect.Request[ResolveRequest]) (*connect.Response[ResolveResponse], error) {
	if err := resolve(s.backend, request.Msg.Binding); err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewResponse(&ResolveResponse{Bindings: s.backend.Bindings()}), nil
}
