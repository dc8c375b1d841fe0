/*
 * Copyright 2020 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package rpc provides the connect and websocket transport of the sync service.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"connectrpc.com/connect"
	"connectrpc.com/grpchealth"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/yorkie-team/diffsync/api/v1connect"
	"github.com/yorkie-team/diffsync/server/backend"
	"github.com/yorkie-team/diffsync/server/logging"
	"github.com/yorkie-team/diffsync/server/rpc/httphealth"
	"github.com/yorkie-team/diffsync/server/rpc/interceptors"
)

// ChannelPath is the path of websocket channels.
const ChannelPath = "/v1/ws"

// errPanic is reported to the client of a request whose handler panicked.
var errPanic = errors.New("internal error")

// Server is a normal server that processes the logic requested by the client.
type Server struct {
	conf          *Config
	httpServer    *http.Server
	healthChecker *grpchealth.StaticChecker

	serviceCtx    context.Context
	serviceCancel context.CancelFunc
}

// NewServer creates a new instance of Server.
func NewServer(conf *Config, be *backend.Backend) *Server {
	serviceCtx, serviceCancel := context.WithCancel(context.Background())
	healthChecker := grpchealth.NewStaticChecker(v1connect.SyncServiceName)

	opts := []connect.HandlerOption{
		connect.WithInterceptors(interceptors.NewDefaultInterceptor(be.Metrics)),
		connect.WithReadMaxBytes(int(conf.MaxRequestBytes)),
		connect.WithRecover(func(ctx context.Context, spec connect.Spec, _ http.Header, p any) error {
			logging.From(ctx).Errorf("panic in %s: %v", spec.Procedure, p)
			return connect.NewError(connect.CodeInternal, errPanic)
		}),
	}

	syncServer := newSyncServer(be)
	channelServer := newChannelServer(serviceCtx, be, syncServer)

	mux := http.NewServeMux()
	mux.Handle(v1connect.NewSyncServiceHandler(syncServer, opts...))
	mux.Handle(grpchealth.NewHandler(healthChecker))
	mux.Handle(httphealth.NewHandler(healthChecker))
	mux.Handle("GET "+ChannelPath, channelServer.Handler())

	return &Server{
		conf: conf,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", conf.Port),
			Handler:           h2c.NewHandler(mux, &http2.Server{}),
			ReadHeaderTimeout: conf.ParseReadHeaderTimeout(),
		},
		healthChecker: healthChecker,
		serviceCtx:    serviceCtx,
		serviceCancel: serviceCancel,
	}
}

// Handler returns the handler of the server.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts this server by opening the rpc port.
func (s *Server) Start() error {
	return s.listenAndServe()
}

// Shutdown shuts down this server.
func (s *Server) Shutdown(graceful bool) {
	s.healthChecker.SetStatus(v1connect.SyncServiceName, grpchealth.StatusNotServing)
	s.healthChecker.SetStatus("", grpchealth.StatusNotServing)
	s.serviceCancel()

	if graceful {
		if err := s.httpServer.Shutdown(context.Background()); err != nil {
			logging.DefaultLogger().Errorf("HTTP server Shutdown: %v", err)
		}
		return
	}

	if err := s.httpServer.Close(); err != nil {
		logging.DefaultLogger().Errorf("HTTP server Close: %v", err)
	}
}

func (s *Server) listenAndServe() error {
	lis, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		logging.DefaultLogger().Error(err)
		return err
	}

	tls := s.conf.CertFile != "" && s.conf.KeyFile != ""
	go func() {
		logging.DefaultLogger().Infof("serving RPC on %d", s.conf.Port)

		var serveErr error
		if tls {
			serveErr = s.httpServer.ServeTLS(lis, s.conf.CertFile, s.conf.KeyFile)
		} else {
			serveErr = s.httpServer.Serve(lis)
		}
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logging.DefaultLogger().Error(serveErr)
		}
	}()

	return nil
}
