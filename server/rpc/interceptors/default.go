/*
 * Copyright 2024 The Yorkie Authors. All rights reserved.
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


// Package interceptors provides the interceptors for RPC.
package interceptors

import (
	"context"
	gotime "time"

	"connectrpc.com/connect"

	"github.com/yorkie-team/diffsync/api/types"
	"github.com/yorkie-team/diffsync/server/logging"
	"github.com/yorkie-team/diffsync/server/profiling/prometheus"
	"github.com/yorkie-team/diffsync/server/rpc/connecthelper"
)

// DefaultInterceptor is an interceptor for common RPC. It attaches a request
// logger to the context, converts errors into connect errors and counts the
// handled requests.
type DefaultInterceptor struct {
	requestID *requestID
	metrics   *prometheus.Metrics
}

// NewDefaultInterceptor creates a new instance of DefaultInterceptor.
func NewDefaultInterceptor(metrics *prometheus.Metrics) *DefaultInterceptor {
	return &DefaultInterceptor{
		requestID: newRequestID("r"),
		metrics:   metrics,
	}
}

// WrapUnary creates a unary server interceptor for default.
func (i *DefaultInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(
		ctx context.Context,
		req connect.AnyRequest,
	) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			return next(ctx, req)
		}

		var fields []logging.Field
		if agent := req.Header().Get(types.UserAgentKey); agent != "" {
			fields = append(fields, logging.NewField("agent", agent))
		}
		reqLogger := logging.New(i.requestID.next(), fields...)
		ctx = logging.With(ctx, reqLogger)

		start := gotime.Now()
		resp, err := next(ctx, req)
		logging.LogRequest(reqLogger, req.Spec().Procedure, gotime.Since(start), err)

		err = connecthelper.ToStatusError(err)
		i.metrics.AddServerHandledCounter(req.Spec().Procedure, req.HTTPMethod(), connecthelper.CodeOf(err))
		if err != nil {
			return nil, err
		}
		return resp, nil
	}
}

// WrapStreamingClient creates a stream client interceptor for default.
func (i *DefaultInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return func(
		ctx context.Context,
		spec connect.Spec,
	) connect.StreamingClientConn {
		return next(ctx, spec)
	}
}

// WrapStreamingHandler creates a stream server interceptor for default. The
// sync service has no streaming procedures; changes are pushed over websocket
// channels instead.
func (i *DefaultInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(
		ctx context.Context,
		conn connect.StreamingHandlerConn,
	) error {
		return next(ctx, conn)
	}
}
