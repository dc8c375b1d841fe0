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

package client

import (
	"context"

	"connectrpc.com/connect"

	"github.com/yorkie-team/diffsync/api/types"
	"github.com/yorkie-team/diffsync/internal/version"
)

// HeaderInterceptor adds the client key and the user agent to requests.
type HeaderInterceptor struct {
	clientID string
}

// NewHeaderInterceptor creates a new instance of HeaderInterceptor.
func NewHeaderInterceptor(clientID string) *HeaderInterceptor {
	return &HeaderInterceptor{clientID: clientID}
}

// WrapUnary creates a unary client interceptor for headers.
func (i *HeaderInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(
		ctx context.Context,
		req connect.AnyRequest,
	) (connect.AnyResponse, error) {
		req.Header().Set(types.ClientIDKey, i.clientID)
		req.Header().Set(types.UserAgentKey, types.GoSDKType+"/"+version.Version)

		return next(ctx, req)
	}
}

// WrapStreamingClient creates a stream client interceptor for headers.
func (i *HeaderInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return func(
		ctx context.Context,
		spec connect.Spec,
	) connect.StreamingClientConn {
		conn := next(ctx, spec)
		conn.RequestHeader().Set(types.ClientIDKey, i.clientID)
		conn.RequestHeader().Set(types.UserAgentKey, types.GoSDKType+"/"+version.Version)
		return conn
	}
}

// WrapStreamingHandler creates a stream server interceptor for headers.
func (i *HeaderInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(
		ctx context.Context,
		conn connect.StreamingHandlerConn,
	) error {
		return next(ctx, conn)
	}
}
