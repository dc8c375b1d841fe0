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


// Package v1connect provides the client and the handler of the sync service
// on top of connect. The messages are the JSON structs of package types.
package v1connect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/yorkie-team/diffsync/api/types"
)

// SyncServiceName is the fully-qualified name of the sync service.
const SyncServiceName = "diffsync.v1.SyncService"

// The procedures of the sync service.
const (
	SyncServiceSubscribeProcedure   = "/diffsync.v1.SyncService/Subscribe"
	SyncServiceUnsubscribeProcedure = "/diffsync.v1.SyncService/Unsubscribe"
	SyncServiceSyncPatchProcedure   = "/diffsync.v1.SyncService/SyncPatch"
	SyncServiceSyncAckProcedure     = "/diffsync.v1.SyncService/SyncAck"
	SyncServiceSnapshotProcedure    = "/diffsync.v1.SyncService/Snapshot"
	SyncServiceHistoryProcedure     = "/diffsync.v1.SyncService/History"
)

// SyncServiceClient is a client for the sync service.
type SyncServiceClient interface {
	Subscribe(
		context.Context,
		*connect.Request[types.SubscribeRequest],
	) (*connect.Response[types.SubscribeResponse], error)
	Unsubscribe(
		context.Context,
		*connect.Request[types.UnsubscribeRequest],
	) (*connect.Response[types.UnsubscribeResponse], error)
	SyncPatch(
		context.Context,
		*connect.Request[types.SyncPatchRequest],
	) (*connect.Response[types.SyncPatchResponse], error)
	SyncAck(
		context.Context,
		*connect.Request[types.SyncAckRequest],
	) (*connect.Response[types.SyncAckResponse], error)
	Snapshot(
		context.Context,
		*connect.Request[types.SnapshotRequest],
	) (*connect.Response[types.SnapshotResponse], error)
	History(
		context.Context,
		*connect.Request[types.HistoryRequest],
	) (*connect.Response[types.HistoryResponse], error)
}

// NewSyncServiceClient constructs a client for the sync service. The base URL
// is the scheme and the address of the server, e.g. http://localhost:8080.
func NewSyncServiceClient(
	httpClient connect.HTTPClient,
	baseURL string,
	opts ...connect.ClientOption,
) SyncServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)

	return &syncServiceClient{
		subscribe: connect.NewClient[types.SubscribeRequest, types.SubscribeResponse](
			httpClient, baseURL+SyncServiceSubscribeProcedure, opts...,
		),
		unsubscribe: connect.NewClient[types.UnsubscribeRequest, types.UnsubscribeResponse](
			httpClient, baseURL+SyncServiceUnsubscribeProcedure, opts...,
		),
		syncPatch: connect.NewClient[types.SyncPatchRequest, types.SyncPatchResponse](
			httpClient, baseURL+SyncServiceSyncPatchProcedure, opts...,
		),
		syncAck: connect.NewClient[types.SyncAckRequest, types.SyncAckResponse](
			httpClient, baseURL+SyncServiceSyncAckProcedure, opts...,
		),
		snapshot: connect.NewClient[types.SnapshotRequest, types.SnapshotResponse](
			httpClient, baseURL+SyncServiceSnapshotProcedure, opts...,
		),
		history: connect.NewClient[types.HistoryRequest, types.HistoryResponse](
			httpClient, baseURL+SyncServiceHistoryProcedure, opts...,
		),
	}
}

type syncServiceClient struct {
	subscribe   *connect.Client[types.SubscribeRequest, types.SubscribeResponse]
	unsubscribe *connect.Client[types.UnsubscribeRequest, types.UnsubscribeResponse]
	syncPatch   *connect.Client[types.SyncPatchRequest, types.SyncPatchResponse]
	syncAck     *connect.Client[types.SyncAckRequest, types.SyncAckResponse]
	snapshot    *connect.Client[types.SnapshotRequest, types.SnapshotResponse]
	history     *connect.Client[types.HistoryRequest, types.HistoryResponse]
}

// Subscribe calls diffsync.v1.SyncService.Subscribe.
func (c *syncServiceClient) Subscribe(
	ctx context.Context,
	req *connect.Request[types.SubscribeRequest],
) (*connect.Response[types.SubscribeResponse], error) {
	return c.subscribe.CallUnary(ctx, req)
}

// Unsubscribe calls diffsync.v1.SyncService.Unsubscribe.
func (c *syncServiceClient) Unsubscribe(
	ctx context.Context,
	req *connect.Request[types.UnsubscribeRequest],
) (*connect.Response[types.UnsubscribeResponse], error) {
	return c.unsubscribe.CallUnary(ctx, req)
}

// SyncPatch calls diffsync.v1.SyncService.SyncPatch.
func (c *syncServiceClient) SyncPatch(
	ctx context.Context,
	req *connect.Request[types.SyncPatchRequest],
) (*connect.Response[types.SyncPatchResponse], error) {
	return c.syncPatch.CallUnary(ctx, req)
}

// SyncAck calls diffsync.v1.SyncService.SyncAck.
func (c *syncServiceClient) SyncAck(
	ctx context.Context,
	req *connect.Request[types.SyncAckRequest],
) (*connect.Response[types.SyncAckResponse], error) {
	return c.syncAck.CallUnary(ctx, req)
}

// Snapshot calls diffsync.v1.SyncService.Snapshot.
func (c *syncServiceClient) Snapshot(
	ctx context.Context,
	req *connect.Request[types.SnapshotRequest],
) (*connect.Response[types.SnapshotResponse], error) {
	return c.snapshot.CallUnary(ctx, req)
}

// History calls diffsync.v1.SyncService.History.
func (c *syncServiceClient) History(
	ctx context.Context,
	req *connect.Request[types.HistoryRequest],
) (*connect.Response[types.HistoryResponse], error) {
	return c.history.CallUnary(ctx, req)
}

// SyncServiceHandler is an implementation of the sync service.
type SyncServiceHandler interface {
	Subscribe(
		context.Context,
		*connect.Request[types.SubscribeRequest],
	) (*connect.Response[types.SubscribeResponse], error)
	Unsubscribe(
		context.Context,
		*connect.Request[types.UnsubscribeRequest],
	) (*connect.Response[types.UnsubscribeResponse], error)
	SyncPatch(
		context.Context,
		*connect.Request[types.SyncPatchRequest],
	) (*connect.Response[types.SyncPatchResponse], error)
	SyncAck(
		context.Context,
		*connect.Request[types.SyncAckRequest],
	) (*connect.Response[types.SyncAckResponse], error)
	Snapshot(
		context.Context,
		*connect.Request[types.SnapshotRequest],
	) (*connect.Response[types.SnapshotResponse], error)
	History(
		context.Context,
		*connect.Request[types.HistoryRequest],
	) (*connect.Response[types.HistoryResponse], error)
}

// NewSyncServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewSyncServiceHandler(svc SyncServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(SyncServiceSubscribeProcedure, connect.NewUnaryHandler(
		SyncServiceSubscribeProcedure, svc.Subscribe, opts...,
	))
	mux.Handle(SyncServiceUnsubscribeProcedure, connect.NewUnaryHandler(
		SyncServiceUnsubscribeProcedure, svc.Unsubscribe, opts...,
	))
	mux.Handle(SyncServiceSyncPatchProcedure, connect.NewUnaryHandler(
		SyncServiceSyncPatchProcedure, svc.SyncPatch, opts...,
	))
	mux.Handle(SyncServiceSyncAckProcedure, connect.NewUnaryHandler(
		SyncServiceSyncAckProcedure, svc.SyncAck, opts...,
	))
	mux.Handle(SyncServiceSnapshotProcedure, connect.NewUnaryHandler(
		SyncServiceSnapshotProcedure, svc.Snapshot, opts...,
	))
	mux.Handle(SyncServiceHistoryProcedure, connect.NewUnaryHandler(
		SyncServiceHistoryProcedure, svc.History, opts...,
	))

	return "/" + SyncServiceName + "/", mux
}
