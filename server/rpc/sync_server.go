/*
 * Copyright 2026 The Yorkie Authors. All rights reserved.
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

package rpc

import (
	"context"
	"fmt"

	"connectrpc.com/connect"

	"github.com/yorkie-team/diffsync/api/converter"
	"github.com/yorkie-team/diffsync/api/types"
	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/server/backend"
	"github.com/yorkie-team/diffsync/server/diffsyncs"
)

// syncServer serves the sync operations of clients.
type syncServer struct {
	be *backend.Backend
}

func newSyncServer(be *backend.Backend) *syncServer {
	return &syncServer{be: be}
}

// identifierOf returns the identifier of the client on this server. A client
// whose session lives on another server has no session here.
func (s *syncServer) identifierOf(serverID, clientID string) (diffsync.Identifier, error) {
	if serverID != "" && serverID != s.be.Config.ServerID {
		return diffsync.Identifier{}, fmt.Errorf(
			"%s of server %s: %w", clientID, serverID, diffsyncs.ErrSessionNotFound,
		)
	}

	return diffsync.NewClientIdentifier(s.be.Config.ServerID, clientID), nil
}

// Subscribe starts a new session of the client on the entity.
func (s *syncServer) Subscribe(
	ctx context.Context,
	req *connect.Request[types.SubscribeRequest],
) (*connect.Response[types.SubscribeResponse], error) {
	if err := req.Msg.Validate(); err != nil {
		return nil, err
	}

	entity, err := converter.FromEntity(req.Msg.EntityType, req.Msg.EntityID)
	if err != nil {
		return nil, err
	}
	identifier, err := s.identifierOf("", req.Msg.ClientID)
	if err != nil {
		return nil, err
	}

	info, err := diffsyncs.Subscribe(ctx, s.be, entity, identifier, nil)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&types.SubscribeResponse{
		ServerID: s.be.Config.ServerID,
		Snapshot: converter.ToSnapshot(info),
	}), nil
}

// Unsubscribe tears down the session of the client.
func (s *syncServer) Unsubscribe(
	ctx context.Context,
	req *connect.Request[types.UnsubscribeRequest],
) (*connect.Response[types.UnsubscribeResponse], error) {
	if err := req.Msg.Validate(); err != nil {
		return nil, err
	}

	entity, err := converter.FromEntity(req.Msg.EntityType, req.Msg.EntityID)
	if err != nil {
		return nil, err
	}
	identifier, err := s.identifierOf(req.Msg.ServerID, req.Msg.ClientID)
	if err != nil {
		return nil, err
	}

	if err := diffsyncs.Unsubscribe(ctx, s.be, entity, identifier); err != nil {
		return nil, err
	}

	return connect.NewResponse(&types.UnsubscribeResponse{}), nil
}

// SyncPatch runs a round of the client.
func (s *syncServer) SyncPatch(
	ctx context.Context,
	req *connect.Request[types.SyncPatchRequest],
) (*connect.Response[types.SyncPatchResponse], error) {
	resp, err := s.syncPatch(ctx, req.Msg, nil)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(resp), nil
}

// syncPatch runs a round of the client. The channel, if any, is bound to the
// session to receive change notifications.
func (s *syncServer) syncPatch(
	ctx context.Context,
	req *types.SyncPatchRequest,
	channel diffsync.Channel,
) (*types.SyncPatchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	entity, err := converter.FromEntity(req.EntityType, req.EntityID)
	if err != nil {
		return nil, err
	}
	identifier, err := s.identifierOf(req.ServerID, req.ClientID)
	if err != nil {
		return nil, err
	}
	patches, err := converter.FromPatches(req.Patches)
	if err != nil {
		return nil, err
	}

	var outbound *diffsync.Patch
	if req.M != nil {
		outbound, err = diffsyncs.SyncPatchAt(ctx, s.be, entity, identifier, diffsync.Version(*req.M), patches, channel)
	} else {
		outbound, err = diffsyncs.SyncPatch(ctx, s.be, entity, identifier, patches, channel)
	}
	if err != nil {
		return nil, err
	}

	return &types.SyncPatchResponse{Patch: converter.ToPatch(outbound)}, nil
}

// SyncAck confirms the last outbound patch of the client.
func (s *syncServer) SyncAck(
	ctx context.Context,
	req *connect.Request[types.SyncAckRequest],
) (*connect.Response[types.SyncAckResponse], error) {
	resp, err := s.syncAck(ctx, req.Msg)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(resp), nil
}

func (s *syncServer) syncAck(ctx context.Context, req *types.SyncAckRequest) (*types.SyncAckResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	entity, err := converter.FromEntity(req.EntityType, req.EntityID)
	if err != nil {
		return nil, err
	}
	identifier, err := s.identifierOf(req.ServerID, req.ClientID)
	if err != nil {
		return nil, err
	}

	ack, err := diffsyncs.SyncAck(ctx, s.be, entity, identifier, converter.FromAck(req.Ack))
	if err != nil {
		return nil, err
	}

	return &types.SyncAckResponse{Ack: converter.ToAck(ack)}, nil
}

// Snapshot returns the canonical text of the entity.
func (s *syncServer) Snapshot(
	ctx context.Context,
	req *connect.Request[types.SnapshotRequest],
) (*connect.Response[types.SnapshotResponse], error) {
	if err := req.Msg.Validate(); err != nil {
		return nil, err
	}

	entity, err := converter.FromEntity(req.Msg.EntityType, req.Msg.EntityID)
	if err != nil {
		return nil, err
	}

	info, err := diffsyncs.Snapshot(ctx, s.be, entity)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&types.SnapshotResponse{
		Snapshot: converter.ToSnapshot(info),
	}), nil
}

// History returns the latest rounds of the entity, newest first.
func (s *syncServer) History(
	ctx context.Context,
	req *connect.Request[types.HistoryRequest],
) (*connect.Response[types.HistoryResponse], error) {
	if err := req.Msg.Validate(); err != nil {
		return nil, err
	}

	entity, err := converter.FromEntity(req.Msg.EntityType, req.Msg.EntityID)
	if err != nil {
		return nil, err
	}

	infos, err := diffsyncs.History(ctx, s.be, entity, req.Msg.Limit)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&types.HistoryResponse{
		Rounds: converter.ToRoundSummaries(infos),
	}), nil
}
