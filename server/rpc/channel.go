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
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/net/websocket"

	"github.com/yorkie-team/diffsync/api/types"
	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/pkg/errors"
	"github.com/yorkie-team/diffsync/pkg/message"
	"github.com/yorkie-team/diffsync/server/backend"
	"github.com/yorkie-team/diffsync/server/logging"
	"github.com/yorkie-team/diffsync/server/rpc/connecthelper"
)

var (
	// ErrInvalidFrame is returned when a frame or its body cannot be decoded.
	ErrInvalidFrame = errors.InvalidArgument("invalid frame").WithCode("ErrInvalidFrame")

	// ErrUnknownFrame is returned when a frame of an unknown type is received.
	ErrUnknownFrame = errors.InvalidArgument("unknown frame type").WithCode("ErrUnknownFrame")

	// ErrUnknownMessage is returned when a message of an unknown body is sent.
	ErrUnknownMessage = errors.Internal("unknown message")
)

type channelID int32

func (c *channelID) next() string {
	next := atomic.AddInt32((*int32)(c), 1)
	return "w" + strconv.Itoa(int(next))
}

// wsChannel is a websocket connection of a client. Writes are serialized.
type wsChannel struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

// ID returns the ID of the channel.
func (c *wsChannel) ID() string {
	return c.id
}

// Send writes the message as a frame. The deadline of the context, if any,
// bounds the write.
func (c *wsChannel) Send(ctx context.Context, msg any) error {
	data, err := encodeMessage(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	deadline, _ := ctx.Deadline()
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("set write deadline of %s: %w", c.id, err)
	}
	if err := websocket.Message.Send(c.conn, string(data)); err != nil {
		return fmt.Errorf("send to %s: %w", c.id, err)
	}
	return nil
}

// encodeMessage encodes the message into a frame named after its body.
func encodeMessage(msg any) ([]byte, error) {
	switch m := msg.(type) {
	case *message.Message[*types.ChangedEvent]:
		return message.Marshal(types.FrameTypeChanged, m)
	case *message.Message[*types.SyncPatchResponse]:
		return message.Marshal(types.FrameTypePatch, m)
	case *message.Message[*types.SyncAckResponse]:
		return message.Marshal(types.FrameTypeAck, m)
	case *message.Message[*types.ErrorResponse]:
		return message.Marshal(types.FrameTypeError, m)
	default:
		return nil, fmt.Errorf("%T: %w", msg, ErrUnknownMessage)
	}
}

// binding is a session a channel was bound to by a sync-patch frame.
type binding struct {
	entityType diffsync.EntityType
	urn        string
}

// channelServer serves the frames of websocket channels.
type channelServer struct {
	be         *backend.Backend
	syncServer *syncServer
	serviceCtx context.Context
	channelID  channelID
}

func newChannelServer(
	serviceCtx context.Context,
	be *backend.Backend,
	syncServer *syncServer,
) *channelServer {
	return &channelServer{
		be:         be,
		syncServer: syncServer,
		serviceCtx: serviceCtx,
	}
}

// Handler returns the websocket handler of channels.
func (s *channelServer) Handler() websocket.Server {
	return websocket.Server{Handler: s.serve}
}

func (s *channelServer) serve(conn *websocket.Conn) {
	channel := &wsChannel{id: s.channelID.next(), conn: conn}
	logger := logging.New(channel.id)
	ctx := logging.With(conn.Request().Context(), logger)

	hostname := s.be.Config.Hostname
	s.be.Metrics.AddChannelConnections(hostname)

	done := make(chan struct{})
	go func() {
		select {
		case <-s.serviceCtx.Done():
			if err := conn.Close(); err != nil {
				logger.Debugf("close %s: %v", channel.id, err)
			}
		case <-done:
		}
	}()

	bindings := make(map[binding]struct{})
	defer func() {
		close(done)
		for b := range bindings {
			if session, ok := s.be.Sessions.Get(b.entityType, b.urn); ok {
				session.UnsetChannel(channel)
			}
		}
		if err := conn.Close(); err != nil {
			logger.Debugf("close %s: %v", channel.id, err)
		}
		s.be.Metrics.RemoveChannelConnections(hostname)
	}()

	for {
		var data []byte
		if err := websocket.Message.Receive(conn, &data); err != nil {
			if err != io.EOF {
				logger.Debugf("receive from %s: %v", channel.id, err)
			}
			return
		}

		start := time.Now()
		frame, reply, b, err := s.handleFrame(ctx, channel, data)
		route := "ws"
		if frame != nil {
			route = "ws/" + frame.Type
			s.be.Metrics.AddChannelFrames(hostname, frame.Type)
		}
		if b != nil {
			bindings[*b] = struct{}{}
		}

		code := "ok"
		if err != nil {
			id := ""
			if frame != nil {
				id = frame.ID
			}
			reply = message.WithID(id, connecthelper.ToErrorResponse(err))
			code = connecthelper.CodeOf(err)
		}
		logging.LogRequest(logger, route, time.Since(start), err)
		s.be.Metrics.AddServerHandledCounter(route, "WS", code)

		if err := channel.Send(ctx, reply); err != nil {
			logger.Warnf("reply to %s: %v", channel.id, err)
			return
		}
	}
}

// handleFrame runs the operation of the frame and returns the reply to send.
// The reply reuses the ID of the frame.
func (s *channelServer) handleFrame(
	ctx context.Context,
	channel *wsChannel,
	data []byte,
) (*message.Frame, any, *binding, error) {
	frame, err := message.ParseFrame(data)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", err.Error(), ErrInvalidFrame)
	}

	switch frame.Type {
	case types.FrameTypeSyncPatch:
		req, err := message.Unmarshal[*types.SyncPatchRequest](frame)
		if err != nil {
			return frame, nil, nil, fmt.Errorf("%s: %w", err.Error(), ErrInvalidFrame)
		}
		if req.Body() == nil {
			return frame, nil, nil, fmt.Errorf("empty %s: %w", frame.Type, ErrInvalidFrame)
		}

		resp, err := s.syncServer.syncPatch(ctx, req.Body(), channel)
		if err != nil {
			return frame, nil, nil, err
		}

		entityType, err := diffsync.ParseEntityType(req.Body().EntityType)
		if err != nil {
			return frame, nil, nil, err
		}
		identifier := diffsync.NewClientIdentifier(s.be.Config.ServerID, req.Body().ClientID)
		return frame, message.Map(req, func(*types.SyncPatchRequest) *types.SyncPatchResponse {
			return resp
		}), &binding{entityType: entityType, urn: identifier.URN()}, nil
	case types.FrameTypeSyncAck:
		req, err := message.Unmarshal[*types.SyncAckRequest](frame)
		if err != nil {
			return frame, nil, nil, fmt.Errorf("%s: %w", err.Error(), ErrInvalidFrame)
		}
		if req.Body() == nil {
			return frame, nil, nil, fmt.Errorf("empty %s: %w", frame.Type, ErrInvalidFrame)
		}

		resp, err := s.syncServer.syncAck(ctx, req.Body())
		if err != nil {
			return frame, nil, nil, err
		}
		return frame, message.Map(req, func(*types.SyncAckRequest) *types.SyncAckResponse {
			return resp
		}), nil, nil
	default:
		return frame, nil, nil, fmt.Errorf("%s: %w", frame.Type, ErrUnknownFrame)
	}
}
