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

package diffsyncs

import (
	"context"

	"github.com/yorkie-team/diffsync/api/types"
	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/pkg/message"
	"github.com/yorkie-team/diffsync/server/backend"
	"github.com/yorkie-team/diffsync/server/backend/background"
	"github.com/yorkie-team/diffsync/server/logging"
)

// broadcastChanged notifies the sessions of the entity bound to a channel,
// except the publisher, that the canonical text changed. The first change of
// the entity in a window is sent at once; later ones are coalesced into one
// notification sent when the window ends.
func broadcastChanged(
	be *backend.Backend,
	entity diffsync.Entity,
	publisher diffsync.Identifier,
) {
	notify := func() {
		notifyChanged(be, entity, publisher)
	}

	if be.Broadcasts.Allow(entity.Key(), notify) {
		notify()
	}
}

// notifyChanged sends the changed event to the bound sessions of the entity.
// The publisher is skipped: the outbound patch of its round already carries
// every change made before it.
func notifyChanged(
	be *backend.Backend,
	entity diffsync.Entity,
	publisher diffsync.Identifier,
) {
	var channels []diffsync.Channel
	for _, session := range be.Sessions.SessionsOf(entity) {
		if session.Identifier().URN() == publisher.URN() {
			continue
		}
		if channel := session.Channel(); channel != nil {
			channels = append(channels, channel)
		}
	}
	if len(channels) == 0 {
		return
	}

	msg := message.Build(&types.ChangedEvent{
		EntityType: entity.Type().String(),
		EntityID:   entity.ID(),
		ClientID:   publisher.ClientID(),
	})
	timeout := be.Config.ParseBroadcastTimeout()

	be.Background.AttachGoroutine(func(ctx context.Context) {
		for _, channel := range channels {
			sendCtx, cancel := context.WithTimeout(ctx, timeout)
			if err := channel.Send(sendCtx, msg); err != nil {
				logging.From(ctx).Warnf("notify %s of %s: %v", channel.ID(), entity, err)
			}
			cancel()
		}
	}, background.Task{Type: "broadcast", Entity: entity})
}
