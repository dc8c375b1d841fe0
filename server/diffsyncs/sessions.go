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
	"fmt"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/server/backend"
	"github.com/yorkie-team/diffsync/server/backend/database"
	"github.com/yorkie-team/diffsync/server/backend/sync"
	"github.com/yorkie-team/diffsync/server/logging"
)

// Subscribe starts a new session of the client on the canonical text of the
// entity, replacing the session the client had. The client resets its shadow
// to the returned text with both versions at zero.
func Subscribe(
	ctx context.Context,
	be *backend.Backend,
	entity diffsync.Entity,
	identifier diffsync.Identifier,
	channel diffsync.Channel,
) (*database.EntityInfo, error) {
	synchronizable, err := be.Synchronizables.Get(entity.Type())
	if err != nil {
		return nil, err
	}

	locker := be.Lockers.Locker(sync.EntityKey(entity))
	if err := locker.Lock(); err != nil {
		return nil, err
	}
	defer func() {
		if err := locker.Unlock(); err != nil {
			logging.From(ctx).Error(err)
		}
	}()

	info, err := synchronizable.Fetch(ctx, entity)
	if err != nil {
		return nil, err
	}

	urn := identifier.URN()
	if be.Sessions.Remove(entity.Type(), urn) {
		be.Metrics.RemoveSessions(be.Config.Hostname, entity.Type(), 1)
	}
	if _, err := resolveSession(be, entity, identifier, info.Content, channel); err != nil {
		return nil, err
	}

	logging.From(ctx).Debugf("subscribed %s to %s", urn, entity)
	return info, nil
}

// Unsubscribe tears down the session of the client.
func Unsubscribe(
	ctx context.Context,
	be *backend.Backend,
	entity diffsync.Entity,
	identifier diffsync.Identifier,
) error {
	if _, err := findSession(be, entity, identifier); err != nil {
		return err
	}

	if be.Sessions.RemoveIf(entity.Type(), identifier.URN(), func(s *diffsync.DiffSync) bool {
		return s.Entity() == entity
	}) {
		be.Metrics.RemoveSessions(be.Config.Hostname, entity.Type(), 1)
		logging.From(ctx).Debugf("unsubscribed %s from %s", identifier.URN(), entity)
	}

	return nil
}

// resolveSession returns the session of the client, creating it on the given
// content if it is missing. The channel, if any, replaces the one the session
// was bound to.
func resolveSession(
	be *backend.Backend,
	entity diffsync.Entity,
	identifier diffsync.Identifier,
	content string,
	channel diffsync.Channel,
) (*diffsync.DiffSync, error) {
	session, created, err := be.Sessions.GetOrCreate(
		entity.Type(),
		identifier.URN(),
		func() (*diffsync.DiffSync, error) {
			return diffsync.New(entity, identifier, content, newGateway(be.DB), channel), nil
		},
	)
	if err != nil {
		return nil, err
	}
	if session.Entity() != entity {
		return nil, fmt.Errorf("%s on %s: %w", identifier.URN(), session.Entity(), ErrSessionEntityMismatch)
	}

	if created {
		be.Metrics.AddSessions(be.Config.Hostname, entity.Type())
	} else if channel != nil && session.Channel() != channel {
		session.SetChannel(channel)
	}

	return session, nil
}

// findSession returns the existing session of the client.
func findSession(
	be *backend.Backend,
	entity diffsync.Entity,
	identifier diffsync.Identifier,
) (*diffsync.DiffSync, error) {
	session, ok := be.Sessions.Get(entity.Type(), identifier.URN())
	if !ok {
		return nil, fmt.Errorf("%s on %s: %w", identifier.URN(), entity, ErrSessionNotFound)
	}
	if session.Entity() != entity {
		return nil, fmt.Errorf("%s on %s: %w", identifier.URN(), session.Entity(), ErrSessionEntityMismatch)
	}

	return session, nil
}
