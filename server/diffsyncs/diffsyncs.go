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

// Package diffsyncs drives the sync rounds of the sessions against the
// canonical texts stored by the backend.
package diffsyncs

import (
	"context"
	goerrors "errors"
	"strconv"
	gotime "time"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/pkg/errors"
	"github.com/yorkie-team/diffsync/server/backend"
	"github.com/yorkie-team/diffsync/server/backend/database"
	"github.com/yorkie-team/diffsync/server/backend/sync"
	"github.com/yorkie-team/diffsync/server/logging"
)

var (
	// ErrSessionNotFound is returned when the client has no session for the entity.
	ErrSessionNotFound = errors.NotFound("session not found").WithCode("ErrSessionNotFound")

	// ErrSessionEntityMismatch is returned when the session of the client is
	// bound to another entity of the same type.
	ErrSessionEntityMismatch = errors.InvalidArgument(
		"session is bound to another entity",
	).WithCode("ErrSessionEntityMismatch")
)

// SyncPatch applies the batch of patches sent by the client to its session
// and to the canonical text of the entity, and returns the patch that brings
// the client up to date. The rounds of an entity are serialized.
func SyncPatch(
	ctx context.Context,
	be *backend.Backend,
	entity diffsync.Entity,
	identifier diffsync.Identifier,
	patches []*diffsync.Patch,
	channel diffsync.Channel,
) (*diffsync.Patch, error) {
	return syncPatch(ctx, be, entity, identifier, nil, patches, channel)
}

// SyncPatchAt is SyncPatch for a client that reports m, the number of
// outbound patches it applied.
func SyncPatchAt(
	ctx context.Context,
	be *backend.Backend,
	entity diffsync.Entity,
	identifier diffsync.Identifier,
	m diffsync.Version,
	patches []*diffsync.Patch,
	channel diffsync.Channel,
) (*diffsync.Patch, error) {
	return syncPatch(ctx, be, entity, identifier, &m, patches, channel)
}

func syncPatch(
	ctx context.Context,
	be *backend.Backend,
	entity diffsync.Entity,
	identifier diffsync.Identifier,
	m *diffsync.Version,
	patches []*diffsync.Patch,
	channel diffsync.Channel,
) (*diffsync.Patch, error) {
	start := gotime.Now()
	defer func() {
		be.Metrics.ObserveSyncPatchResponseSeconds(gotime.Since(start).Seconds())
	}()

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

	// 01. fetch the canonical text of the entity.
	info, err := synchronizable.Fetch(ctx, entity)
	if err != nil {
		return nil, err
	}

	// 02. resolve the session of the client. A new session starts from the
	// canonical text.
	session, err := resolveSession(be, entity, identifier, info.Content, channel)
	if err != nil {
		return nil, err
	}

	// 03. apply the batch to the shadow and the canonical text.
	text := diffsync.NewServerText(info.Content)
	var round *diffsync.Round
	if m != nil {
		round, err = session.HandlePatchAt(*m, patches, text)
	} else {
		round, err = session.HandlePatch(patches, text)
	}
	if err != nil {
		if diffsync.IsResyncRequired(err) {
			be.Metrics.AddSyncResyncRequired(be.Config.Hostname, entity.Type())
			return nil, errors.WithMetadata(err, sessionMetadata(session))
		}
		return nil, err
	}

	// 04. persist the canonical text. The session forgets the round if the
	// text could not be stored so that the client can send the batch again.
	if round.TextChanged {
		if _, err := synchronizable.Persist(ctx, entity, round.Text.Content(), info.Revision); err != nil {
			session.Revert(round)
			if goerrors.Is(err, database.ErrConflictOnUpdate) {
				be.Metrics.AddSyncPersistConflict(be.Config.Hostname, entity.Type())
			}
			return nil, err
		}
	}

	// 05. record the round. The record is only an audit trail.
	if err := session.Record(ctx, round); err != nil {
		logging.From(ctx).Errorf("record round of %s: %v", identifier.URN(), err)
	}
	be.Metrics.AddSyncRound(be.Config.Hostname, entity.Type(), round)

	// 06. tell the other clients of the entity to sync.
	if round.TextChanged {
		broadcastChanged(be, entity, identifier)
	}

	return round.Outbound, nil
}

// SyncAck confirms that the client received the last outbound patch and
// returns the versions of its session.
func SyncAck(
	_ context.Context,
	be *backend.Backend,
	entity diffsync.Entity,
	identifier diffsync.Identifier,
	ack *diffsync.Ack,
) (*diffsync.Ack, error) {
	session, err := findSession(be, entity, identifier)
	if err != nil {
		return nil, err
	}

	return session.HandleAck(ack), nil
}

// sessionMetadata describes the versions of the session for faults reported
// to the client.
func sessionMetadata(session *diffsync.DiffSync) map[string]string {
	shadow, backup := session.Shadow(), session.Backup()
	return map[string]string{
		"entity":   session.Entity().Key(),
		"urn":      session.Identifier().URN(),
		"shadow_m": strconv.FormatUint(shadow.M().Value(), 10),
		"shadow_n": strconv.FormatUint(shadow.N().Value(), 10),
		"backup_m": strconv.FormatUint(backup.M().Value(), 10),
	}
}
