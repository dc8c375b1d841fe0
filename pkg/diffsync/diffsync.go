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

// Package diffsync implements the server side of Differential Synchronization.
//
// Each client editing an entity owns a session holding a shadow, the server's
// copy of the client's text, and a backup of the shadow taken when the server
// last sent a patch. Patches carry the versions they are based on, which lets a
// session detect a lost outbound patch and recover from the backup.
package diffsync

import (
	"context"
	"sync"
	"time"
)

// Round is the result of handling a batch of patches.
type Round struct {
	// Outbound is the patch to send back to the client.
	Outbound *Patch

	// Text is the canonical text with the edits of the batch applied.
	Text *ServerText

	// TextChanged reports whether Text differs from the text the batch was
	// applied to.
	TextChanged bool

	Received     int
	Applied      int
	Skipped      int
	DroppedHunks int
	RolledBack   bool

	prevShadow *ServerShadow
	prevBackup *ServerBackup
	shadow     *ServerShadow
}

// DiffSync is the session of one client synchronizing one entity.
type DiffSync struct {
	mu sync.RWMutex

	entity     Entity
	identifier Identifier
	shadow     *ServerShadow
	backup     *ServerBackup
	channel    Channel
	gateway    Gateway

	createdAt    time.Time
	lastActiveAt time.Time
}

// New creates a new session whose shadow and backup hold the given content.
func New(
	entity Entity,
	identifier Identifier,
	content string,
	gateway Gateway,
	channel Channel,
) *DiffSync {
	shadow := NewServerShadow(content, 0, 0, identifier)
	now := time.Now()

	return &DiffSync{
		entity:       entity,
		identifier:   identifier,
		shadow:       shadow,
		backup:       shadow.Backup(),
		channel:      channel,
		gateway:      gateway,
		createdAt:    now,
		lastActiveAt: now,
	}
}

// Restore creates a session from a previously captured shadow and backup.
func Restore(
	entity Entity,
	shadow *ServerShadow,
	backup *ServerBackup,
	gateway Gateway,
	channel Channel,
) *DiffSync {
	now := time.Now()

	return &DiffSync{
		entity:       entity,
		identifier:   shadow.Identifier(),
		shadow:       shadow,
		backup:       backup,
		channel:      channel,
		gateway:      gateway,
		createdAt:    now,
		lastActiveAt: now,
	}
}

// HandlePatch applies the batch in order to the shadow and to the given
// canonical text, then diffs the shadow against the updated text to produce
// the outbound patch.
//
// The batch is all-or-nothing: if any patch fails, the error is returned and
// the session is left as it was before the call.
func (d *DiffSync) HandlePatch(patches []*Patch, text *ServerText) (*Round, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.handlePatch(d.shadow, patches, text)
}

// HandlePatchAt is HandlePatch for a client that also reports m, the number
// of outbound patches it applied. An empty batch of a client that missed the
// last outbound patch is rolled back as well.
func (d *DiffSync) HandlePatchAt(m Version, patches []*Patch, text *ServerText) (*Round, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	shadow := d.shadow
	switch ClassifyVersion(m, shadow, d.backup) {
	case Unrecoverable:
		return nil, ErrRollback
	case Rollback:
		shadow = shadow.Rollback(d.backup)
	}

	return d.handlePatch(shadow, patches, text)
}

// handlePatch runs a round starting from the given shadow, which is either
// the shadow of the session or its rollback to the backup.
func (d *DiffSync) handlePatch(shadow *ServerShadow, patches []*Patch, text *ServerText) (*Round, error) {
	backup := d.backup
	current := text
	round := &Round{
		Received:   len(patches),
		RolledBack: shadow != d.shadow,
	}

	for _, patch := range patches {
		class := Classify(patch, shadow, backup)
		if class == Unrecoverable {
			return nil, ErrRollback
		}

		// a resent patch rolls back too, so that the outbound patch is based
		// on the backup the client still holds.
		if class == Rollback {
			shadow = shadow.Rollback(backup)
			round.RolledBack = true
		}

		// the client resends edits until it learns they arrived.
		if patch.N() < shadow.N() {
			round.Skipped++
			continue
		}

		next, err := shadow.Apply(patch)
		if err != nil {
			return nil, err
		}
		shadow = next

		var dropped int
		current, dropped = current.Apply(patch)
		round.DroppedHunks += dropped
		round.Applied++
	}

	round.Outbound = shadow.Diff(current)
	round.Text = current
	round.TextChanged = current.Content() != text.Content()
	round.prevShadow, round.prevBackup = d.shadow, d.backup

	d.backup = shadow.Backup()
	d.shadow = shadow.Advance(current)
	d.lastActiveAt = time.Now()
	round.shadow = d.shadow

	return round, nil
}

// Revert restores the state the session had before the given round, as if
// the batch had never arrived. It is used when the result of the round could
// not be persisted. It reports false if the session moved past the round.
func (d *DiffSync) Revert(round *Round) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.shadow != round.shadow {
		return false
	}

	d.shadow, d.backup = round.prevShadow, round.prevBackup
	return true
}

// HandleAck retires the backup when the client confirms it received the last
// outbound patch, and returns the versions of the session.
func (d *DiffSync) HandleAck(ack *Ack) *Ack {
	d.mu.Lock()
	defer d.mu.Unlock()

	if ack.M().Equal(d.shadow.M()) {
		d.backup = d.shadow.Backup()
	}
	d.lastActiveAt = time.Now()

	return NewAck(ack.ID(), d.shadow.M(), d.shadow.N())
}

// Record saves the summary of the round through the gateway.
func (d *DiffSync) Record(ctx context.Context, round *Round) error {
	if d.gateway == nil {
		return nil
	}

	return d.gateway.SavePatch(ctx, &PatchSummary{
		Entity:       d.entity,
		Identifier:   d.identifier,
		Received:     round.Received,
		Applied:      round.Applied,
		Skipped:      round.Skipped,
		DroppedHunks: round.DroppedHunks,
		RolledBack:   round.RolledBack,
		Outbound:     round.Outbound,
		CreatedAt:    time.Now(),
	})
}

// Entity returns the entity of the session.
func (d *DiffSync) Entity() Entity {
	return d.entity
}

// Identifier returns the participant of the session.
func (d *DiffSync) Identifier() Identifier {
	return d.identifier
}

// Shadow returns the current shadow.
func (d *DiffSync) Shadow() *ServerShadow {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.shadow
}

// Backup returns the current backup.
func (d *DiffSync) Backup() *ServerBackup {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.backup
}

// Channel returns the channel of the session. It is nil for sessions driven
// by plain requests.
func (d *DiffSync) Channel() Channel {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.channel
}

// SetChannel binds the session to the given channel.
func (d *DiffSync) SetChannel(channel Channel) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.channel = channel
}

// UnsetChannel unbinds the session from the given channel. It reports false
// if the session is bound to another channel.
func (d *DiffSync) UnsetChannel(channel Channel) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.channel != channel {
		return false
	}
	d.channel = nil
	return true
}

// CreatedAt returns the time the session was created.
func (d *DiffSync) CreatedAt() time.Time {
	return d.createdAt
}

// LastActiveAt returns the time the session last handled a patch or an ack.
func (d *DiffSync) LastActiveAt() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.lastActiveAt
}
