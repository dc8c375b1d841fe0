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

package client

import (
	"fmt"
	"sync"

	"github.com/rs/xid"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
)

// Document is the local replica of an entity.
//
// The client keeps a shadow of the text the server believes it has, and the
// patches sent to the server that were not confirmed yet. A patch is resent
// on every sync until the server reports it received it.
type Document struct {
	mu sync.Mutex

	entity  diffsync.Entity
	content string
	shadow  string
	m       diffsync.Version
	n       diffsync.Version
	pending []*diffsync.Patch
}

// NewDocument creates a new Document of the given entity.
func NewDocument(entityType diffsync.EntityType, id string) *Document {
	return &Document{
		entity: diffsync.NewEntity(entityType, id),
	}
}

// Entity returns the entity of the document.
func (d *Document) Entity() diffsync.Entity {
	return d.entity
}

// Content returns the local text.
func (d *Document) Content() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.content
}

// Edit replaces the local text. The change is sent on the next sync.
func (d *Document) Edit(content string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.content = content
}

// Versions returns the versions of the shadow.
func (d *Document) Versions() (m diffsync.Version, n diffsync.Version) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.m, d.n
}

// PendingPatches returns the number of patches not confirmed by the server.
func (d *Document) PendingPatches() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.pending)
}

// reset starts over from the given text with both versions at zero. The
// unconfirmed patches and the edits not sent yet are replayed on top of it.
func (d *Document) reset(content string, clientID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rebased := content
	for _, p := range d.pending {
		rebased, _ = p.ApplyTo(rebased)
	}
	local := diffsync.MakePatch(xid.New().String(), clientID, d.shadow, d.content, 0, 0)
	rebased, _ = local.ApplyTo(rebased)

	d.content = rebased
	d.shadow = content
	d.m, d.n = 0, 0
	d.pending = nil
}

// pushPatches records the local edits as a patch and returns every patch
// the server has not confirmed, oldest first.
func (d *Document) pushPatches(clientID string) []*diffsync.Patch {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.content != d.shadow {
		patch := diffsync.MakePatch(xid.New().String(), clientID, d.shadow, d.content, d.m, d.n)
		d.pending = append(d.pending, patch)
		d.shadow = d.content
		d.n = d.n.Increment()
	}

	patches := make([]*diffsync.Patch, len(d.pending))
	copy(patches, d.pending)
	return patches
}

// applyOutbound applies the patch the server sent back. It drops the
// patches the server confirmed and returns false if the patch was already
// applied.
func (d *Document) applyOutbound(patch *diffsync.Patch) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	confirmed := 0
	for _, p := range d.pending {
		if p.N().Compare(patch.N()) >= 0 {
			break
		}
		confirmed++
	}
	d.pending = d.pending[confirmed:]

	if patch.M().Compare(d.m) < 0 {
		return false, nil
	}
	if !patch.M().Equal(d.m) {
		return false, fmt.Errorf("patch of %s at %s, shadow at %s: %w",
			d.entity, patch.M(), d.m, diffsync.ErrRollback)
	}

	shadow, failed := patch.ApplyTo(d.shadow)
	if failed > 0 {
		return false, fmt.Errorf("apply patch %s: %w", patch.ID(), diffsync.ErrPatchFailed)
	}
	content, _ := patch.ApplyTo(d.content)

	d.shadow = shadow
	d.content = content
	d.m = d.m.Increment()
	return true, nil
}
