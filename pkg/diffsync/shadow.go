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

package diffsync

import (
	"fmt"

	"github.com/rs/xid"
)

// ServerShadow is the server's copy of the text of one client. N counts the
// edits received from the client, M counts the edits sent to it. A shadow is
// never modified; every operation returns a new one.
type ServerShadow struct {
	content    string
	n          Version
	m          Version
	identifier Identifier
}

// NewServerShadow creates a new ServerShadow.
func NewServerShadow(content string, n, m Version, identifier Identifier) *ServerShadow {
	return &ServerShadow{
		content:    content,
		n:          n,
		m:          m,
		identifier: identifier,
	}
}

// Content returns the text of the shadow.
func (s *ServerShadow) Content() string {
	return s.content
}

// N returns the number of edits received from the client.
func (s *ServerShadow) N() Version {
	return s.n
}

// M returns the number of edits sent to the client.
func (s *ServerShadow) M() Version {
	return s.m
}

// Identifier returns the participant the shadow belongs to.
func (s *ServerShadow) Identifier() Identifier {
	return s.identifier
}

// Diff returns the patch that turns the shadow into the target, tagged with
// the current versions of the shadow.
func (s *ServerShadow) Diff(target Patchable) *Patch {
	return MakePatch(
		xid.New().String(),
		s.identifier.ClientID(),
		s.content,
		target.Content(),
		s.m,
		s.n,
	)
}

// Apply applies the patch and returns a new shadow with N incremented. The
// patch has to match as a whole; ErrPatchFailed is returned otherwise.
func (s *ServerShadow) Apply(patch *Patch) (*ServerShadow, error) {
	content, failed := patch.apply(s.content)
	if failed > 0 {
		return nil, fmt.Errorf(
			"apply patch %s: %d of %d hunks: %w",
			patch.ID(), failed, len(patch.ops), ErrPatchFailed,
		)
	}

	return &ServerShadow{
		content:    content,
		n:          s.n.Increment(),
		m:          s.m,
		identifier: s.identifier,
	}, nil
}

// Advance returns a new shadow holding the target's content with M
// incremented. It is the state the client reaches after applying Diff(target).
func (s *ServerShadow) Advance(target Patchable) *ServerShadow {
	return &ServerShadow{
		content:    target.Content(),
		n:          s.n,
		m:          s.m.Increment(),
		identifier: s.identifier,
	}
}

// Backup returns a snapshot of the shadow.
func (s *ServerShadow) Backup() *ServerBackup {
	return NewServerBackup(s.content, s.m, s.identifier)
}

// Rollback returns a new shadow restored from the given backup. N is kept as
// the edits of the client were already counted.
func (s *ServerShadow) Rollback(backup *ServerBackup) *ServerShadow {
	return &ServerShadow{
		content:    backup.Content(),
		n:          s.n,
		m:          backup.M(),
		identifier: s.identifier,
	}
}
