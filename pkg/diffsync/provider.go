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
	"github.com/yorkie-team/diffsync/pkg/cmap"
)

// Factory creates the session of a missing key.
type Factory func() (*DiffSync, error)

// Provider is the registry of active sessions keyed by entity type and URN.
type Provider struct {
	sessions *cmap.Map[EntityType, *cmap.Map[string, *DiffSync]]
}

// NewProvider creates a new Provider.
func NewProvider() *Provider {
	return &Provider{
		sessions: cmap.New[EntityType, *cmap.Map[string, *DiffSync]](),
	}
}

func (p *Provider) sessionsOf(entityType EntityType) *cmap.Map[string, *DiffSync] {
	return p.sessions.Upsert(entityType, func(m *cmap.Map[string, *DiffSync], exists bool) *cmap.Map[string, *DiffSync] {
		if exists {
			return m
		}
		return cmap.New[string, *DiffSync]()
	})
}

// GetOrCreate returns the session of the given key, creating it with factory
// if it is missing. Concurrent callers of the same key get the same session.
// The boolean reports whether the session was created by this call.
func (p *Provider) GetOrCreate(entityType EntityType, urn string, factory Factory) (*DiffSync, bool, error) {
	return p.sessionsOf(entityType).GetOrCreate(urn, cmap.CreateFunc[*DiffSync](factory))
}

// Get returns the session of the given key.
func (p *Provider) Get(entityType EntityType, urn string) (*DiffSync, bool) {
	sessions, ok := p.sessions.Get(entityType)
	if !ok {
		return nil, false
	}
	return sessions.Get(urn)
}

// Remove tears down the session of the given key.
func (p *Provider) Remove(entityType EntityType, urn string) bool {
	sessions, ok := p.sessions.Get(entityType)
	if !ok {
		return false
	}
	return sessions.Remove(urn)
}

// RemoveIf tears down the session of the given key if cond agrees.
func (p *Provider) RemoveIf(entityType EntityType, urn string, cond func(*DiffSync) bool) bool {
	sessions, ok := p.sessions.Get(entityType)
	if !ok {
		return false
	}
	return sessions.Delete(urn, func(session *DiffSync, exists bool) bool {
		return exists && cond(session)
	})
}

// Sessions returns the sessions of the given entity type.
func (p *Provider) Sessions(entityType EntityType) []*DiffSync {
	sessions, ok := p.sessions.Get(entityType)
	if !ok {
		return nil
	}
	return sessions.Values()
}

// SessionsOf returns the sessions synchronizing the given entity.
func (p *Provider) SessionsOf(entity Entity) []*DiffSync {
	var result []*DiffSync
	for _, session := range p.Sessions(entity.Type()) {
		if session.Entity() == entity {
			result = append(result, session)
		}
	}
	return result
}

// Len returns the number of sessions.
func (p *Provider) Len() int {
	count := 0
	for _, sessions := range p.sessions.Values() {
		count += sessions.Len()
	}
	return count
}
