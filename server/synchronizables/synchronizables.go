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

// Package synchronizables provides the services that load and store the
// canonical text of each entity type.
package synchronizables

import (
	"context"
	"fmt"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/pkg/errors"
	"github.com/yorkie-team/diffsync/server/backend/database"
)

var (
	// ErrUnsupportedEntityType is returned when no service is registered for
	// the entity type.
	ErrUnsupportedEntityType = errors.InvalidArgument("unsupported entity type").WithCode("ErrUnsupportedEntityType")

	// ErrInvalidContent is returned when the merged text is not a valid
	// document of the entity type.
	ErrInvalidContent = errors.InvalidArgument("invalid content").WithCode("ErrInvalidContent")
)

// Synchronizable loads and stores the canonical text of entities of one type.
type Synchronizable interface {
	// Type returns the entity type served by this service.
	Type() diffsync.EntityType

	// Fetch returns the entity, creating it with empty content if missing.
	Fetch(ctx context.Context, entity diffsync.Entity) (*database.EntityInfo, error)

	// Persist stores the content of the entity if it is still at the given
	// revision.
	Persist(
		ctx context.Context,
		entity diffsync.Entity,
		content string,
		revision int64,
	) (*database.EntityInfo, error)
}

// Registry holds the services by entity type.
type Registry struct {
	services map[diffsync.EntityType]Synchronizable
}

// NewRegistry creates a registry with the services of all entity types.
func NewRegistry(db database.Database) *Registry {
	r := &Registry{services: make(map[diffsync.EntityType]Synchronizable)}
	r.Register(NewText(db))
	r.Register(NewJSON(db))
	r.Register(NewYAML(db))
	return r
}

// Register registers the service, replacing the one of the same type.
func (r *Registry) Register(s Synchronizable) {
	r.services[s.Type()] = s
}

// Get returns the service of the given entity type.
func (r *Registry) Get(entityType diffsync.EntityType) (Synchronizable, error) {
	s, ok := r.services[entityType]
	if !ok {
		return nil, fmt.Errorf("%s: %w", entityType, ErrUnsupportedEntityType)
	}

	return s, nil
}
