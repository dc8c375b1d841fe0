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

package database

import (
	"time"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
)

// EntityInfo is a structure representing the canonical text of an entity.
type EntityInfo struct {
	// ID is the unique ID of the entity.
	ID string `bson:"_id"`

	// EntityType is the type of the entity.
	EntityType string `bson:"entity_type"`

	// EntityID is the ID of the entity within its type.
	EntityID string `bson:"entity_id"`

	// Content is the canonical text.
	Content string `bson:"content"`

	// Revision is incremented by every update of the content.
	Revision int64 `bson:"revision"`

	// CreatedAt is the time when the entity is created.
	CreatedAt time.Time `bson:"created_at"`

	// UpdatedAt is the time when the content is updated.
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewEntityInfo creates a new EntityInfo of the given entity.
func NewEntityInfo(entity diffsync.Entity) *EntityInfo {
	now := time.Now()
	return &EntityInfo{
		EntityType: string(entity.Type()),
		EntityID:   entity.ID(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Entity returns the entity the info describes.
func (i *EntityInfo) Entity() diffsync.Entity {
	return diffsync.NewEntity(diffsync.EntityType(i.EntityType), i.EntityID)
}

// DeepCopy returns a copy of this EntityInfo.
func (i *EntityInfo) DeepCopy() *EntityInfo {
	if i == nil {
		return nil
	}

	clone := *i
	return &clone
}
