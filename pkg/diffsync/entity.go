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

import "fmt"

// EntityType is the kind of a synchronizable entity.
type EntityType string

const (
	// EntityTypeText is plain text without structure.
	EntityTypeText EntityType = "text"

	// EntityTypeJSON is a JSON document.
	EntityTypeJSON EntityType = "json"

	// EntityTypeYAML is a YAML document.
	EntityTypeYAML EntityType = "yaml"
)

// EntityTypes is the list of all entity types.
var EntityTypes = []EntityType{EntityTypeText, EntityTypeJSON, EntityTypeYAML}

// String returns the string representation of the entity type.
func (t EntityType) String() string {
	return string(t)
}

// ParseEntityType parses the given string into an EntityType.
func ParseEntityType(s string) (EntityType, error) {
	for _, t := range EntityTypes {
		if string(t) == s {
			return t, nil
		}
	}

	return "", fmt.Errorf("%s: %w", s, ErrInvalidEntityType)
}

// Entity identifies the document being synchronized.
type Entity struct {
	typ EntityType
	id  string
}

// NewEntity creates a new Entity.
func NewEntity(typ EntityType, id string) Entity {
	return Entity{
		typ: typ,
		id:  id,
	}
}

// Type returns the type of the entity.
func (e Entity) Type() EntityType {
	return e.typ
}

// ID returns the ID of the entity.
func (e Entity) ID() string {
	return e.id
}

// Key returns the key of the entity, e.g. "yaml/app-config".
func (e Entity) Key() string {
	return fmt.Sprintf("%s/%s", e.typ, e.id)
}

// String returns the key of the entity.
func (e Entity) String() string {
	return e.Key()
}
