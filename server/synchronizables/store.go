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

package synchronizables

import (
	"context"
	"fmt"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/server/backend/database"
)

// store keeps the entities of one type in the database. A non-nil validate
// rejects content that is not a document of the type.
type store struct {
	typ      diffsync.EntityType
	db       database.Database
	validate func(content string) error
}

func (s *store) Type() diffsync.EntityType {
	return s.typ
}

func (s *store) Fetch(ctx context.Context, entity diffsync.Entity) (*database.EntityInfo, error) {
	if entity.Type() != s.typ {
		return nil, fmt.Errorf("fetch %s from %s store: %w", entity, s.typ, ErrUnsupportedEntityType)
	}

	info, err := s.db.FindOrCreateEntityInfo(ctx, entity)
	if err != nil {
		return nil, err
	}

	return info, nil
}

func (s *store) Persist(
	ctx context.Context,
	entity diffsync.Entity,
	content string,
	revision int64,
) (*database.EntityInfo, error) {
	if entity.Type() != s.typ {
		return nil, fmt.Errorf("persist %s to %s store: %w", entity, s.typ, ErrUnsupportedEntityType)
	}

	if s.validate != nil {
		if err := s.validate(content); err != nil {
			return nil, fmt.Errorf("persist %s: %w", entity, err)
		}
	}

	info, err := s.db.UpdateEntityContent(ctx, entity, content, revision)
	if err != nil {
		return nil, err
	}

	return info, nil
}
