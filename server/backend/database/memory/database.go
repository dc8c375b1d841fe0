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

// Package memory implements the database interface using in-memory database.
package memory

import (
	"context"
	"fmt"
	gotime "time"

	"github.com/hashicorp/go-memdb"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/server/backend/database"
)

// maxIDKey sorts after every hex encoded ID.
const maxIDKey = "~"

// DB is an in-memory database for testing or temporarily.
type DB struct {
	db *memdb.MemDB
}

// New returns a new in-memory database.
func New() (*DB, error) {
	memDB, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("new memdb: %w", err)
	}

	return &DB{
		db: memDB,
	}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return nil
}

// FindOrCreateEntityInfo finds the entity or creates it with empty content.
func (d *DB) FindOrCreateEntityInfo(
	_ context.Context,
	entity diffsync.Entity,
) (*database.EntityInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tblEntities, "type_entity_id", string(entity.Type()), entity.ID())
	if err != nil {
		return nil, fmt.Errorf("find entity of %s: %w", entity, err)
	}
	if raw != nil {
		return raw.(*database.EntityInfo).DeepCopy(), nil
	}

	info := database.NewEntityInfo(entity)
	info.ID = newID()
	if err := txn.Insert(tblEntities, info); err != nil {
		return nil, fmt.Errorf("insert entity of %s: %w", entity, err)
	}
	txn.Commit()

	return info.DeepCopy(), nil
}

// FindEntityInfo finds the entity.
func (d *DB) FindEntityInfo(
	_ context.Context,
	entity diffsync.Entity,
) (*database.EntityInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tblEntities, "type_entity_id", string(entity.Type()), entity.ID())
	if err != nil {
		return nil, fmt.Errorf("find entity of %s: %w", entity, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", entity, database.ErrEntityNotFound)
	}

	return raw.(*database.EntityInfo).DeepCopy(), nil
}

// UpdateEntityContent replaces the content of the entity if its revision is
// still the given one.
func (d *DB) UpdateEntityContent(
	_ context.Context,
	entity diffsync.Entity,
	content string,
	revision int64,
) (*database.EntityInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tblEntities, "type_entity_id", string(entity.Type()), entity.ID())
	if err != nil {
		return nil, fmt.Errorf("find entity of %s: %w", entity, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", entity, database.ErrEntityNotFound)
	}

	info := raw.(*database.EntityInfo).DeepCopy()
	if info.Revision != revision {
		return nil, fmt.Errorf(
			"%s at revision %d, expected %d: %w",
			entity, info.Revision, revision, database.ErrConflictOnUpdate,
		)
	}

	info.Content = content
	info.Revision++
	info.UpdatedAt = gotime.Now()
	if err := txn.Insert(tblEntities, info); err != nil {
		return nil, fmt.Errorf("update entity of %s: %w", entity, err)
	}
	txn.Commit()

	return info.DeepCopy(), nil
}

// CreatePatchInfo records a sync round.
func (d *DB) CreatePatchInfo(_ context.Context, info *database.PatchInfo) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	clone := info.DeepCopy()
	clone.ID = newID()
	if err := txn.Insert(tblPatches, clone); err != nil {
		return fmt.Errorf("insert patch of %s/%s: %w", info.EntityType, info.EntityID, err)
	}
	txn.Commit()

	info.ID = clone.ID
	return nil
}

// FindPatchInfos returns the latest rounds of the entity, newest first.
func (d *DB) FindPatchInfos(
	_ context.Context,
	entity diffsync.Entity,
	limit int,
) ([]*database.PatchInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	iterator, err := txn.ReverseLowerBound(
		tblPatches,
		"type_entity_id_id",
		string(entity.Type()),
		entity.ID(),
		maxIDKey,
	)
	if err != nil {
		return nil, fmt.Errorf("find patches of %s: %w", entity, err)
	}

	var infos []*database.PatchInfo
	for raw := iterator.Next(); raw != nil; raw = iterator.Next() {
		info := raw.(*database.PatchInfo)
		if info.EntityType != string(entity.Type()) || info.EntityID != entity.ID() {
			break
		}

		infos = append(infos, info.DeepCopy())
		if limit > 0 && len(infos) >= limit {
			break
		}
	}

	return infos, nil
}

// DeletePatchInfosBefore deletes the rounds recorded before the given time.
func (d *DB) DeletePatchInfosBefore(_ context.Context, before gotime.Time) (int64, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	iterator, err := txn.Get(tblPatches, "id")
	if err != nil {
		return 0, fmt.Errorf("find patches: %w", err)
	}

	var stale []*database.PatchInfo
	for raw := iterator.Next(); raw != nil; raw = iterator.Next() {
		info := raw.(*database.PatchInfo)
		if info.CreatedAt.Before(before) {
			stale = append(stale, info)
		}
	}

	for _, info := range stale {
		if err := txn.Delete(tblPatches, info); err != nil {
			return 0, fmt.Errorf("delete patch %s: %w", info.ID, err)
		}
	}
	txn.Commit()

	return int64(len(stale)), nil
}

func newID() string {
	return bson.NewObjectID().Hex()
}
