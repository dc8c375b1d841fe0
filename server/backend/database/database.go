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

// Package database provides the database interface of the diffsync backend.
package database

import (
	"context"
	gotime "time"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/pkg/errors"
)

var (
	// ErrEntityNotFound is returned when the entity could not be found.
	ErrEntityNotFound = errors.NotFound("entity not found").WithCode("ErrEntityNotFound")

	// ErrConflictOnUpdate is returned when the entity was updated by another
	// writer since it was read.
	ErrConflictOnUpdate = errors.Aborted("conflict on update").WithCode("ErrConflictOnUpdate")
)

// Database represents the storage of canonical texts and sync round records.
type Database interface {
	// Close all resources of this database.
	Close() error

	// FindOrCreateEntityInfo finds the entity or creates it with empty content.
	FindOrCreateEntityInfo(ctx context.Context, entity diffsync.Entity) (*EntityInfo, error)

	// FindEntityInfo finds the entity.
	FindEntityInfo(ctx context.Context, entity diffsync.Entity) (*EntityInfo, error)

	// UpdateEntityContent replaces the content of the entity if its revision is
	// still the given one, and returns the entity with the next revision.
	UpdateEntityContent(
		ctx context.Context,
		entity diffsync.Entity,
		content string,
		revision int64,
	) (*EntityInfo, error)

	// CreatePatchInfo records a sync round.
	CreatePatchInfo(ctx context.Context, info *PatchInfo) error

	// FindPatchInfos returns the latest rounds of the entity, newest first.
	FindPatchInfos(ctx context.Context, entity diffsync.Entity, limit int) ([]*PatchInfo, error)

	// DeletePatchInfosBefore deletes the rounds recorded before the given time
	// and returns the number of deleted rounds.
	DeletePatchInfosBefore(ctx context.Context, before gotime.Time) (int64, error)
}
