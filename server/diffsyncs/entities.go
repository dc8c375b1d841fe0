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

package diffsyncs

import (
	"context"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/server/backend"
	"github.com/yorkie-team/diffsync/server/backend/database"
)

// Snapshot returns the canonical text of the entity.
func Snapshot(
	ctx context.Context,
	be *backend.Backend,
	entity diffsync.Entity,
) (*database.EntityInfo, error) {
	if _, err := be.Synchronizables.Get(entity.Type()); err != nil {
		return nil, err
	}

	return be.DB.FindEntityInfo(ctx, entity)
}

// History returns the latest rounds of the entity, newest first. The limit is
// capped by the backend configuration.
func History(
	ctx context.Context,
	be *backend.Backend,
	entity diffsync.Entity,
	limit int,
) ([]*database.PatchInfo, error) {
	if limit <= 0 || limit > be.Config.MaxHistoryLimit {
		limit = be.Config.MaxHistoryLimit
	}

	return be.DB.FindPatchInfos(ctx, entity, limit)
}
