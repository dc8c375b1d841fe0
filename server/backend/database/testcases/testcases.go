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

// Package testcases contains testcases shared by the database implementations.
package testcases

import (
	"context"
	"fmt"
	"sync"
	"testing"
	gotime "time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/server/backend/database"
)

// RunFindOrCreateEntityInfoTest runs the FindOrCreateEntityInfo tests for the given db.
func RunFindOrCreateEntityInfoTest(t *testing.T, db database.Database) {
	t.Run("find or create entity info test", func(t *testing.T) {
		ctx := context.Background()
		entity := diffsync.NewEntity(diffsync.EntityTypeText, t.Name())

		_, err := db.FindEntityInfo(ctx, entity)
		assert.ErrorIs(t, err, database.ErrEntityNotFound)

		created, err := db.FindOrCreateEntityInfo(ctx, entity)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "", created.Content)
		assert.Equal(t, int64(0), created.Revision)
		assert.Equal(t, entity, created.Entity())

		found, err := db.FindOrCreateEntityInfo(ctx, entity)
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)

		found, err = db.FindEntityInfo(ctx, entity)
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("same id of different types test", func(t *testing.T) {
		ctx := context.Background()
		text, err := db.FindOrCreateEntityInfo(ctx, diffsync.NewEntity(diffsync.EntityTypeText, "shared"))
		require.NoError(t, err)
		yaml, err := db.FindOrCreateEntityInfo(ctx, diffsync.NewEntity(diffsync.EntityTypeYAML, "shared"))
		require.NoError(t, err)

		assert.NotEqual(t, text.ID, yaml.ID)
	})
}

// RunUpdateEntityContentTest runs the UpdateEntityContent tests for the given db.
func RunUpdateEntityContentTest(t *testing.T, db database.Database) {
	t.Run("update entity content test", func(t *testing.T) {
		ctx := context.Background()
		entity := diffsync.NewEntity(diffsync.EntityTypeYAML, t.Name())

		info, err := db.FindOrCreateEntityInfo(ctx, entity)
		require.NoError(t, err)

		updated, err := db.UpdateEntityContent(ctx, entity, "a: 1", info.Revision)
		require.NoError(t, err)
		assert.Equal(t, "a: 1", updated.Content)
		assert.Equal(t, info.Revision+1, updated.Revision)

		// a writer still holding the old revision loses.
		_, err = db.UpdateEntityContent(ctx, entity, "a: 2", info.Revision)
		assert.ErrorIs(t, err, database.ErrConflictOnUpdate)

		found, err := db.FindEntityInfo(ctx, entity)
		require.NoError(t, err)
		assert.Equal(t, "a: 1", found.Content)
	})

	t.Run("update missing entity test", func(t *testing.T) {
		entity := diffsync.NewEntity(diffsync.EntityTypeYAML, "missing-"+t.Name())
		_, err := db.UpdateEntityContent(context.Background(), entity, "a", 0)
		assert.ErrorIs(t, err, database.ErrEntityNotFound)
	})

	t.Run("concurrent updates of the same revision test", func(t *testing.T) {
		ctx := context.Background()
		entity := diffsync.NewEntity(diffsync.EntityTypeText, t.Name())
		info, err := db.FindOrCreateEntityInfo(ctx, entity)
		require.NoError(t, err)

		const writers = 8
		errs := make([]error, writers)
		var wg sync.WaitGroup
		wg.Add(writers)
		for i := 0; i < writers; i++ {
			go func(idx int) {
				defer wg.Done()
				_, errs[idx] = db.UpdateEntityContent(ctx, entity, fmt.Sprintf("w%d", idx), info.Revision)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, database.ErrConflictOnUpdate)
		}
		assert.Equal(t, 1, succeeded)
	})
}

// RunPatchInfosTest runs the patch record tests for the given db.
func RunPatchInfosTest(t *testing.T, db database.Database) {
	t.Run("find patch infos test", func(t *testing.T) {
		ctx := context.Background()
		entity := diffsync.NewEntity(diffsync.EntityTypeJSON, t.Name())
		other := diffsync.NewEntity(diffsync.EntityTypeJSON, t.Name()+"-other")

		for i := 0; i < 5; i++ {
			require.NoError(t, db.CreatePatchInfo(ctx, &database.PatchInfo{
				EntityType: string(entity.Type()),
				EntityID:   entity.ID(),
				ClientID:   fmt.Sprintf("client-%d", i),
				CreatedAt:  gotime.Now(),
			}))
		}
		require.NoError(t, db.CreatePatchInfo(ctx, &database.PatchInfo{
			EntityType: string(other.Type()),
			EntityID:   other.ID(),
			CreatedAt:  gotime.Now(),
		}))

		infos, err := db.FindPatchInfos(ctx, entity, 3)
		require.NoError(t, err)
		require.Len(t, infos, 3)
		assert.Equal(t, "client-4", infos[0].ClientID)
		assert.Equal(t, "client-2", infos[2].ClientID)

		infos, err = db.FindPatchInfos(ctx, entity, 0)
		require.NoError(t, err)
		assert.Len(t, infos, 5)

		infos, err = db.FindPatchInfos(ctx, other, 0)
		require.NoError(t, err)
		assert.Len(t, infos, 1)
	})

	t.Run("delete patch infos before test", func(t *testing.T) {
		ctx := context.Background()
		entity := diffsync.NewEntity(diffsync.EntityTypeText, t.Name())
		now := gotime.Now()

		require.NoError(t, db.CreatePatchInfo(ctx, &database.PatchInfo{
			EntityType: string(entity.Type()),
			EntityID:   entity.ID(),
			ClientID:   "old",
			CreatedAt:  now.Add(-48 * gotime.Hour),
		}))
		require.NoError(t, db.CreatePatchInfo(ctx, &database.PatchInfo{
			EntityType: string(entity.Type()),
			EntityID:   entity.ID(),
			ClientID:   "new",
			CreatedAt:  now,
		}))

		deleted, err := db.DeletePatchInfosBefore(ctx, now.Add(-24*gotime.Hour))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, deleted, int64(1))

		infos, err := db.FindPatchInfos(ctx, entity, 0)
		require.NoError(t, err)
		require.Len(t, infos, 1)
		assert.Equal(t, "new", infos[0].ClientID)
	})
}
