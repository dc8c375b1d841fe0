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

package housekeeping_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/server/backend/database"
	"github.com/yorkie-team/diffsync/server/backend/database/memory"
	"github.com/yorkie-team/diffsync/server/backend/housekeeping"
	"github.com/yorkie-team/diffsync/server/backend/sync"
	"github.com/yorkie-team/diffsync/server/profiling/prometheus"
)

func TestHousekeeping(t *testing.T) {
	ctx := context.Background()
	entity := diffsync.NewEntity(diffsync.EntityTypeText, "notes")

	newHousekeeping := func(
		t *testing.T,
		db database.Database,
		sessions *diffsync.Provider,
		lockers *sync.LockerManager,
	) *housekeeping.Housekeeping {
		metrics, err := prometheus.NewMetrics()
		require.NoError(t, err)

		h, err := housekeeping.New(&housekeeping.Config{
			Interval:       "1m",
			SessionTTL:     "10m",
			PatchRetention: "1h",
		}, "localhost", db, sessions, lockers, metrics)
		require.NoError(t, err)
		return h
	}

	t.Run("evict idle sessions", func(t *testing.T) {
		db, err := memory.New()
		require.NoError(t, err)
		sessions := diffsync.NewProvider()

		id := diffsync.NewClientIdentifier("server-1", "client-1")
		_, _, err = sessions.GetOrCreate(entity.Type(), id.URN(), func() (*diffsync.DiffSync, error) {
			return diffsync.New(entity, id, "", nil, nil), nil
		})
		require.NoError(t, err)

		h := newHousekeeping(t, db, sessions, sync.New())

		evicted, _, err := h.Sweep(ctx, time.Now())
		require.NoError(t, err)
		assert.Equal(t, 0, evicted)
		assert.Equal(t, 1, sessions.Len())

		evicted, _, err = h.Sweep(ctx, time.Now().Add(11*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, 1, evicted)
		assert.Equal(t, 0, sessions.Len())
	})

	t.Run("sessions of an entity in a round are not evicted", func(t *testing.T) {
		db, err := memory.New()
		require.NoError(t, err)
		sessions := diffsync.NewProvider()
		lockers := sync.New()

		id := diffsync.NewClientIdentifier("server-1", "client-1")
		_, _, err = sessions.GetOrCreate(entity.Type(), id.URN(), func() (*diffsync.DiffSync, error) {
			return diffsync.New(entity, id, "", nil, nil), nil
		})
		require.NoError(t, err)

		h := newHousekeeping(t, db, sessions, lockers)

		locker := lockers.Locker(sync.EntityKey(entity))
		require.NoError(t, locker.Lock())
		evicted, _, err := h.Sweep(ctx, time.Now().Add(11*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, 0, evicted)
		assert.Equal(t, 1, sessions.Len())

		require.NoError(t, locker.Unlock())
		evicted, _, err = h.Sweep(ctx, time.Now().Add(11*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, 1, evicted)
		assert.Equal(t, 0, lockers.Len())
	})

	t.Run("prune old patch records", func(t *testing.T) {
		db, err := memory.New()
		require.NoError(t, err)

		summary := &diffsync.PatchSummary{
			Entity:     entity,
			Identifier: diffsync.NewClientIdentifier("server-1", "client-1"),
			Outbound:   diffsync.NewPatch("p1", "client-1", nil, 0, 0),
			CreatedAt:  time.Now(),
		}
		require.NoError(t, db.CreatePatchInfo(ctx, database.NewPatchInfo(summary)))

		h := newHousekeeping(t, db, diffsync.NewProvider(), sync.New())

		_, pruned, err := h.Sweep(ctx, time.Now())
		require.NoError(t, err)
		assert.Equal(t, int64(0), pruned)

		_, pruned, err = h.Sweep(ctx, time.Now().Add(2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), pruned)
	})
}
