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

package sync_test

import (
	gosync "sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/server/backend/sync"
)

func TestLockerManager(t *testing.T) {
	entity := diffsync.NewEntity(diffsync.EntityTypeYAML, "app-config")

	t.Run("entity key", func(t *testing.T) {
		assert.Equal(t, "entity-yaml/app-config", sync.EntityKey(entity).String())
	})

	t.Run("try lock on a held key", func(t *testing.T) {
		manager := sync.New()
		l := manager.Locker(sync.EntityKey(entity))

		require.NoError(t, l.Lock())
		assert.ErrorIs(t, manager.Locker(sync.EntityKey(entity)).TryLock(), sync.ErrAlreadyLocked)

		other := diffsync.NewEntity(diffsync.EntityTypeYAML, "other")
		require.NoError(t, manager.Locker(sync.EntityKey(other)).TryLock())
		require.NoError(t, manager.Locker(sync.EntityKey(other)).Unlock())

		require.NoError(t, l.Unlock())
		assert.Equal(t, 0, manager.Len())
	})

	t.Run("read locks are shared", func(t *testing.T) {
		manager := sync.New()
		key := sync.EntityKey(entity)

		require.NoError(t, manager.Locker(key).RLock())
		require.NoError(t, manager.Locker(key).RLock())
		assert.ErrorIs(t, manager.Locker(key).TryLock(), sync.ErrAlreadyLocked)
		require.NoError(t, manager.Locker(key).RUnlock())
		require.NoError(t, manager.Locker(key).RUnlock())
		assert.Equal(t, 0, manager.Len())
	})

	t.Run("lock serializes writers", func(t *testing.T) {
		manager := sync.New()
		key := sync.EntityKey(entity)
		counter := 0

		var wg gosync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				l := manager.Locker(key)
				assert.NoError(t, l.Lock())
				counter++
				assert.NoError(t, l.Unlock())
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, counter)
	})
}
