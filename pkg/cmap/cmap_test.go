/*
 * Copyright 2024 The Yorkie Authors. All rights reserved.
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

package cmap_test

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/diffsync/pkg/cmap"
)

func TestMap(t *testing.T) {
	t.Run("set and get", func(t *testing.T) {
		m := cmap.New[string, int]()

		m.Set("a", 1)
		v, exists := m.Get("a")
		assert.True(t, exists)
		assert.Equal(t, 1, v)

		v, exists = m.Get("b")
		assert.False(t, exists)
		assert.Equal(t, 0, v)
	})

	t.Run("upsert", func(t *testing.T) {
		m := cmap.New[string, int]()
		incr := func(val int, exists bool) int {
			if exists {
				return val + 1
			}
			return 1
		}

		assert.Equal(t, 1, m.Upsert("a", incr))
		assert.Equal(t, 2, m.Upsert("a", incr))
	})

	t.Run("get or create", func(t *testing.T) {
		m := cmap.New[string, int]()

		v, created, err := m.GetOrCreate("a", func() (int, error) { return 7, nil })
		assert.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, 7, v)

		v, created, err = m.GetOrCreate("a", func() (int, error) { return 8, nil })
		assert.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, 7, v)
	})

	t.Run("get or create with failing factory", func(t *testing.T) {
		m := cmap.New[string, int]()
		errBoom := errors.New("boom")

		_, created, err := m.GetOrCreate("a", func() (int, error) { return 0, errBoom })
		assert.ErrorIs(t, err, errBoom)
		assert.False(t, created)
		assert.False(t, m.Has("a"))
	})

	t.Run("delete and remove", func(t *testing.T) {
		m := cmap.New[string, int]()

		m.Set("a", 1)
		deleted := m.Delete("a", func(val int, exists bool) bool {
			assert.Equal(t, 1, val)
			return exists
		})
		assert.True(t, deleted)
		assert.False(t, m.Has("a"))

		m.Set("b", 2)
		assert.True(t, m.Remove("b"))
		assert.False(t, m.Remove("b"))
		assert.Equal(t, 0, m.Len())
	})
}

func TestConcurrentMap(t *testing.T) {
	t.Run("concurrent get or create converges on one value", func(t *testing.T) {
		m := cmap.New[string, *int]()
		const numRoutines = 100

		var calls int32
		results := make([]*int, numRoutines)

		var wg sync.WaitGroup
		wg.Add(numRoutines)
		for i := 0; i < numRoutines; i++ {
			go func(idx int) {
				defer wg.Done()
				v, _, err := m.GetOrCreate("key", func() (*int, error) {
					atomic.AddInt32(&calls, 1)
					n := idx
					return &n, nil
				})
				assert.NoError(t, err)
				results[idx] = v
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		for _, r := range results {
			assert.Same(t, results[0], r)
		}
	})

	t.Run("concurrent set and get", func(t *testing.T) {
		m := cmap.New[string, int]()
		const numRoutines = 50
		const numOperations = 100

		var wg sync.WaitGroup
		wg.Add(numRoutines)
		for i := 0; i < numRoutines; i++ {
			go func(routineID int) {
				defer wg.Done()
				for j := 0; j < numOperations; j++ {
					key := fmt.Sprintf("key-%d-%d", routineID, j)
					m.Set(key, j)
					v, ok := m.Get(key)
					assert.True(t, ok)
					assert.Equal(t, j, v)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, numRoutines*numOperations, m.Len())
		assert.Len(t, m.Keys(), numRoutines*numOperations)
		assert.Len(t, m.Values(), numRoutines*numOperations)
	})
}
