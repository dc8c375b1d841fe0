/*
 * Copyright 2022 The Yorkie Authors. All rights reserved.
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

package locker

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocker(t *testing.T) {
	t.Run("lock blocks a second writer", func(t *testing.T) {
		l := New()
		l.Lock("text/a")

		done := make(chan struct{})
		go func() {
			l.Lock("text/a")
			close(done)
		}()

		select {
		case <-done:
			t.Fatal("lock should not have returned while it was still held")
		case <-time.After(50 * time.Millisecond):
		}

		assert.NoError(t, l.Unlock("text/a"))

		select {
		case <-done:
		case <-time.After(3 * time.Second):
			t.Fatal("lock should have completed")
		}
		assert.NoError(t, l.Unlock("text/a"))
		assert.Equal(t, 0, l.Len())
	})

	t.Run("unlock unknown name", func(t *testing.T) {
		l := New()
		assert.ErrorIs(t, l.Unlock("missing"), ErrNoSuchLock)
		assert.ErrorIs(t, l.RUnlock("missing"), ErrNoSuchLock)
	})

	t.Run("try lock", func(t *testing.T) {
		l := New()

		for i := 0; i < 2; i++ {
			assert.True(t, l.TryLock("text/a"))
			assert.False(t, l.TryLock("text/a"))
			assert.NoError(t, l.Unlock("text/a"))
		}
		assert.Equal(t, 0, l.Len())
	})

	t.Run("readers share the lock", func(t *testing.T) {
		l := New()
		l.RLock("text/a")
		l.RLock("text/a")
		assert.False(t, l.TryLock("text/a"))

		assert.NoError(t, l.RUnlock("text/a"))
		assert.NoError(t, l.RUnlock("text/a"))
		assert.True(t, l.TryLock("text/a"))
		assert.NoError(t, l.Unlock("text/a"))
	})

	t.Run("concurrent lock and unlock", func(t *testing.T) {
		l := New()

		var wg sync.WaitGroup
		for i := 0; i <= 1000; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				l.Lock("text/a")
				assert.NoError(t, l.Unlock("text/a"))
			}()
		}
		wg.Wait()

		assert.Equal(t, 0, l.Len())
	})
}
