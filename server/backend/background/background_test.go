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

package background_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/server/backend/background"
	"github.com/yorkie-team/diffsync/server/profiling/prometheus"
)

func TestBackground(t *testing.T) {
	notes := diffsync.NewEntity(diffsync.EntityTypeText, "notes")
	settings := diffsync.NewEntity(diffsync.EntityTypeJSON, "settings")

	newBackground := func(t *testing.T) *background.Background {
		metrics, err := prometheus.NewMetrics()
		require.NoError(t, err)
		return background.New("localhost", metrics)
	}

	t.Run("close waits for attached goroutines", func(t *testing.T) {
		bg := newBackground(t)

		var done int32
		for i := 0; i < 10; i++ {
			assert.True(t, bg.AttachGoroutine(func(ctx context.Context) {
				assert.NotNil(t, ctx)
				atomic.AddInt32(&done, 1)
			}, background.Task{Type: "test", Entity: notes}))
		}
		bg.Close()

		assert.Equal(t, int32(10), atomic.LoadInt32(&done))
		assert.Equal(t, 0, bg.Pending(notes))
	})

	t.Run("pending goroutines are counted per entity", func(t *testing.T) {
		bg := newBackground(t)
		release := make(chan struct{})
		started := make(chan struct{}, 3)

		block := func(ctx context.Context) {
			started <- struct{}{}
			<-release
		}
		assert.True(t, bg.AttachGoroutine(block, background.Task{Type: "broadcast", Entity: notes}))
		assert.True(t, bg.AttachGoroutine(block, background.Task{Type: "broadcast", Entity: notes}))
		assert.True(t, bg.AttachGoroutine(block, background.Task{Type: "broadcast", Entity: settings}))

		assert.Equal(t, 2, bg.Pending(notes))
		assert.Equal(t, 1, bg.Pending(settings))

		for i := 0; i < 3; i++ {
			<-started
		}
		close(release)
		bg.Close()

		assert.Equal(t, 0, bg.Pending(notes))
		assert.Equal(t, 0, bg.Pending(settings))
	})

	t.Run("attach after close is skipped", func(t *testing.T) {
		bg := newBackground(t)
		bg.Close()

		assert.False(t, bg.AttachGoroutine(func(ctx context.Context) {
			t.Fatal("goroutine must not run after close")
		}, background.Task{Type: "test", Entity: notes}))
		assert.Equal(t, 0, bg.Pending(notes))
	})
}
