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

// Package background provides the background service. This service is used to
// manage the goroutines that outlive a request, such as change notifications.
package background

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/server/logging"
	"github.com/yorkie-team/diffsync/server/profiling/prometheus"
)

// Task describes the work of a goroutine: what it does and for which entity.
type Task struct {
	Type   string
	Entity diffsync.Entity
}

// String returns the name of the task used in logs.
func (t Task) String() string {
	return t.Type + "/" + t.Entity.Key()
}

type routineID int32

func (c *routineID) next() string {
	next := atomic.AddInt32((*int32)(c), 1)
	return "b" + strconv.Itoa(int(next))
}

// Background is the background service. It tracks the goroutines attached for
// entities so that closing the backend waits for them.
type Background struct {
	// closing is closed by backend close.
	closing chan struct{}

	// mu guards pending and blocks attaching while the service closes.
	mu      sync.RWMutex
	pending map[string]int

	wg sync.WaitGroup

	routineID routineID

	hostname string
	metrics  *prometheus.Metrics
}

// New creates a new background service.
func New(hostname string, metrics *prometheus.Metrics) *Background {
	return &Background{
		closing:  make(chan struct{}),
		pending:  make(map[string]int),
		hostname: hostname,
		metrics:  metrics,
	}
}

// AttachGoroutine runs f in a goroutine for the task. The context given to f
// carries a logger named after the routine. It reports false if the service
// is closed.
func (b *Background) AttachGoroutine(f func(ctx context.Context), task Task) bool {
	b.mu.Lock()
	select {
	case <-b.closing:
		b.mu.Unlock()
		logging.DefaultLogger().Warnf("background has closed; skipping %s", task)
		return false
	default:
	}

	b.wg.Add(1)
	b.pending[task.Entity.Key()]++
	b.mu.Unlock()

	routineLogger := logging.New(b.routineID.next(), logging.NewField("task", task.String()))
	b.metrics.AddBackgroundGoroutines(b.hostname, task.Type, task.Entity.Type())
	go func() {
		defer b.done(task)
		f(logging.With(context.Background(), routineLogger))
	}()

	return true
}

func (b *Background) done(task Task) {
	b.mu.Lock()
	key := task.Entity.Key()
	if b.pending[key]--; b.pending[key] == 0 {
		delete(b.pending, key)
	}
	b.mu.Unlock()

	b.metrics.RemoveBackgroundGoroutines(b.hostname, task.Type, task.Entity.Type())
	b.wg.Done()
}

// Pending returns the number of goroutines of the entity that are running.
func (b *Background) Pending(entity diffsync.Entity) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.pending[entity.Key()]
}

// Close closes the background service. This will wait for all goroutines to
// exit.
func (b *Background) Close() {
	b.mu.Lock()
	close(b.closing)
	b.mu.Unlock()

	b.wg.Wait()
}
