/*
 * Copyright 2025 The Yorkie Authors. All rights reserved.
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

// Package limit throttles events per key and runs the last suppressed event of
// a key once its window has passed.
package limit

import (
	"container/list"
	"sync"
	"time"
)

// Limiter throttles events per key. The first event of a key is allowed and
// starts a window. Events inside the window are suppressed, and the callback of
// the last one runs when the key expires.
type Limiter[K comparable] struct {
	mu      sync.Mutex
	closeCh chan struct{}
	closed  bool

	expireInterval time.Duration
	window         time.Duration

	entries *list.List
	keys    map[K]*list.Element
}

type entry[K comparable] struct {
	key      K
	bucket   *Bucket
	expireAt time.Time
	trailing func()
}

// New creates a Limiter that allows one event per window for each key. Keys
// are checked for expiry every expireInterval.
func New[K comparable](expireInterval, window time.Duration) *Limiter[K] {
	l := &Limiter[K]{
		closeCh:        make(chan struct{}),
		expireInterval: expireInterval,
		window:         window,
		entries:        list.New(),
		keys:           make(map[K]*list.Element),
	}

	go l.processLoop()
	return l
}

// Allow reports whether the event of the given key may run now. When it may
// not, callback replaces the pending trailing callback of the key.
func (l *Limiter[K]) Allow(key K, callback func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if elem, ok := l.keys[key]; ok {
		e := elem.Value.(*entry[K])
		allowed := e.bucket.Allow(now)
		if allowed {
			e.trailing = nil
		} else {
			e.trailing = callback
		}

		l.entries.MoveToFront(elem)
		e.expireAt = now.Add(l.window)
		return allowed
	}

	l.keys[key] = l.entries.PushFront(&entry[K]{
		key:      key,
		bucket:   NewBucket(now, l.window),
		expireAt: now.Add(l.window),
	})
	return true
}

// Len returns the number of keys inside their window.
func (l *Limiter[K]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.keys)
}

func (l *Limiter[K]) processLoop() {
	ticker := time.NewTicker(l.expireInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.expire(time.Now())
		case <-l.closeCh:
			return
		}
	}
}

// expire drops the keys whose window has passed and runs their trailing
// callbacks outside the lock.
func (l *Limiter[K]) expire(now time.Time) {
	var expired []*entry[K]

	l.mu.Lock()
	for {
		elem := l.entries.Back()
		if elem == nil {
			break
		}

		e := elem.Value.(*entry[K])
		if now.Before(e.expireAt) {
			break
		}

		expired = append(expired, e)
		l.entries.Remove(elem)
		delete(l.keys, e.key)
	}
	l.mu.Unlock()

	for _, e := range expired {
		if e.trailing != nil {
			e.trailing()
		}
	}
}

// Close stops the expiry loop. Pending trailing callbacks are run so that the
// last event of every key is not lost.
func (l *Limiter[K]) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()

	close(l.closeCh)
	l.expire(time.Now().Add(l.window))
}
