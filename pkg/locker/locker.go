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
 *
 * This file was written with reference to moby/locker.
 *   https://github.com/moby/locker
 */

/*
Package locker provides named read-write locks.

A lock is identified by a name such as an entity key. The lock entry of a name
is created by the first caller and removed again by the last one that releases
it, so the table only holds names that are in use.
*/
package locker

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrNoSuchLock is returned when the requested lock does not exist.
var ErrNoSuchLock = errors.New("no such lock")

// Locker holds the named locks.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

// entry is a named lock with the number of goroutines that hold or wait for it.
type entry struct {
	mu    sync.RWMutex
	users int32
}

func (e *entry) acquire() {
	atomic.AddInt32(&e.users, 1)
}

func (e *entry) release() int32 {
	return atomic.AddInt32(&e.users, -1)
}

// New creates a new Locker.
func New() *Locker {
	return &Locker{
		locks: make(map[string]*entry),
	}
}

// join returns the entry of the name, registering the caller as a user.
func (l *Locker) join(name string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.locks[name]
	if !ok {
		e = &entry{}
		l.locks[name] = e
	}
	e.acquire()
	return e
}

// leave unregisters a user of the name and drops the entry when unused.
func (l *Locker) leave(name string, unlock func(e *entry)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.locks[name]
	if !ok {
		return ErrNoSuchLock
	}

	unlock(e)
	if e.release() == 0 {
		delete(l.locks, name)
	}
	return nil
}

// Lock acquires the write lock of the given name.
func (l *Locker) Lock(name string) {
	l.join(name).mu.Lock()
}

// TryLock acquires the write lock of the given name if nobody holds it.
func (l *Locker) TryLock(name string) bool {
	e := l.join(name)
	if e.mu.TryLock() {
		return true
	}

	// the entry was joined above and must be released even on failure.
	l.mu.Lock()
	if e.release() == 0 {
		delete(l.locks, name)
	}
	l.mu.Unlock()
	return false
}

// Unlock releases the write lock of the given name.
func (l *Locker) Unlock(name string) error {
	return l.leave(name, func(e *entry) { e.mu.Unlock() })
}

// RLock acquires the read lock of the given name.
func (l *Locker) RLock(name string) {
	l.join(name).mu.RLock()
}

// RUnlock releases the read lock of the given name.
func (l *Locker) RUnlock(name string) error {
	return l.leave(name, func(e *entry) { e.mu.RUnlock() })
}

// Len returns the number of names in use.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.locks)
}
