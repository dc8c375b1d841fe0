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

// Package cmap provides a sharded concurrent map.
package cmap

import (
	"fmt"
	"hash/fnv"
	"sync"
)

// numShards is the number of shards.
const numShards = 32

type shard[K comparable, V any] struct {
	sync.RWMutex
	items map[K]V
}

// Map is a concurrent map split into shards so that writers of unrelated keys
// do not contend on the same lock.
type Map[K comparable, V any] struct {
	shards [numShards]shard[K, V]
}

// New creates a new Map.
func New[K comparable, V any]() *Map[K, V] {
	m := &Map[K, V]{}
	for i := range m.shards {
		m.shards[i].items = make(map[K]V)
	}
	return m
}

func (m *Map[K, V]) shardForKey(key K) *shard[K, V] {
	var idx uint32
	switch k := any(key).(type) {
	case string:
		idx = hashOf(k)
	case int:
		idx = uint32(k)
	case uint64:
		idx = uint32(k)
	default:
		idx = hashOf(fmt.Sprintf("%v", key))
	}

	return &m.shards[idx%numShards]
}

func hashOf(key string) uint32 {
	hash := fnv.New32a()
	if _, err := hash.Write([]byte(key)); err != nil {
		panic(fmt.Sprintf("hash of key: %s", err))
	}
	return hash.Sum32()
}

// Set sets a key-value pair.
func (m *Map[K, V]) Set(key K, value V) {
	s := m.shardForKey(key)

	s.Lock()
	defer s.Unlock()

	s.items[key] = value
}

// Get retrieves a value from the map.
func (m *Map[K, V]) Get(key K) (V, bool) {
	s := m.shardForKey(key)

	s.RLock()
	defer s.RUnlock()

	value, exists := s.items[key]
	return value, exists
}

// CreateFunc creates the value of a missing key.
type CreateFunc[V any] func() (V, error)

// GetOrCreate returns the value of the given key. If the key is missing, the
// value returned by create is stored and returned. The shard of the key stays
// locked while create runs, so concurrent callers of the same key observe a
// single value. Nothing is stored when create fails.
func (m *Map[K, V]) GetOrCreate(key K, create CreateFunc[V]) (V, bool, error) {
	s := m.shardForKey(key)

	s.RLock()
	value, exists := s.items[key]
	s.RUnlock()
	if exists {
		return value, false, nil
	}

	s.Lock()
	defer s.Unlock()

	if value, exists = s.items[key]; exists {
		return value, false, nil
	}

	value, err := create()
	if err != nil {
		var zero V
		return zero, false, err
	}
	s.items[key] = value
	return value, true, nil
}

// UpsertFunc is a function to insert or update a key-value pair.
type UpsertFunc[V any] func(value V, exists bool) V

// Upsert inserts or updates a key-value pair.
func (m *Map[K, V]) Upsert(key K, upsert UpsertFunc[V]) V {
	s := m.shardForKey(key)

	s.Lock()
	defer s.Unlock()

	v, exists := s.items[key]
	res := upsert(v, exists)
	s.items[key] = res
	return res
}

// DeleteFunc decides whether the value of the key should be removed.
type DeleteFunc[V any] func(value V, exists bool) bool

// Delete removes the value of the given key if deleteFunc agrees.
func (m *Map[K, V]) Delete(key K, deleteFunc DeleteFunc[V]) bool {
	s := m.shardForKey(key)

	s.Lock()
	defer s.Unlock()

	value, exists := s.items[key]
	del := deleteFunc(value, exists)
	if del && exists {
		delete(s.items, key)
	}

	return del && exists
}

// Remove removes the value of the given key and reports whether it existed.
func (m *Map[K, V]) Remove(key K) bool {
	return m.Delete(key, func(_ V, exists bool) bool {
		return exists
	})
}

// Has checks if a key exists in the map.
func (m *Map[K, V]) Has(key K) bool {
	s := m.shardForKey(key)

	s.RLock()
	defer s.RUnlock()

	_, exists := s.items[key]
	return exists
}

// Len returns the number of items in the map.
func (m *Map[K, V]) Len() int {
	count := 0
	for i := range m.shards {
		s := &m.shards[i]

		s.RLock()
		count += len(s.items)
		s.RUnlock()
	}

	return count
}

// Keys returns a slice of all keys in the map.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0)
	for i := range m.shards {
		s := &m.shards[i]

		s.RLock()
		for k := range s.items {
			keys = append(keys, k)
		}
		s.RUnlock()
	}

	return keys
}

// Values returns a slice of all values in the map.
func (m *Map[K, V]) Values() []V {
	values := make([]V, 0)
	for i := range m.shards {
		s := &m.shards[i]

		s.RLock()
		for _, v := range s.items {
			values = append(values, v)
		}
		s.RUnlock()
	}

	return values
}
