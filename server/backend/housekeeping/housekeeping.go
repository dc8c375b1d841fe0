/*
 * Copyright 2021 The Yorkie Authors. All rights reserved.
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

// Package housekeeping provides the housekeeping service. The housekeeping
// service is responsible for evicting sessions that have not been used for a
// long time and for pruning old round records.
package housekeeping

import (
	"context"
	"fmt"
	"time"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/server/backend/database"
	"github.com/yorkie-team/diffsync/server/backend/sync"
	"github.com/yorkie-team/diffsync/server/logging"
	"github.com/yorkie-team/diffsync/server/profiling/prometheus"
)

// Housekeeping is the housekeeping service. It periodically runs housekeeping
// tasks.
type Housekeeping struct {
	database database.Database
	sessions *diffsync.Provider
	lockers  *sync.LockerManager
	metrics  *prometheus.Metrics
	hostname string

	interval       time.Duration
	sessionTTL     time.Duration
	patchRetention time.Duration

	ctx        context.Context
	cancelFunc context.CancelFunc
}

// New creates a new housekeeping instance.
func New(
	conf *Config,
	hostname string,
	database database.Database,
	sessions *diffsync.Provider,
	lockers *sync.LockerManager,
	metrics *prometheus.Metrics,
) (*Housekeeping, error) {
	interval, err := conf.ParseInterval()
	if err != nil {
		return nil, err
	}
	sessionTTL, err := conf.ParseSessionTTL()
	if err != nil {
		return nil, err
	}
	patchRetention, err := conf.ParsePatchRetention()
	if err != nil {
		return nil, err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())

	return &Housekeeping{
		database: database,
		sessions: sessions,
		lockers:  lockers,
		metrics:  metrics,
		hostname: hostname,

		interval:       interval,
		sessionTTL:     sessionTTL,
		patchRetention: patchRetention,

		ctx:        ctx,
		cancelFunc: cancelFunc,
	}, nil
}

// Start starts the housekeeping service.
func (h *Housekeeping) Start() error {
	go h.run()
	return nil
}

// Stop stops the housekeeping service.
func (h *Housekeeping) Stop() error {
	h.cancelFunc()

	return nil
}

// run is the housekeeping loop.
func (h *Housekeeping) run() {
	for {
		select {
		case <-time.After(h.interval):
		case <-h.ctx.Done():
			return
		}

		if _, _, err := h.Sweep(h.ctx, time.Now()); err != nil {
			logging.From(h.ctx).Error(err)
		}
	}
}

// Sweep evicts the sessions idle since before now minus the session TTL and
// prunes round records older than the retention. It returns the number of
// evicted sessions and pruned records.
func (h *Housekeeping) Sweep(ctx context.Context, now time.Time) (int, int64, error) {
	start := time.Now()

	evicted := h.evictSessions(ctx, now.Add(-h.sessionTTL))

	var pruned int64
	if h.patchRetention > 0 {
		count, err := h.database.DeletePatchInfosBefore(ctx, now.Add(-h.patchRetention))
		if err != nil {
			return evicted, 0, fmt.Errorf("prune patch infos: %w", err)
		}
		pruned = count
	}

	h.metrics.AddHousekeepingEvicted(evicted)
	h.metrics.AddHousekeepingPruned(pruned)

	if evicted > 0 || pruned > 0 {
		logging.From(ctx).Infof(
			"HSKP: evicted %d sessions, pruned %d patches, %s",
			evicted,
			pruned,
			time.Since(start),
		)
	}

	return evicted, pruned, nil
}

// evictSessions removes the idle sessions. A session whose entity is in the
// middle of a round is left for the next sweep.
func (h *Housekeeping) evictSessions(ctx context.Context, idleSince time.Time) int {
	evicted := 0
	for _, entityType := range diffsync.EntityTypes {
		count := 0
		for _, session := range h.sessions.Sessions(entityType) {
			if !session.LastActiveAt().Before(idleSince) {
				continue
			}

			locker := h.lockers.Locker(sync.EntityKey(session.Entity()))
			if err := locker.TryLock(); err != nil {
				continue
			}

			urn := session.Identifier().URN()
			if h.sessions.RemoveIf(entityType, urn, func(s *diffsync.DiffSync) bool {
				return s.LastActiveAt().Before(idleSince)
			}) {
				count++
			}

			if err := locker.Unlock(); err != nil {
				logging.From(ctx).Error(err)
			}
		}

		if count > 0 {
			h.metrics.RemoveSessions(h.hostname, entityType, count)
		}
		evicted += count
	}

	return evicted
}
