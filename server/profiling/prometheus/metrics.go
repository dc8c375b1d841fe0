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

// Package prometheus provides a Prometheus metrics exporter.
package prometheus

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/yorkie-team/diffsync/internal/version"
	"github.com/yorkie-team/diffsync/pkg/diffsync"
)

const (
	namespace       = "diffsync"
	entityTypeLabel = "entity_type"
	hostnameLabel   = "hostname"
	taskTypeLabel   = "task_type"
	frameTypeLabel  = "frame_type"
)

// Metrics manages the metric information that the server is trying to measure.
type Metrics struct {
	registry *prometheus.Registry

	serverVersion        *prometheus.GaugeVec
	serverHandledCounter *prometheus.CounterVec

	syncPatchResponseSeconds  prometheus.Histogram
	syncReceivedPatchesTotal  *prometheus.CounterVec
	syncAppliedPatchesTotal   *prometheus.CounterVec
	syncSkippedPatchesTotal   *prometheus.CounterVec
	syncDroppedHunksTotal     *prometheus.CounterVec
	syncRollbacksTotal        *prometheus.CounterVec
	syncResyncRequiredTotal   *prometheus.CounterVec
	syncPersistConflictsTotal *prometheus.CounterVec
	sessionsTotal             *prometheus.GaugeVec
	housekeepingEvictedTotal  prometheus.Counter
	housekeepingPrunedTotal   prometheus.Counter
	backgroundGoroutinesTotal *prometheus.GaugeVec
	channelConnectionsTotal   *prometheus.GaugeVec
	channelFramesTotal        *prometheus.CounterVec
}

// NewMetrics creates a new instance of Metrics.
func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("register process collector: %w", err)
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	metrics := &Metrics{
		registry: reg,
		serverVersion: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "version",
			Help:      "Which version is running. 1 for 'server_version' label with current version.",
		}, []string{"server_version"}),
		serverHandledCounter: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "server_handled_total",
			Help:      "Total number of requests completed on the server, regardless of success or failure.",
		}, []string{"rpc_route", "rpc_method", "rpc_code"}),
		syncPatchResponseSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "patch_response_seconds",
			Help:      "The response time of SyncPatch.",
		}),
		syncReceivedPatchesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "received_patches_total",
			Help:      "The total count of patches included in SyncPatch requests.",
		}, []string{entityTypeLabel, hostnameLabel}),
		syncAppliedPatchesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "applied_patches_total",
			Help:      "The total count of patches applied to shadows.",
		}, []string{entityTypeLabel, hostnameLabel}),
		syncSkippedPatchesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "skipped_patches_total",
			Help:      "The total count of resent patches that were already applied.",
		}, []string{entityTypeLabel, hostnameLabel}),
		syncDroppedHunksTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "dropped_hunks_total",
			Help:      "The total count of hunks that did not apply to the canonical text.",
		}, []string{entityTypeLabel, hostnameLabel}),
		syncRollbacksTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "rollbacks_total",
			Help:      "The total count of rounds that restored a shadow from its backup.",
		}, []string{entityTypeLabel, hostnameLabel}),
		syncResyncRequiredTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "resync_required_total",
			Help:      "The total count of rounds that failed and require the client to resynchronize.",
		}, []string{entityTypeLabel, hostnameLabel}),
		syncPersistConflictsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "persist_conflicts_total",
			Help:      "The total count of rounds reverted because the entity changed underneath.",
		}, []string{entityTypeLabel, hostnameLabel}),
		sessionsTotal: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "sessions_total",
			Help:      "The number of sessions held by the server.",
		}, []string{entityTypeLabel, hostnameLabel}),
		housekeepingEvictedTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "housekeeping",
			Name:      "evicted_sessions_total",
			Help:      "The total count of idle sessions evicted by housekeeping.",
		}),
		housekeepingPrunedTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "housekeeping",
			Name:      "pruned_patches_total",
			Help:      "The total count of patch records pruned by housekeeping.",
		}),
		backgroundGoroutinesTotal: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "background",
			Name:      "goroutines_total",
			Help:      "The total number of goroutines attached by a background task per entity type.",
		}, []string{taskTypeLabel, entityTypeLabel, hostnameLabel}),
		channelConnectionsTotal: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "channel",
			Name:      "connections_total",
			Help:      "The number of open websocket channels.",
		}, []string{hostnameLabel}),
		channelFramesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "channel",
			Name:      "frames_total",
			Help:      "The total count of frames received on websocket channels.",
		}, []string{hostnameLabel, frameTypeLabel}),
	}

	metrics.serverVersion.With(prometheus.Labels{
		"server_version": version.Version,
	}).Set(1)

	return metrics, nil
}

func labels(hostname string, entityType diffsync.EntityType) prometheus.Labels {
	return prometheus.Labels{
		entityTypeLabel: entityType.String(),
		hostnameLabel:   hostname,
	}
}

// ObserveSyncPatchResponseSeconds adds an observation for response time of
// SyncPatch.
func (m *Metrics) ObserveSyncPatchResponseSeconds(seconds float64) {
	m.syncPatchResponseSeconds.Observe(seconds)
}

// AddSyncRound adds the counts of a round handled by a session.
func (m *Metrics) AddSyncRound(hostname string, entityType diffsync.EntityType, round *diffsync.Round) {
	l := labels(hostname, entityType)
	m.syncReceivedPatchesTotal.With(l).Add(float64(round.Received))
	m.syncAppliedPatchesTotal.With(l).Add(float64(round.Applied))
	m.syncSkippedPatchesTotal.With(l).Add(float64(round.Skipped))
	m.syncDroppedHunksTotal.With(l).Add(float64(round.DroppedHunks))
	if round.RolledBack {
		m.syncRollbacksTotal.With(l).Inc()
	}
}

// AddSyncResyncRequired counts a round that requires the client to resynchronize.
func (m *Metrics) AddSyncResyncRequired(hostname string, entityType diffsync.EntityType) {
	m.syncResyncRequiredTotal.With(labels(hostname, entityType)).Inc()
}

// AddSyncPersistConflict counts a round reverted after a conflicting update.
func (m *Metrics) AddSyncPersistConflict(hostname string, entityType diffsync.EntityType) {
	m.syncPersistConflictsTotal.With(labels(hostname, entityType)).Inc()
}

// AddSessions adds the number of sessions of the given entity type.
func (m *Metrics) AddSessions(hostname string, entityType diffsync.EntityType) {
	m.sessionsTotal.With(labels(hostname, entityType)).Inc()
}

// RemoveSessions removes the number of sessions of the given entity type.
func (m *Metrics) RemoveSessions(hostname string, entityType diffsync.EntityType, count int) {
	m.sessionsTotal.With(labels(hostname, entityType)).Sub(float64(count))
}

// AddHousekeepingEvicted adds the number of sessions evicted by housekeeping.
func (m *Metrics) AddHousekeepingEvicted(count int) {
	m.housekeepingEvictedTotal.Add(float64(count))
}

// AddHousekeepingPruned adds the number of patch records pruned by housekeeping.
func (m *Metrics) AddHousekeepingPruned(count int64) {
	m.housekeepingPrunedTotal.Add(float64(count))
}

// AddServerHandledCounter adds the number of requests completed on the server.
func (m *Metrics) AddServerHandledCounter(route, method, code string) {
	m.serverHandledCounter.With(prometheus.Labels{
		"rpc_route":  route,
		"rpc_method": method,
		"rpc_code":   code,
	}).Inc()
}

// AddBackgroundGoroutines adds the number of goroutines attached by a
// background task for an entity of the given type.
func (m *Metrics) AddBackgroundGoroutines(hostname, taskType string, entityType diffsync.EntityType) {
	m.backgroundGoroutinesTotal.With(backgroundLabels(hostname, taskType, entityType)).Inc()
}

// RemoveBackgroundGoroutines removes the number of goroutines attached by a
// background task for an entity of the given type.
func (m *Metrics) RemoveBackgroundGoroutines(hostname, taskType string, entityType diffsync.EntityType) {
	m.backgroundGoroutinesTotal.With(backgroundLabels(hostname, taskType, entityType)).Dec()
}

func backgroundLabels(hostname, taskType string, entityType diffsync.EntityType) prometheus.Labels {
	l := labels(hostname, entityType)
	l[taskTypeLabel] = taskType
	return l
}

// AddChannelConnections adds the number of open websocket channels.
func (m *Metrics) AddChannelConnections(hostname string) {
	m.channelConnectionsTotal.With(prometheus.Labels{hostnameLabel: hostname}).Inc()
}

// RemoveChannelConnections removes the number of open websocket channels.
func (m *Metrics) RemoveChannelConnections(hostname string) {
	m.channelConnectionsTotal.With(prometheus.Labels{hostnameLabel: hostname}).Dec()
}

// AddChannelFrames counts a frame received on a websocket channel.
func (m *Metrics) AddChannelFrames(hostname, frameType string) {
	m.channelFramesTotal.With(prometheus.Labels{
		hostnameLabel:  hostname,
		frameTypeLabel: frameType,
	}).Inc()
}

// Registry returns the registry of this metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
