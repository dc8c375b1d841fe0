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

package types

import (
	"time"

	"github.com/yorkie-team/diffsync/internal/validation"
)

// Snapshot is the canonical text of an entity, used for a full resync.
type Snapshot struct {
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	Content    string    `json:"content"`
	Revision   int64     `json:"revision"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SubscribeRequest starts a new session of a client on an entity.
type SubscribeRequest struct {
	EntityType string `json:"entityType" validate:"required,oneof=text json yaml"`
	EntityID   string `json:"entityId" validate:"required,key"`
	ClientID   string `json:"clientId" validate:"required,key"`
}

// Validate validates the SubscribeRequest.
func (r *SubscribeRequest) Validate() error {
	return validation.ValidateStruct(r)
}

// SubscribeResponse carries the text a new session starts from. Both
// versions of the session are zero.
type SubscribeResponse struct {
	ServerID string    `json:"serverId"`
	Snapshot *Snapshot `json:"snapshot"`
}

// UnsubscribeRequest tears down the session of a client.
type UnsubscribeRequest struct {
	EntityType string `json:"entityType" validate:"required,oneof=text json yaml"`
	EntityID   string `json:"entityId" validate:"required,key"`
	ServerID   string `json:"serverId,omitempty" validate:"omitempty,key"`
	ClientID   string `json:"clientId" validate:"required,key"`
}

// Validate validates the UnsubscribeRequest.
func (r *UnsubscribeRequest) Validate() error {
	return validation.ValidateStruct(r)
}

// UnsubscribeResponse is the empty response of Unsubscribe.
type UnsubscribeResponse struct{}

// SnapshotRequest asks for the canonical text of an entity.
type SnapshotRequest struct {
	EntityType string `json:"entityType" validate:"required,oneof=text json yaml"`
	EntityID   string `json:"entityId" validate:"required,key"`
}

// Validate validates the SnapshotRequest.
func (r *SnapshotRequest) Validate() error {
	return validation.ValidateStruct(r)
}

// SnapshotResponse carries the canonical text of an entity.
type SnapshotResponse struct {
	Snapshot *Snapshot `json:"snapshot"`
}

// HistoryRequest asks for the latest rounds of an entity. A zero limit asks
// for the default number of rounds.
type HistoryRequest struct {
	EntityType string `json:"entityType" validate:"required,oneof=text json yaml"`
	EntityID   string `json:"entityId" validate:"required,key"`
	Limit      int    `json:"limit,omitempty" validate:"min=0"`
}

// Validate validates the HistoryRequest.
func (r *HistoryRequest) Validate() error {
	return validation.ValidateStruct(r)
}

// RoundSummary describes a completed sync round.
type RoundSummary struct {
	ID           string    `json:"id"`
	ClientID     string    `json:"clientId"`
	Received     int       `json:"received"`
	Applied      int       `json:"applied"`
	Skipped      int       `json:"skipped"`
	DroppedHunks int       `json:"droppedHunks"`
	RolledBack   bool      `json:"rolledBack"`
	M            uint64    `json:"m"`
	N            uint64    `json:"n"`
	Diff         string    `json:"diff"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HistoryResponse lists the latest rounds of an entity, newest first.
type HistoryResponse struct {
	Rounds []*RoundSummary `json:"rounds"`
}

// ChangedEvent tells a client that the canonical text of an entity changed
// and that it should sync.
type ChangedEvent struct {
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
	ClientID   string `json:"clientId"`
}

// ErrorResponse is the body of error frames sent on websocket connections.
type ErrorResponse struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Details  []string          `json:"details,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
