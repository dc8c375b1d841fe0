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

// Package types provides the wire types exchanged between clients and the server.
package types

import (
	"github.com/yorkie-team/diffsync/internal/validation"
)

// Patch is the wire form of a patch. Diff is in the textual patch format.
type Patch struct {
	ID       string `json:"id" validate:"required,key"`
	ClientID string `json:"clientId" validate:"required,key"`
	M        uint64 `json:"m"`
	N        uint64 `json:"n"`
	Diff     string `json:"diff"`
}

// Ack is the wire form of an ack.
type Ack struct {
	ID string `json:"id" validate:"required,key"`
	M  uint64 `json:"m"`
	N  uint64 `json:"n"`
}

// SyncPatchRequest carries a batch of patches of a client.
type SyncPatchRequest struct {
	EntityType string `json:"entityType" validate:"required,oneof=text json yaml"`
	EntityID   string `json:"entityId" validate:"required,key"`

	ServerID string `json:"serverId,omitempty" validate:"omitempty,key"`
	ClientID string `json:"clientId" validate:"required,key"`

	// M is the number of outbound patches the client applied. It lets the
	// server detect a lost outbound patch even when the batch is empty.
	M *uint64 `json:"m,omitempty"`

	Patches []*Patch `json:"patches" validate:"dive,required"`
}

// Validate validates the SyncPatchRequest.
func (r *SyncPatchRequest) Validate() error {
	return validation.ValidateStruct(r)
}

// SyncPatchResponse carries the outbound patch of a round.
type SyncPatchResponse struct {
	Patch *Patch `json:"patch"`
}

// SyncAckRequest carries the ack of a client.
type SyncAckRequest struct {
	EntityType string `json:"entityType" validate:"required,oneof=text json yaml"`
	EntityID   string `json:"entityId" validate:"required,key"`

	ServerID string `json:"serverId,omitempty" validate:"omitempty,key"`
	ClientID string `json:"clientId" validate:"required,key"`
	Ack      *Ack   `json:"ack" validate:"required"`
}

// Validate validates the SyncAckRequest.
func (r *SyncAckRequest) Validate() error {
	return validation.ValidateStruct(r)
}

// SyncAckResponse carries the versions of the session after an ack.
type SyncAckResponse struct {
	Ack *Ack `json:"ack"`
}
