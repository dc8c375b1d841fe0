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

package database

import (
	"time"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
)

// PatchInfo is a record of one sync round of a session.
type PatchInfo struct {
	ID           string    `bson:"_id"`
	EntityType   string    `bson:"entity_type"`
	EntityID     string    `bson:"entity_id"`
	SessionURN   string    `bson:"session_urn"`
	ClientID     string    `bson:"client_id"`
	Received     int       `bson:"received"`
	Applied      int       `bson:"applied"`
	Skipped      int       `bson:"skipped"`
	DroppedHunks int       `bson:"dropped_hunks"`
	RolledBack   bool      `bson:"rolled_back"`
	OutboundID   string    `bson:"outbound_id"`
	OutboundM    int64     `bson:"outbound_m"`
	OutboundN    int64     `bson:"outbound_n"`
	OutboundDiff string    `bson:"outbound_diff"`
	CreatedAt    time.Time `bson:"created_at"`
}

// NewPatchInfo creates a new PatchInfo from the summary of a round.
func NewPatchInfo(summary *diffsync.PatchSummary) *PatchInfo {
	info := &PatchInfo{
		EntityType:   string(summary.Entity.Type()),
		EntityID:     summary.Entity.ID(),
		SessionURN:   summary.Identifier.URN(),
		ClientID:     summary.Identifier.ClientID(),
		Received:     summary.Received,
		Applied:      summary.Applied,
		Skipped:      summary.Skipped,
		DroppedHunks: summary.DroppedHunks,
		RolledBack:   summary.RolledBack,
		CreatedAt:    summary.CreatedAt,
	}

	if outbound := summary.Outbound; outbound != nil {
		info.OutboundID = outbound.ID()
		info.OutboundM = int64(outbound.M())
		info.OutboundN = int64(outbound.N())
		info.OutboundDiff = outbound.Text()
	}

	return info
}

// DeepCopy returns a copy of this PatchInfo.
func (i *PatchInfo) DeepCopy() *PatchInfo {
	if i == nil {
		return nil
	}

	clone := *i
	return &clone
}
