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

// Package converter converts the wire types into the types of the sync engine
// and back.
package converter

import (
	"github.com/yorkie-team/diffsync/api/types"
	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/server/backend/database"
)

// FromPatch converts the given wire patch.
func FromPatch(patch *types.Patch) (*diffsync.Patch, error) {
	return diffsync.ParsePatch(
		patch.ID,
		patch.ClientID,
		patch.Diff,
		diffsync.Version(patch.M),
		diffsync.Version(patch.N),
	)
}

// FromPatches converts the given wire patches keeping their order.
func FromPatches(patches []*types.Patch) ([]*diffsync.Patch, error) {
	result := make([]*diffsync.Patch, 0, len(patches))
	for _, patch := range patches {
		p, err := FromPatch(patch)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, nil
}

// ToPatch converts the given patch into its wire form.
func ToPatch(patch *diffsync.Patch) *types.Patch {
	return &types.Patch{
		ID:       patch.ID(),
		ClientID: patch.ClientID(),
		M:        patch.M().Value(),
		N:        patch.N().Value(),
		Diff:     patch.Text(),
	}
}

// ToPatches converts the given patches into their wire form.
func ToPatches(patches []*diffsync.Patch) []*types.Patch {
	result := make([]*types.Patch, 0, len(patches))
	for _, patch := range patches {
		result = append(result, ToPatch(patch))
	}
	return result
}

// FromAck converts the given wire ack.
func FromAck(ack *types.Ack) *diffsync.Ack {
	return diffsync.NewAck(ack.ID, diffsync.Version(ack.M), diffsync.Version(ack.N))
}

// ToAck converts the given ack into its wire form.
func ToAck(ack *diffsync.Ack) *types.Ack {
	return &types.Ack{
		ID: ack.ID(),
		M:  ack.M().Value(),
		N:  ack.N().Value(),
	}
}

// FromEntity converts the given entity type and ID.
func FromEntity(entityType, entityID string) (diffsync.Entity, error) {
	typ, err := diffsync.ParseEntityType(entityType)
	if err != nil {
		return diffsync.Entity{}, err
	}
	return diffsync.NewEntity(typ, entityID), nil
}

// ToSnapshot converts the given entity info into a snapshot.
func ToSnapshot(info *database.EntityInfo) *types.Snapshot {
	return &types.Snapshot{
		EntityType: info.EntityType,
		EntityID:   info.EntityID,
		Content:    info.Content,
		Revision:   info.Revision,
		UpdatedAt:  info.UpdatedAt,
	}
}

// ToRoundSummaries converts the given patch infos into round summaries.
func ToRoundSummaries(infos []*database.PatchInfo) []*types.RoundSummary {
	summaries := make([]*types.RoundSummary, 0, len(infos))
	for _, info := range infos {
		summaries = append(summaries, &types.RoundSummary{
			ID:           info.ID,
			ClientID:     info.ClientID,
			Received:     info.Received,
			Applied:      info.Applied,
			Skipped:      info.Skipped,
			DroppedHunks: info.DroppedHunks,
			RolledBack:   info.RolledBack,
			M:            uint64(info.OutboundM),
			N:            uint64(info.OutboundN),
			Diff:         info.OutboundDiff,
			CreatedAt:    info.CreatedAt,
		})
	}
	return summaries
}
