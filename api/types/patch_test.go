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

package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/diffsync/api/types"
)

func TestSyncPatchRequest(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		req := &types.SyncPatchRequest{
			EntityType: "yaml",
			EntityID:   "app-config",
			ClientID:   "client-1",
			Patches:    []*types.Patch{{ID: "p1", ClientID: "client-1"}},
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("invalid request", func(t *testing.T) {
		tests := []struct {
			name string
			req  *types.SyncPatchRequest
		}{
			{"unknown type", &types.SyncPatchRequest{EntityType: "xml", EntityID: "a", ClientID: "c"}},
			{"missing client", &types.SyncPatchRequest{EntityType: "text", EntityID: "a"}},
			{"bad entity id", &types.SyncPatchRequest{EntityType: "text", EntityID: "a b", ClientID: "c"}},
			{"nil patch", &types.SyncPatchRequest{
				EntityType: "text", EntityID: "a", ClientID: "c", Patches: []*types.Patch{nil},
			}},
			{"patch without id", &types.SyncPatchRequest{
				EntityType: "text", EntityID: "a", ClientID: "c", Patches: []*types.Patch{{ClientID: "c"}},
			}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Error(t, tt.req.Validate())
			})
		}
	})
}

func TestSyncAckRequest(t *testing.T) {
	req := &types.SyncAckRequest{EntityType: "json", EntityID: "a", ClientID: "c"}
	assert.Error(t, req.Validate())

	req.Ack = &types.Ack{ID: "a1", M: 1, N: 1}
	assert.NoError(t, req.Validate())
}

func TestEntityRequests(t *testing.T) {
	assert.NoError(t, (&types.SubscribeRequest{EntityType: "text", EntityID: "a", ClientID: "c"}).Validate())
	assert.Error(t, (&types.SubscribeRequest{EntityType: "text", EntityID: "a"}).Validate())

	assert.NoError(t, (&types.UnsubscribeRequest{EntityType: "json", EntityID: "a", ClientID: "c"}).Validate())
	assert.Error(t, (&types.UnsubscribeRequest{EntityType: "json", EntityID: "a", ClientID: "c", ServerID: "s 1"}).Validate())

	assert.NoError(t, (&types.SnapshotRequest{EntityType: "yaml", EntityID: "a"}).Validate())
	assert.Error(t, (&types.SnapshotRequest{EntityType: "binary", EntityID: "a"}).Validate())

	assert.NoError(t, (&types.HistoryRequest{EntityType: "text", EntityID: "a", Limit: 3}).Validate())
	assert.Error(t, (&types.HistoryRequest{EntityType: "text", EntityID: "a", Limit: -1}).Validate())
}
