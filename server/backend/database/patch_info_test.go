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

package database_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/server/backend/database"
)

func TestPatchInfo(t *testing.T) {
	entity := diffsync.NewEntity(diffsync.EntityTypeYAML, "app")
	identifier := diffsync.NewClientIdentifier("server-1", "client-1")
	outbound := diffsync.MakePatch("o1", "client-1", "a: 1", "a: 2", 3, 4)
	now := time.Now()

	info := database.NewPatchInfo(&diffsync.PatchSummary{
		Entity:     entity,
		Identifier: identifier,
		Received:   2,
		Applied:    1,
		Skipped:    1,
		RolledBack: true,
		Outbound:   outbound,
		CreatedAt:  now,
	})

	assert.Equal(t, "yaml", info.EntityType)
	assert.Equal(t, "app", info.EntityID)
	assert.Equal(t, identifier.URN(), info.SessionURN)
	assert.Equal(t, "client-1", info.ClientID)
	assert.Equal(t, int64(3), info.OutboundM)
	assert.Equal(t, int64(4), info.OutboundN)
	assert.Equal(t, outbound.Text(), info.OutboundDiff)
	assert.True(t, info.RolledBack)

	clone := info.DeepCopy()
	clone.Applied = 9
	assert.Equal(t, 1, info.Applied)
}

func TestEntityInfo(t *testing.T) {
	entity := diffsync.NewEntity(diffsync.EntityTypeJSON, "settings")
	info := database.NewEntityInfo(entity)

	assert.Equal(t, entity, info.Entity())
	assert.Equal(t, int64(0), info.Revision)
	assert.Nil(t, (*database.EntityInfo)(nil).DeepCopy())
}
