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

package diffsyncs

import (
	"context"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/server/backend/database"
)

// gateway records the rounds of sessions in the database.
type gateway struct {
	db database.Database
}

func newGateway(db database.Database) *gateway {
	return &gateway{db: db}
}

// SavePatch stores the summary of the round.
func (g *gateway) SavePatch(ctx context.Context, summary *diffsync.PatchSummary) error {
	return g.db.CreatePatchInfo(ctx, database.NewPatchInfo(summary))
}
