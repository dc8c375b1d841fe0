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

package diffsync

import (
	"context"
	"time"
)

// PatchSummary describes one completed sync round of a session.
type PatchSummary struct {
	Entity       Entity
	Identifier   Identifier
	Received     int
	Applied      int
	Skipped      int
	DroppedHunks int
	RolledBack   bool
	Outbound     *Patch
	CreatedAt    time.Time
}

// Gateway records the rounds of sessions. The log is append-only.
type Gateway interface {
	SavePatch(ctx context.Context, summary *PatchSummary) error
}
