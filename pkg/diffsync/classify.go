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

// Classification is the relation of an incoming patch to the session's state.
type Classification int

const (
	// Direct means the patch is based on the current shadow.
	Direct Classification = iota

	// Rollback means the client missed the last outbound patch and is still
	// based on the backup.
	Rollback

	// Unrecoverable means the patch is based on neither the shadow nor the backup.
	Unrecoverable
)

// String returns the name of the classification.
func (c Classification) String() string {
	switch c {
	case Direct:
		return "direct"
	case Rollback:
		return "rollback"
	default:
		return "unrecoverable"
	}
}

// Classify compares the version the patch is based on with the shadow and the
// backup of the session.
func Classify(patch *Patch, shadow *ServerShadow, backup *ServerBackup) Classification {
	return ClassifyVersion(patch.M(), shadow, backup)
}

// ClassifyVersion compares m, the number of outbound patches a client applied,
// with the shadow and the backup of the session.
func ClassifyVersion(m Version, shadow *ServerShadow, backup *ServerBackup) Classification {
	switch {
	case m.Equal(shadow.M()):
		return Direct
	case m.Equal(backup.M()):
		return Rollback
	default:
		return Unrecoverable
	}
}
