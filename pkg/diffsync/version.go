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

import "strconv"

// Version is a monotonically increasing edit counter. The zero value is the
// initial version of a session.
type Version uint64

// Value returns the counter as an integer.
func (v Version) Value() uint64 {
	return uint64(v)
}

// Increment returns the next version.
func (v Version) Increment() Version {
	return v + 1
}

// Equal returns whether the two versions are the same.
func (v Version) Equal(other Version) bool {
	return v == other
}

// Compare returns -1, 0 or 1 when v is lower than, equal to or greater than other.
func (v Version) Compare(other Version) int {
	switch {
	case v < other:
		return -1
	case v > other:
		return 1
	default:
		return 0
	}
}

// String returns the decimal form of the version.
func (v Version) String() string {
	return strconv.FormatUint(uint64(v), 10)
}
