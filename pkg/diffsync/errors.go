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
	goerrors "errors"

	"github.com/yorkie-team/diffsync/pkg/errors"
)

// CodeResyncRequired is the code reported to clients whose session can no
// longer be patched incrementally and must be resynchronized from scratch.
const CodeResyncRequired = "ErrResyncRequired"

var (
	// ErrRollback is returned when a patch is based on neither the shadow nor
	// the backup of the session.
	ErrRollback = errors.FailedPrecond("cannot rollback this far back").WithCode("ErrRollback")

	// ErrPatchFailed is returned when a patch does not match the shadow it is
	// based on.
	ErrPatchFailed = errors.FailedPrecond("patch does not apply to shadow").WithCode("ErrPatchFailed")

	// ErrInvalidPatchText is returned when the textual form of a patch cannot be parsed.
	ErrInvalidPatchText = errors.InvalidArgument("invalid patch text").WithCode("ErrInvalidPatchText")

	// ErrInvalidEntityType is returned when the entity type is unknown.
	ErrInvalidEntityType = errors.InvalidArgument("invalid entity type").WithCode("ErrInvalidEntityType")
)

// IsResyncRequired returns whether the error means that the session lost
// protocol sync and the client has to discard its shadow.
func IsResyncRequired(err error) bool {
	return goerrors.Is(err, ErrRollback) || goerrors.Is(err, ErrPatchFailed)
}
