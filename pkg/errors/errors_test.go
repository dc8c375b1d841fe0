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

package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/diffsync/pkg/errors"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		code   errors.StatusCode
		name   string
		client bool
	}{
		{errors.ErrCodeInvalidArgument, "invalid_argument", true},
		{errors.ErrCodeNotFound, "not_found", true},
		{errors.ErrCodeAlreadyExists, "already_exists", true},
		{errors.ErrCodeFailedPrecondition, "failed_precondition", true},
		{errors.ErrCodeAborted, "aborted", true},
		{errors.ErrCodeInternal, "internal", false},
		{errors.ErrCodeUnavailable, "unavailable", false},
		{errors.StatusCode(999), "code_999", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.code.String())
			assert.Equal(t, tt.client, tt.code.IsClientError())
		})
	}
}

func TestStatusError(t *testing.T) {
	errRollback := errors.FailedPrecond("cannot rollback this far back").WithCode("ErrRollback")

	t.Run("status and code survive wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("sync patch: %w", errRollback)

		assert.ErrorIs(t, wrapped, errRollback)
		assert.Equal(t, errors.ErrCodeFailedPrecondition, errors.StatusOf(wrapped))
		assert.Equal(t, "ErrRollback", errors.CodeOf(wrapped))
		assert.True(t, errors.IsStatus(wrapped, errors.ErrCodeFailedPrecondition))
		assert.True(t, errors.IsClientError(wrapped))
		assert.False(t, errors.IsServerError(wrapped))
	})

	t.Run("plain errors carry no status", func(t *testing.T) {
		err := fmt.Errorf("plain")
		assert.Equal(t, errors.StatusCode(0), errors.StatusOf(err))
		assert.Equal(t, "", errors.CodeOf(err))
		assert.Equal(t, errors.StatusCode(0), errors.StatusOf(nil))
	})

	t.Run("metadata keeps the message and the chain", func(t *testing.T) {
		err := errors.WithMetadata(errRollback, map[string]string{"entity": "text/a"})
		err = errors.WithMetadata(err, map[string]string{"shadow.m": "2"})

		assert.Equal(t, "cannot rollback this far back", err.Error())
		assert.ErrorIs(t, err, errRollback)
		assert.Equal(t, "ErrRollback", errors.CodeOf(err))
		assert.Equal(t, map[string]string{"entity": "text/a", "shadow.m": "2"}, errors.Metadata(err))
		assert.Nil(t, errors.Metadata(errRollback))
		assert.Nil(t, errors.WithMetadata(nil, map[string]string{"a": "b"}))
	})
}
