/*
 * Copyright 2024 The Yorkie Authors. All rights reserved.
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


package connecthelper_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	"github.com/yorkie-team/diffsync/api/converter"
	"github.com/yorkie-team/diffsync/api/types"
	"github.com/yorkie-team/diffsync/pkg/diffsync"
	pkgerrors "github.com/yorkie-team/diffsync/pkg/errors"
	"github.com/yorkie-team/diffsync/server/backend/database"
	"github.com/yorkie-team/diffsync/server/rpc/connecthelper"
)

func TestToStatusError(t *testing.T) {
	t.Run("resync faults", func(t *testing.T) {
		for _, fault := range []error{diffsync.ErrRollback, diffsync.ErrPatchFailed} {
			err := connecthelper.ToStatusError(pkgerrors.WithMetadata(
				fmt.Errorf("sync: %w", fault),
				map[string]string{"shadow_m": "3"},
			))

			assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))
			assert.Equal(t, diffsync.CodeResyncRequired, converter.ErrorCodeOf(err))

			metadata := converter.ErrorMetadataOf(err)
			assert.Equal(t, "3", metadata["shadow_m"])
			assert.Equal(t, pkgerrors.CodeOf(fault), metadata["reason"])
			assert.NotContains(t, metadata, "code")
		}
	})

	t.Run("validation errors", func(t *testing.T) {
		err := connecthelper.ToStatusError((&types.SyncAckRequest{}).Validate())
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
		assert.Equal(t, "ErrInvalidArgument", converter.ErrorCodeOf(err))

		var connectErr *connect.Error
		require.True(t, errors.As(err, &connectErr))
		var violations []*errdetails.BadRequest_FieldViolation
		for _, detail := range connectErr.Details() {
			msg, valueErr := detail.Value()
			require.NoError(t, valueErr)
			if badRequest, ok := msg.(*errdetails.BadRequest); ok {
				violations = badRequest.GetFieldViolations()
			}
		}
		assert.NotEmpty(t, violations)
	})

	t.Run("status errors", func(t *testing.T) {
		tests := []struct {
			err  error
			code connect.Code
			name string
		}{
			{database.ErrEntityNotFound, connect.CodeNotFound, "ErrEntityNotFound"},
			{database.ErrConflictOnUpdate, connect.CodeAborted, "ErrConflictOnUpdate"},
			{diffsync.ErrInvalidPatchText, connect.CodeInvalidArgument, "ErrInvalidPatchText"},
			{pkgerrors.Unavailable("closing"), connect.CodeUnavailable, "unavailable"},
		}
		for _, tc := range tests {
			err := connecthelper.ToStatusError(fmt.Errorf("wrapped: %w", tc.err))
			assert.Equal(t, tc.code, connect.CodeOf(err))
			assert.Equal(t, tc.name, converter.ErrorCodeOf(err))
			assert.Equal(t, tc.code.String(), connecthelper.CodeOf(err))
		}
	})

	t.Run("unknown errors hide their message", func(t *testing.T) {
		err := connecthelper.ToStatusError(errors.New("db password is hunter2"))
		assert.Equal(t, connect.CodeInternal, connect.CodeOf(err))
		assert.Equal(t, "ErrInternal", converter.ErrorCodeOf(err))
		assert.NotContains(t, err.Error(), "hunter2")
	})

	t.Run("context errors", func(t *testing.T) {
		assert.Equal(t, connect.CodeCanceled, connect.CodeOf(connecthelper.ToStatusError(context.Canceled)))
		assert.Equal(t, connect.CodeDeadlineExceeded,
			connect.CodeOf(connecthelper.ToStatusError(context.DeadlineExceeded)))
	})

	t.Run("connect errors are kept", func(t *testing.T) {
		err := connect.NewError(connect.CodeResourceExhausted, errors.New("too large"))
		assert.Same(t, err, connecthelper.ToStatusError(err))
		assert.Equal(t, "ok", connecthelper.CodeOf(nil))
	})
}

func TestToErrorResponse(t *testing.T) {
	resp := connecthelper.ToErrorResponse(fmt.Errorf("sync: %w", diffsync.ErrRollback))
	assert.Equal(t, diffsync.CodeResyncRequired, resp.Code)
	assert.Equal(t, "ErrRollback", resp.Metadata["reason"])

	resp = connecthelper.ToErrorResponse((&types.SubscribeRequest{}).Validate())
	assert.Equal(t, "ErrInvalidArgument", resp.Code)
	assert.NotEmpty(t, resp.Details)
	assert.Nil(t, resp.Metadata)

	resp = connecthelper.ToErrorResponse(errors.New("db password is hunter2"))
	assert.Equal(t, "ErrInternal", resp.Code)
	assert.NotContains(t, resp.Message, "hunter2")
}
