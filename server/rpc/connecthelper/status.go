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


// Package connecthelper provides helper functions for connectRPC.
package connecthelper

import (
	"context"
	goerrors "errors"

	"connectrpc.com/connect"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	"github.com/yorkie-team/diffsync/api/types"
	"github.com/yorkie-team/diffsync/internal/validation"
	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/pkg/errors"
)

// errInternal replaces the message of errors that carry no status so that
// internals are not leaked to clients.
var errInternal = goerrors.New("internal error")

// ToStatusError returns connect.Error from the given logic error. If an error
// occurs while executing logic in API handler, connectRPC connect.error should be
// returned so that the client can know more about the status of the request.
//
// The string code of the error and its metadata are attached as ErrorInfo.
// Faults that lose protocol sync carry the code ErrResyncRequired with the
// fault in the "reason" metadata so that the client discards its shadow.
func ToStatusError(err error) error {
	if err == nil {
		return nil
	}

	var connectErr *connect.Error
	if goerrors.As(err, &connectErr) {
		return connectErr
	}

	code := connectCodeOf(err)
	if code == connect.CodeInternal {
		connectErr = connect.NewError(code, errInternal)
	} else {
		connectErr = connect.NewError(code, err)
	}

	info := &errdetails.ErrorInfo{
		Reason:   code.String(),
		Metadata: MetadataOf(err),
	}
	info.Metadata["code"] = ErrorCodeOf(err)
	if detail, detailErr := connect.NewErrorDetail(info); detailErr == nil {
		connectErr.AddDetail(detail)
	}

	if badRequest, ok := badRequestFromError(err); ok {
		if detail, detailErr := connect.NewErrorDetail(badRequest); detailErr == nil {
			connectErr.AddDetail(detail)
		}
	}

	return connectErr
}

// CodeOf returns the string representation of the connect code of the given
// error. It is used as a metric label.
func CodeOf(err error) string {
	if err == nil {
		return "ok"
	}

	var connectErr *connect.Error
	if goerrors.As(err, &connectErr) {
		return connectErr.Code().String()
	}

	return connectCodeOf(err).String()
}

// ErrorCodeOf returns the string code reported to clients for the given
// error, e.g. "ErrSessionNotFound".
func ErrorCodeOf(err error) string {
	if diffsync.IsResyncRequired(err) {
		return diffsync.CodeResyncRequired
	}
	if isStructError(err) {
		return "ErrInvalidArgument"
	}

	if status := errors.StatusOf(err); status != 0 {
		if code := errors.CodeOf(err); code != "" {
			return code
		}
		return status.String()
	}

	switch {
	case goerrors.Is(err, context.Canceled):
		return "ErrCanceled"
	case goerrors.Is(err, context.DeadlineExceeded):
		return "ErrDeadlineExceeded"
	}

	return "ErrInternal"
}

// MetadataOf returns the metadata reported with the given error. It is never
// nil.
func MetadataOf(err error) map[string]string {
	metadata := errors.Metadata(err)
	if metadata == nil {
		metadata = make(map[string]string)
	}

	if diffsync.IsResyncRequired(err) {
		metadata["reason"] = errors.CodeOf(err)
	}

	return metadata
}

// ToErrorResponse returns the body of the error frame that reports the error
// on a websocket connection.
func ToErrorResponse(err error) *types.ErrorResponse {
	resp := &types.ErrorResponse{
		Code:    ErrorCodeOf(err),
		Message: err.Error(),
	}
	if connectCodeOf(err) == connect.CodeInternal {
		resp.Message = errInternal.Error()
	}

	if metadata := MetadataOf(err); len(metadata) > 0 {
		resp.Metadata = metadata
	}

	var structErr *validation.StructError
	if goerrors.As(err, &structErr) {
		resp.Details = structErr.Descriptions()
	}

	return resp
}

// connectCodeOf maps the status of the given error to a connect code. The
// statuses of package errors share their values with connect codes.
func connectCodeOf(err error) connect.Code {
	switch {
	case goerrors.Is(err, context.Canceled):
		return connect.CodeCanceled
	case goerrors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	case isStructError(err):
		return connect.CodeInvalidArgument
	}

	if status := errors.StatusOf(err); status != 0 {
		return connect.Code(status)
	}

	return connect.CodeInternal
}

func isStructError(err error) bool {
	var structErr *validation.StructError
	return goerrors.As(err, &structErr)
}

// badRequestFromError creates BadRequest details from validation errors.
func badRequestFromError(err error) (*errdetails.BadRequest, bool) {
	var structErr *validation.StructError
	if !goerrors.As(err, &structErr) {
		return nil, false
	}

	br := &errdetails.BadRequest{}
	for _, violation := range structErr.Violations {
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       violation.Field,
			Description: violation.Description,
		})
	}

	return br, true
}
