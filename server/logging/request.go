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

package logging

import (
	"context"
	goerrors "errors"
	"time"

	"github.com/yorkie-team/diffsync/pkg/errors"
)

// levelOf returns the level a failed request is logged with. Resync faults
// and validation failures are expected client behavior.
func levelOf(err error) string {
	if err == nil || goerrors.Is(err, context.Canceled) {
		return "debug"
	}

	switch errors.StatusOf(err) {
	case errors.ErrCodeInvalidArgument, errors.ErrCodeNotFound, errors.ErrCodeAlreadyExists:
		return "info"
	case errors.ErrCodeFailedPrecondition, errors.ErrCodeAborted:
		return "warn"
	case errors.ErrCodeInternal, errors.ErrCodeUnavailable:
		return "error"
	default:
		return "error"
	}
}

// LogRequest logs the outcome of a request.
func LogRequest(logger Logger, route string, duration time.Duration, err error) {
	if err == nil {
		logger.Debugf("RPC : %q %s", route, duration)
		return
	}

	const template = "RPC : %q %s => %q"
	switch levelOf(err) {
	case "debug":
		logger.Debugf(template, route, duration, err)
	case "info":
		logger.Infof(template, route, duration, err)
	case "warn":
		logger.Warnf(template, route, duration, err)
	default:
		logger.Errorf(template, route, duration, err)
	}
}
