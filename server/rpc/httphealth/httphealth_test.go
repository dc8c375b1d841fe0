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

package httphealth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/grpchealth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/diffsync/server/rpc/httphealth"
)

func TestHandler(t *testing.T) {
	checker := grpchealth.NewStaticChecker(httphealth.ServiceName)
	path, handler := httphealth.NewHandler(checker)
	assert.Equal(t, httphealth.Path, path)

	check := func(t *testing.T, method, target string) (*httptest.ResponseRecorder, httphealth.CheckResponse) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

		var resp httphealth.CheckResponse
		if rec.Body.Len() > 0 && rec.Code != http.StatusNotFound && rec.Code != http.StatusMethodNotAllowed {
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		}
		return rec, resp
	}

	t.Run("serving", func(t *testing.T) {
		rec, resp := check(t, http.MethodGet, path)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, grpchealth.StatusServing.String(), resp.Status)

		rec, resp = check(t, http.MethodGet, path+"?service="+httphealth.ServiceName)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, grpchealth.StatusServing.String(), resp.Status)
	})

	t.Run("unknown service", func(t *testing.T) {
		rec, _ := check(t, http.MethodGet, path+"?service=unknown")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec, _ := check(t, http.MethodPost, path)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("not serving", func(t *testing.T) {
		checker.SetStatus(httphealth.ServiceName, grpchealth.StatusNotServing)
		rec, resp := check(t, http.MethodGet, path+"?service="+httphealth.ServiceName)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, grpchealth.StatusNotServing.String(), resp.Status)
	})
}
