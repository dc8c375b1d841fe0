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

package profiling_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/diffsync/server/profiling"
	"github.com/yorkie-team/diffsync/server/profiling/prometheus"
)

func TestServer(t *testing.T) {
	metrics, err := prometheus.NewMetrics()
	require.NoError(t, err)
	metrics.AddSessions("test", "text")

	t.Run("serves metrics test", func(t *testing.T) {
		server := profiling.NewServer(&profiling.Config{Port: 8081}, metrics)
		ts := httptest.NewServer(server.Handler())
		defer ts.Close()

		resp, err := http.Get(ts.URL + "/metrics")
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, resp.Body.Close())
		}()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "diffsync_sync_sessions_total")
	})

	t.Run("serves metrics on a custom path test", func(t *testing.T) {
		server := profiling.NewServer(&profiling.Config{Port: 8081, MetricsPath: "/stats"}, metrics)
		ts := httptest.NewServer(server.Handler())
		defer ts.Close()

		resp, err := http.Get(ts.URL + "/stats")
		require.NoError(t, err)
		assert.NoError(t, resp.Body.Close())
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, err = http.Get(ts.URL + "/metrics")
		require.NoError(t, err)
		assert.NoError(t, resp.Body.Close())
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("pprof is served only when enabled test", func(t *testing.T) {
		for _, enabled := range []bool{false, true} {
			server := profiling.NewServer(&profiling.Config{Port: 8081, EnablePprof: enabled}, metrics)
			ts := httptest.NewServer(server.Handler())

			resp, err := http.Get(ts.URL + "/debug/pprof/cmdline")
			require.NoError(t, err)
			assert.NoError(t, resp.Body.Close())
			ts.Close()

			if enabled {
				assert.Equal(t, http.StatusOK, resp.StatusCode)
			} else {
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			}
		}
	})
}
