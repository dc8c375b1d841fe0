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

package server_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/diffsync/server"
)

func TestServer(t *testing.T) {
	t.Run("start and shutdown test", func(t *testing.T) {
		conf := server.NewConfig()
		conf.RPC.Port = 21201
		conf.Profiling = nil

		srv, err := server.New(conf)
		require.NoError(t, err)
		assert.NotEmpty(t, srv.ServerID())
		require.NoError(t, srv.Start())

		url := fmt.Sprintf("http://%s/healthz", srv.RPCAddr())
		assert.Eventually(t, func() bool {
			resp, err := http.Get(url)
			if err != nil {
				return false
			}
			defer func() {
				_ = resp.Body.Close()
			}()
			return resp.StatusCode == http.StatusOK
		}, 3*time.Second, 50*time.Millisecond)

		require.NoError(t, srv.Shutdown(true))
		require.NoError(t, srv.Shutdown(true))

		select {
		case <-srv.ShutdownCh():
		default:
			t.Fatal("shutdown channel should be closed")
		}
	})

	t.Run("invalid config test", func(t *testing.T) {
		conf := server.NewConfig()
		conf.Housekeeping.SessionTTL = "0s"

		_, err := server.New(conf)
		assert.Error(t, err)
	})
}
