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

package mongo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/diffsync/server/backend/database/mongo"
)

func TestConfig(t *testing.T) {
	t.Run("validate test", func(t *testing.T) {
		config := &mongo.Config{
			ConnectionTimeout: "5s",
			ConnectionURI:     "mongodb://localhost:27017",
			DiffSyncDatabase:  "diffsync-meta",
			PingTimeout:       "5s",
			EntityCacheSize:   100,
		}
		assert.NoError(t, config.Validate())
		assert.Equal(t, 5*time.Second, config.ParseConnectionTimeout())

		config.ConnectionTimeout = "5"
		assert.Error(t, config.Validate())

		config.ConnectionTimeout = "5s"
		config.PingTimeout = "5"
		assert.Error(t, config.Validate())

		config.PingTimeout = "5s"
		config.EntityCacheSize = 0
		assert.Error(t, config.Validate())
	})
}
