/*
 * Copyright 2021 The Yorkie Authors. All rights reserved.
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

package backend_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/diffsync/server/backend"
)

func newValidBackendConf() backend.Config {
	return backend.Config{
		BroadcastTimeout: "5s",
		BroadcastWindow:  "100ms",
		MaxHistoryLimit:  100,
	}
}

func TestConfig(t *testing.T) {
	t.Run("validate test", func(t *testing.T) {
		validConf := newValidBackendConf()
		assert.NoError(t, validConf.Validate())

		conf1 := validConf
		conf1.BroadcastTimeout = "s"
		assert.Error(t, conf1.Validate())

		conf2 := validConf
		conf2.MaxHistoryLimit = 0
		assert.Error(t, conf2.Validate())

		conf3 := validConf
		conf3.BroadcastWindow = "0s"
		assert.Error(t, conf3.Validate())
	})

	t.Run("parse test", func(t *testing.T) {
		validConf := newValidBackendConf()
		assert.Equal(t, 5*time.Second, validConf.ParseBroadcastTimeout())
		assert.Equal(t, 100*time.Millisecond, validConf.ParseBroadcastWindow())
	})
}
