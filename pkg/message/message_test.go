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

package message_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/pkg/message"
)

type note struct {
	Text string `json:"text"`
}

func TestBuild(t *testing.T) {
	t.Run("patch keeps its identity and type", func(t *testing.T) {
		patch := diffsync.MakePatch("p1", "client-1", "a", "ab", 0, 0)
		msg := message.Build(patch)

		assert.Same(t, patch, msg.Body())
		assert.Equal(t, "p1", msg.ID())
		assert.Equal(t, reflect.TypeOf(&diffsync.Patch{}), msg.Type())

		var envelope message.Envelope = msg
		_, ok := envelope.Payload().(*diffsync.Patch)
		assert.True(t, ok)
	})

	t.Run("ack keeps its identity and type", func(t *testing.T) {
		ack := diffsync.NewAck("a1", 1, 2)
		msg := message.Build(ack)

		assert.Same(t, ack, msg.Body())
		assert.Equal(t, "a1", msg.ID())
		assert.Equal(t, reflect.TypeOf(&diffsync.Ack{}), msg.Type())
	})

	t.Run("bodies without an ID get a generated one", func(t *testing.T) {
		a := message.Build(note{Text: "a"})
		b := message.Build(note{Text: "a"})

		assert.NotEmpty(t, a.ID())
		assert.NotEqual(t, a.ID(), b.ID())
	})

	t.Run("map keeps the ID", func(t *testing.T) {
		msg := message.Build(diffsync.NewAck("a1", 1, 2))
		mapped := message.Map(msg, func(ack *diffsync.Ack) note {
			return note{Text: ack.M().String()}
		})

		assert.Equal(t, "a1", mapped.ID())
		assert.Equal(t, note{Text: "1"}, mapped.Body())
	})
}

func TestFrame(t *testing.T) {
	t.Run("marshal and unmarshal", func(t *testing.T) {
		data, err := message.Marshal("note", message.WithID("n1", note{Text: "hello"}))
		require.NoError(t, err)

		frame, err := message.ParseFrame(data)
		require.NoError(t, err)
		assert.Equal(t, "note", frame.Type)
		assert.Equal(t, "n1", frame.ID)

		msg, err := message.Unmarshal[note](frame)
		require.NoError(t, err)
		assert.Equal(t, "n1", msg.ID())
		assert.Equal(t, "hello", msg.Body().Text)
	})

	t.Run("frame without type", func(t *testing.T) {
		_, err := message.ParseFrame([]byte(`{"id":"n1"}`))
		assert.ErrorIs(t, err, message.ErrMissingType)

		_, err = message.ParseFrame([]byte(`not json`))
		assert.Error(t, err)
	})
}
