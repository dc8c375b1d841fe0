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

package diffsync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
)

func TestServerShadow(t *testing.T) {
	t.Run("apply of a diff yields the target", func(t *testing.T) {
		tests := []struct {
			name   string
			shadow string
			text   string
		}{
			{"insert", "The quick brown fox", "The quick brown fox jumps"},
			{"replace", "The quick brown fox", "The slow red fox"},
			{"delete all", "The quick brown fox", ""},
			{"from empty", "", "key: value\nlist:\n  - a\n"},
			{"unchanged", "same", "same"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				shadow := diffsync.NewServerShadow(tt.shadow, 0, 0, identifier)
				patch := shadow.Diff(diffsync.NewServerText(tt.text))

				applied, err := shadow.Apply(patch)
				require.NoError(t, err)
				assert.Equal(t, tt.text, applied.Content())
			})
		}
	})

	t.Run("diff is pure and tagged with the current versions", func(t *testing.T) {
		shadow := diffsync.NewServerShadow("abc", 3, 7, identifier)
		patch := shadow.Diff(diffsync.NewServerText("abcd"))

		assert.Equal(t, diffsync.Version(7), patch.M())
		assert.Equal(t, diffsync.Version(3), patch.N())
		assert.Equal(t, "client-1", patch.ClientID())
		assert.NotEmpty(t, patch.ID())
		assert.Equal(t, "abc", shadow.Content())
		assert.Equal(t, diffsync.Version(7), shadow.M())
	})

	t.Run("apply returns a new shadow", func(t *testing.T) {
		shadow := diffsync.NewServerShadow("abc", 0, 0, identifier)
		applied, err := shadow.Apply(diffsync.MakePatch("p1", "client-1", "abc", "abcd", 0, 0))
		require.NoError(t, err)

		assert.Equal(t, "abc", shadow.Content())
		assert.Equal(t, diffsync.Version(0), shadow.N())
		assert.Equal(t, "abcd", applied.Content())
		assert.Equal(t, diffsync.Version(1), applied.N())
		assert.Equal(t, diffsync.Version(0), applied.M())
	})

	t.Run("advance and rollback", func(t *testing.T) {
		shadow := diffsync.NewServerShadow("abc", 4, 2, identifier)
		backup := shadow.Backup()
		advanced := shadow.Advance(diffsync.NewServerText("xyz"))

		assert.Equal(t, "xyz", advanced.Content())
		assert.Equal(t, diffsync.Version(3), advanced.M())
		assert.Equal(t, diffsync.Version(4), advanced.N())

		restored := advanced.Rollback(backup)
		assert.Equal(t, "abc", restored.Content())
		assert.Equal(t, diffsync.Version(2), restored.M())
		assert.Equal(t, diffsync.Version(4), restored.N())
	})
}

func TestServerText(t *testing.T) {
	t.Run("apply is best-effort", func(t *testing.T) {
		text := diffsync.NewServerText("abc")
		patch := diffsync.MakePatch(
			"p1", "client-1",
			"completely different text here",
			"completely different text there",
			0, 0,
		)

		applied, failed := text.Apply(patch)
		assert.Equal(t, 1, failed)
		assert.Equal(t, "abc", applied.Content())
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		patchM  diffsync.Version
		shadowM diffsync.Version
		backupM diffsync.Version
		want    diffsync.Classification
	}{
		{"based on shadow", 2, 2, 1, diffsync.Direct},
		{"based on shadow after ack", 2, 2, 2, diffsync.Direct},
		{"based on backup", 1, 2, 1, diffsync.Rollback},
		{"too old", 0, 2, 1, diffsync.Unrecoverable},
		{"from the future", 3, 2, 1, diffsync.Unrecoverable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch := diffsync.MakePatch("p1", "client-1", "", "", tt.patchM, 0)
			shadow := diffsync.NewServerShadow("", 0, tt.shadowM, identifier)
			backup := diffsync.NewServerBackup("", tt.backupM, identifier)

			assert.Equal(t, tt.want, diffsync.Classify(patch, shadow, backup))
		})
	}

	assert.Equal(t, "direct", diffsync.Direct.String())
	assert.Equal(t, "rollback", diffsync.Rollback.String())
	assert.Equal(t, "unrecoverable", diffsync.Unrecoverable.String())
}
