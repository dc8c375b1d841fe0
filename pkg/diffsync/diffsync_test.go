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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
)

var (
	entity     = diffsync.NewEntity(diffsync.EntityTypeText, "greeting")
	identifier = diffsync.NewClientIdentifier("server-1", "client-1")
)

type recordingGateway struct {
	summaries []*diffsync.PatchSummary
	err       error
}

func (g *recordingGateway) SavePatch(_ context.Context, summary *diffsync.PatchSummary) error {
	g.summaries = append(g.summaries, summary)
	return g.err
}

func TestHandlePatch(t *testing.T) {
	t.Run("direct apply of a patch based on the shadow", func(t *testing.T) {
		session := diffsync.New(entity, identifier, "cat", nil, nil)
		patch := diffsync.MakePatch("p1", "client-1", "", "s", 0, 0)

		round, err := session.HandlePatch([]*diffsync.Patch{patch}, diffsync.NewServerText("cat"))
		require.NoError(t, err)

		assert.Equal(t, 1, round.Applied)
		assert.False(t, round.RolledBack)
		assert.Len(t, round.Text.Content(), 4)
		assert.Contains(t, round.Text.Content(), "cat")
		assert.Equal(t, diffsync.Version(1), session.Shadow().N())
	})

	t.Run("n grows by one per applied patch", func(t *testing.T) {
		session := diffsync.New(entity, identifier, "a", nil, nil)
		patches := []*diffsync.Patch{
			diffsync.MakePatch("p1", "client-1", "a", "ab", 0, 0),
			diffsync.MakePatch("p2", "client-1", "ab", "abc", 0, 1),
			diffsync.MakePatch("p3", "client-1", "abc", "abcd", 0, 2),
		}

		round, err := session.HandlePatch(patches, diffsync.NewServerText("a"))
		require.NoError(t, err)

		assert.Equal(t, 3, round.Applied)
		assert.Equal(t, "abcd", round.Text.Content())
		assert.True(t, round.TextChanged)
		assert.Equal(t, diffsync.Version(3), session.Shadow().N())
		assert.Equal(t, diffsync.Version(1), session.Shadow().M())
		assert.Equal(t, diffsync.Version(0), session.Backup().M())
		assert.Equal(t, "abcd", session.Backup().Content())
	})

	t.Run("outbound patch carries edits of other clients", func(t *testing.T) {
		session := diffsync.New(entity, identifier, "hello world", nil, nil)
		patch := diffsync.MakePatch("p1", "client-1", "hello world", "hello brave world", 0, 0)

		round, err := session.HandlePatch(
			[]*diffsync.Patch{patch},
			diffsync.NewServerText("hello world!!"),
		)
		require.NoError(t, err)

		assert.Equal(t, "hello brave world!!", round.Text.Content())
		assert.False(t, round.Outbound.IsEmpty())
		assert.Equal(t, diffsync.Version(0), round.Outbound.M())
		assert.Equal(t, diffsync.Version(1), round.Outbound.N())

		// the client's shadow equals the server's shadow before the advance.
		client := diffsync.NewServerShadow("hello brave world", 1, 0, identifier)
		synced, err := client.Apply(round.Outbound)
		require.NoError(t, err)
		assert.Equal(t, round.Text.Content(), synced.Content())
		assert.Equal(t, round.Text.Content(), session.Shadow().Content())
	})

	t.Run("rollback when the client missed the last outbound patch", func(t *testing.T) {
		session := diffsync.New(entity, identifier, "hello world", nil, nil)
		p1 := diffsync.MakePatch("p1", "client-1", "hello world", "hello brave world", 0, 0)
		round, err := session.HandlePatch([]*diffsync.Patch{p1}, diffsync.NewServerText("hello world!!"))
		require.NoError(t, err)
		text := round.Text

		// the outbound patch of the round was lost: the client still bases its
		// edits on m=0 and resends p1.
		backup := session.Backup()
		assert.Equal(t, diffsync.Version(0), backup.M())
		assert.Equal(t, diffsync.Version(1), session.Shadow().M())

		p2 := diffsync.MakePatch("p2", "client-1", "hello brave world", "hello brave new world", 0, 1)
		round, err = session.HandlePatch([]*diffsync.Patch{p1, p2}, text)
		require.NoError(t, err)

		assert.True(t, round.RolledBack)
		assert.Equal(t, 1, round.Skipped)
		assert.Equal(t, 1, round.Applied)
		assert.Equal(t, "hello brave new world!!", round.Text.Content())

		// the new backup is the old backup with p2 re-applied.
		assert.Equal(t, "hello brave new world", session.Backup().Content())
		assert.Equal(t, diffsync.Version(0), session.Backup().M())
		assert.Equal(t, diffsync.Version(2), session.Shadow().N())
		assert.Equal(t, diffsync.Version(1), session.Shadow().M())
	})

	t.Run("a resent batch alone rolls back to the backup", func(t *testing.T) {
		session := diffsync.New(entity, identifier, "hello world", nil, nil)
		p1 := diffsync.MakePatch("p1", "client-1", "hello world", "hello brave world", 0, 0)
		round, err := session.HandlePatch([]*diffsync.Patch{p1}, diffsync.NewServerText("hello world!!"))
		require.NoError(t, err)

		// the outbound patch was lost and the client resends p1 only.
		round, err = session.HandlePatch([]*diffsync.Patch{p1}, round.Text)
		require.NoError(t, err)

		assert.True(t, round.RolledBack)
		assert.Equal(t, 1, round.Skipped)
		assert.Equal(t, 0, round.Applied)
		assert.Equal(t, diffsync.Version(0), round.Outbound.M())
		assert.Equal(t, diffsync.Version(1), round.Outbound.N())

		// the client shadow still holds p1 and reaches the canonical text.
		client := diffsync.NewServerShadow("hello brave world", 1, 0, identifier)
		next, err := client.Apply(round.Outbound)
		require.NoError(t, err)
		assert.Equal(t, "hello brave world!!", next.Content())

		assert.Equal(t, "hello brave world", session.Backup().Content())
		assert.Equal(t, diffsync.Version(0), session.Backup().M())
		assert.Equal(t, diffsync.Version(1), session.Shadow().M())
		assert.Equal(t, diffsync.Version(1), session.Shadow().N())
	})

	t.Run("an empty poll after a lost outbound patch rolls back", func(t *testing.T) {
		session := diffsync.New(entity, identifier, "v1", nil, nil)
		round, err := session.HandlePatch(nil, diffsync.NewServerText("v2"))
		require.NoError(t, err)

		// the client never applied the outbound patch and reports m=0.
		round, err = session.HandlePatchAt(0, nil, round.Text)
		require.NoError(t, err)
		assert.True(t, round.RolledBack)
		assert.Equal(t, diffsync.Version(0), round.Outbound.M())

		next, err := diffsync.NewServerShadow("v1", 0, 0, identifier).Apply(round.Outbound)
		require.NoError(t, err)
		assert.Equal(t, "v2", next.Content())
		assert.Equal(t, diffsync.Version(1), session.Shadow().M())

		// a client that applied it polls without rolling back.
		round, err = session.HandlePatchAt(1, nil, round.Text)
		require.NoError(t, err)
		assert.False(t, round.RolledBack)
		assert.Equal(t, diffsync.Version(1), round.Outbound.M())

		_, err = session.HandlePatchAt(7, nil, round.Text)
		assert.ErrorIs(t, err, diffsync.ErrRollback)
	})

	t.Run("rollback fault when the patch is too old", func(t *testing.T) {
		shadow := diffsync.NewServerShadow("cat", 0, 2, identifier)
		backup := diffsync.NewServerBackup("ca", 1, identifier)
		session := diffsync.Restore(entity, shadow, backup, nil, nil)

		patch := diffsync.MakePatch("p1", "client-1", "", "s", 0, 0)
		round, err := session.HandlePatch([]*diffsync.Patch{patch}, diffsync.NewServerText("cat"))

		assert.Nil(t, round)
		assert.ErrorIs(t, err, diffsync.ErrRollback)
		assert.EqualError(t, err, "cannot rollback this far back")
		assert.True(t, diffsync.IsResyncRequired(err))
		assert.Same(t, shadow, session.Shadow())
		assert.Same(t, backup, session.Backup())
		assert.Equal(t, diffsync.Version(0), session.Shadow().N())
	})

	t.Run("a failing patch leaves the whole batch unapplied", func(t *testing.T) {
		session := diffsync.New(entity, identifier, "abc", nil, nil)
		shadow, backup := session.Shadow(), session.Backup()

		patches := []*diffsync.Patch{
			diffsync.MakePatch("p1", "client-1", "abc", "abcd", 0, 0),
			diffsync.MakePatch("p2", "client-1", "abcd", "abcde", 5, 1),
		}
		_, err := session.HandlePatch(patches, diffsync.NewServerText("abc"))
		assert.ErrorIs(t, err, diffsync.ErrRollback)
		assert.Same(t, shadow, session.Shadow())
		assert.Same(t, backup, session.Backup())
	})

	t.Run("a patch that does not match the shadow requires resync", func(t *testing.T) {
		session := diffsync.New(entity, identifier, "abc", nil, nil)
		patch := diffsync.MakePatch(
			"p1", "client-1",
			"completely different text here",
			"completely different text there",
			0, 0,
		)

		_, err := session.HandlePatch([]*diffsync.Patch{patch}, diffsync.NewServerText("abc"))
		assert.ErrorIs(t, err, diffsync.ErrPatchFailed)
		assert.True(t, diffsync.IsResyncRequired(err))
		assert.Equal(t, "abc", session.Shadow().Content())
	})

	t.Run("an empty batch pushes the canonical text", func(t *testing.T) {
		session := diffsync.New(entity, identifier, "v1", nil, nil)

		round, err := session.HandlePatch(nil, diffsync.NewServerText("v2"))
		require.NoError(t, err)

		assert.Equal(t, 0, round.Received)
		assert.False(t, round.TextChanged)
		assert.False(t, round.Outbound.IsEmpty())
		assert.Equal(t, "v2", session.Shadow().Content())
		assert.Equal(t, "v1", session.Backup().Content())
	})
}

func TestHandleAck(t *testing.T) {
	newSyncedSession := func(t *testing.T) *diffsync.DiffSync {
		session := diffsync.New(entity, identifier, "a", nil, nil)
		_, err := session.HandlePatch(
			[]*diffsync.Patch{diffsync.MakePatch("p1", "client-1", "a", "ab", 0, 0)},
			diffsync.NewServerText("a"),
		)
		require.NoError(t, err)
		return session
	}

	t.Run("ack of the last outbound patch retires the backup", func(t *testing.T) {
		session := newSyncedSession(t)

		ack := session.HandleAck(diffsync.NewAck("a1", 1, 1))
		assert.Equal(t, "a1", ack.ID())
		assert.Equal(t, diffsync.Version(1), ack.M())
		assert.Equal(t, diffsync.Version(1), ack.N())
		assert.Equal(t, diffsync.Version(1), session.Backup().M())
		assert.Equal(t, session.Shadow().Content(), session.Backup().Content())
	})

	t.Run("stale ack keeps the backup", func(t *testing.T) {
		session := newSyncedSession(t)
		backup := session.Backup()

		ack := session.HandleAck(diffsync.NewAck("a1", 0, 1))
		assert.NotNil(t, ack)
		assert.Same(t, backup, session.Backup())
		assert.Equal(t, diffsync.Version(1), ack.M())
	})
}

func TestRecord(t *testing.T) {
	t.Run("summary of the round is saved", func(t *testing.T) {
		gateway := &recordingGateway{}
		session := diffsync.New(entity, identifier, "a", gateway, nil)
		round, err := session.HandlePatch(
			[]*diffsync.Patch{diffsync.MakePatch("p1", "client-1", "a", "ab", 0, 0)},
			diffsync.NewServerText("a"),
		)
		require.NoError(t, err)

		require.NoError(t, session.Record(context.Background(), round))
		require.Len(t, gateway.summaries, 1)
		assert.Equal(t, entity, gateway.summaries[0].Entity)
		assert.Equal(t, identifier, gateway.summaries[0].Identifier)
		assert.Equal(t, 1, gateway.summaries[0].Applied)
		assert.True(t, round.Outbound.Equal(gateway.summaries[0].Outbound))
	})

	t.Run("gateway failure is returned to the caller", func(t *testing.T) {
		errSave := errors.New("save failed")
		session := diffsync.New(entity, identifier, "a", &recordingGateway{err: errSave}, nil)
		round, err := session.HandlePatch(nil, diffsync.NewServerText("a"))
		require.NoError(t, err)

		assert.ErrorIs(t, session.Record(context.Background(), round), errSave)
	})

	t.Run("sessions without a gateway record nothing", func(t *testing.T) {
		session := diffsync.New(entity, identifier, "a", nil, nil)
		round, err := session.HandlePatch(nil, diffsync.NewServerText("a"))
		require.NoError(t, err)

		assert.NoError(t, session.Record(context.Background(), round))
	})
}

func TestRevert(t *testing.T) {
	t.Run("revert restores the state before the round", func(t *testing.T) {
		session := diffsync.New(entity, identifier, "a", nil, nil)
		shadow, backup := session.Shadow(), session.Backup()

		round, err := session.HandlePatch(
			[]*diffsync.Patch{diffsync.MakePatch("p1", "client-1", "a", "ab", 0, 0)},
			diffsync.NewServerText("a"),
		)
		require.NoError(t, err)
		assert.NotSame(t, shadow, session.Shadow())

		assert.True(t, session.Revert(round))
		assert.Same(t, shadow, session.Shadow())
		assert.Same(t, backup, session.Backup())

		// the same batch applies again once reverted.
		_, err = session.HandlePatch(
			[]*diffsync.Patch{diffsync.MakePatch("p1", "client-1", "a", "ab", 0, 0)},
			diffsync.NewServerText("a"),
		)
		assert.NoError(t, err)
	})

	t.Run("revert of an older round is ignored", func(t *testing.T) {
		session := diffsync.New(entity, identifier, "a", nil, nil)
		first, err := session.HandlePatch(nil, diffsync.NewServerText("a"))
		require.NoError(t, err)
		_, err = session.HandlePatch(nil, diffsync.NewServerText("a"))
		require.NoError(t, err)

		shadow := session.Shadow()
		assert.False(t, session.Revert(first))
		assert.Same(t, shadow, session.Shadow())
	})
}

type nopChannel struct{ id string }

func (c *nopChannel) ID() string { return c.id }

func (c *nopChannel) Send(context.Context, any) error { return nil }

func TestChannel(t *testing.T) {
	first, second := &nopChannel{id: "c1"}, &nopChannel{id: "c2"}
	session := diffsync.New(entity, identifier, "", nil, first)
	assert.Same(t, first, session.Channel())

	session.SetChannel(second)
	assert.False(t, session.UnsetChannel(first))
	assert.Same(t, second, session.Channel())

	assert.True(t, session.UnsetChannel(second))
	assert.Nil(t, session.Channel())
}
