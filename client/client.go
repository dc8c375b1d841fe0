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

// Package client provides the client implementation of Differential
// Synchronization. It can be used to synchronize documents with the server.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"connectrpc.com/connect"
	"github.com/rs/xid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yorkie-team/diffsync/api/converter"
	"github.com/yorkie-team/diffsync/api/types"
	"github.com/yorkie-team/diffsync/api/v1connect"
	"github.com/yorkie-team/diffsync/pkg/diffsync"
)

var (
	// ErrDocumentNotAttached occurs when the given document is not attached to
	// this client.
	ErrDocumentNotAttached = errors.New("document is not attached")

	// ErrDocumentAlreadyAttached occurs when the given document is already
	// attached to this client.
	ErrDocumentAlreadyAttached = errors.New("document is already attached")
)

// codeSessionNotFound is reported when the server lost the session.
const codeSessionNotFound = "ErrSessionNotFound"

// IsResyncRequired returns whether the error tells the client to start over
// from the text of the server.
func IsResyncRequired(err error) bool {
	switch converter.ErrorCodeOf(err) {
	case diffsync.CodeResyncRequired, codeSessionNotFound:
		return true
	}
	return diffsync.IsResyncRequired(err)
}

// Client is a normal client that can communicate with the server.
// It has documents and sends their edits to the server to synchronize them
// with the other replicas.
type Client struct {
	client v1connect.SyncServiceClient
	key    string
	logger *zap.Logger

	mu           sync.Mutex
	serverID     string
	attachedDocs map[diffsync.Entity]*Document
}

// New creates an instance of Client. The address is either host:port or a
// URL with a scheme.
func New(rpcAddr string, opts ...Option) (*Client, error) {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}

	k := options.Key
	if k == "" {
		k = xid.New().String()
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := options.Logger
	if logger == nil {
		l, err := zap.NewProduction()
		if err != nil {
			return nil, fmt.Errorf("create logger: %w", err)
		}
		logger = l
	}

	baseURL := rpcAddr
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse address %s: %w", rpcAddr, err)
	}

	return &Client{
		client: v1connect.NewSyncServiceClient(
			httpClient,
			strings.TrimSuffix(baseURL, "/"),
			connect.WithInterceptors(NewHeaderInterceptor(k)),
		),
		key:          k,
		logger:       logger,
		attachedDocs: make(map[diffsync.Entity]*Document),
	}, nil
}

// Key returns the key of this client.
func (c *Client) Key() string {
	return c.key
}

// Attach starts a session of the given document. The document takes the
// text of the server; local edits made before are kept on top of it.
func (c *Client) Attach(ctx context.Context, doc *Document) error {
	c.mu.Lock()
	_, ok := c.attachedDocs[doc.Entity()]
	c.mu.Unlock()
	if ok {
		return ErrDocumentAlreadyAttached
	}

	if err := c.subscribe(ctx, doc); err != nil {
		return err
	}

	c.mu.Lock()
	c.attachedDocs[doc.Entity()] = doc
	c.mu.Unlock()
	return nil
}

// Detach ends the session of the given document.
func (c *Client) Detach(ctx context.Context, doc *Document) error {
	c.mu.Lock()
	_, ok := c.attachedDocs[doc.Entity()]
	delete(c.attachedDocs, doc.Entity())
	c.mu.Unlock()
	if !ok {
		return ErrDocumentNotAttached
	}

	c.mu.Lock()
	serverID := c.serverID
	c.mu.Unlock()

	_, err := c.client.Unsubscribe(ctx, connect.NewRequest(&types.UnsubscribeRequest{
		EntityType: doc.Entity().Type().String(),
		EntityID:   doc.Entity().ID(),
		ServerID:   serverID,
		ClientID:   c.key,
	}))
	return err
}

// Close detaches all documents of this client.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	docs := make([]*Document, 0, len(c.attachedDocs))
	for _, doc := range c.attachedDocs {
		docs = append(docs, doc)
	}
	c.mu.Unlock()

	var errs []error
	for _, doc := range docs {
		if err := c.Detach(ctx, doc); err != nil {
			errs = append(errs, err)
		}
	}

	if err := c.logger.Sync(); err != nil {
		c.logger.Debug("sync logger", zap.Error(err))
	}
	return errors.Join(errs...)
}

// Sync runs a round for each of the given documents, or for every attached
// document if none is given. A document whose session was lost is attached
// again and synced once more. Documents are synced concurrently.
func (c *Client) Sync(ctx context.Context, docs ...*Document) error {
	c.mu.Lock()
	if len(docs) == 0 {
		for _, doc := range c.attachedDocs {
			docs = append(docs, doc)
		}
	}
	for _, doc := range docs {
		if _, ok := c.attachedDocs[doc.Entity()]; !ok {
			c.mu.Unlock()
			return ErrDocumentNotAttached
		}
	}
	c.mu.Unlock()

	group, ctx := errgroup.WithContext(ctx)
	for _, doc := range docs {
		group.Go(func() error {
			err := c.syncDocument(ctx, doc)
			if IsResyncRequired(err) {
				c.logger.Info("resync", zap.Stringer("entity", doc.Entity()), zap.Error(err))
				if err := c.subscribe(ctx, doc); err != nil {
					return err
				}
				err = c.syncDocument(ctx, doc)
			}
			return err
		})
	}

	return group.Wait()
}

// Snapshot returns the text of the given entity on the server.
func (c *Client) Snapshot(ctx context.Context, entity diffsync.Entity) (*types.Snapshot, error) {
	resp, err := c.client.Snapshot(ctx, connect.NewRequest(&types.SnapshotRequest{
		EntityType: entity.Type().String(),
		EntityID:   entity.ID(),
	}))
	if err != nil {
		return nil, err
	}
	return resp.Msg.Snapshot, nil
}

// History returns the latest rounds of the given entity, newest first.
func (c *Client) History(ctx context.Context, entity diffsync.Entity, limit int) ([]*types.RoundSummary, error) {
	resp, err := c.client.History(ctx, connect.NewRequest(&types.HistoryRequest{
		EntityType: entity.Type().String(),
		EntityID:   entity.ID(),
		Limit:      limit,
	}))
	if err != nil {
		return nil, err
	}
	return resp.Msg.Rounds, nil
}

func (c *Client) subscribe(ctx context.Context, doc *Document) error {
	resp, err := c.client.Subscribe(ctx, connect.NewRequest(&types.SubscribeRequest{
		EntityType: doc.Entity().Type().String(),
		EntityID:   doc.Entity().ID(),
		ClientID:   c.key,
	}))
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.serverID = resp.Msg.ServerID
	c.mu.Unlock()

	doc.reset(resp.Msg.Snapshot.Content, c.key)
	return nil
}

// syncDocument sends the unconfirmed patches of the document, applies the
// patch the server returns and acknowledges it.
func (c *Client) syncDocument(ctx context.Context, doc *Document) error {
	c.mu.Lock()
	serverID := c.serverID
	c.mu.Unlock()

	// 01. send the edits and receive the edits of the others.
	m, _ := doc.Versions()
	mValue := m.Value()
	resp, err := c.client.SyncPatch(ctx, connect.NewRequest(&types.SyncPatchRequest{
		EntityType: doc.Entity().Type().String(),
		EntityID:   doc.Entity().ID(),
		ServerID:   serverID,
		ClientID:   c.key,
		M:          &mValue,
		Patches:    converter.ToPatches(doc.pushPatches(c.key)),
	}))
	if err != nil {
		return err
	}

	outbound, err := converter.FromPatch(resp.Msg.Patch)
	if err != nil {
		return err
	}

	// 02. apply the edits of the others to the local text.
	applied, err := doc.applyOutbound(outbound)
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}

	// 03. confirm the patch so that the server retires its backup.
	m, n := doc.Versions()
	_, err = c.client.SyncAck(ctx, connect.NewRequest(&types.SyncAckRequest{
		EntityType: doc.Entity().Type().String(),
		EntityID:   doc.Entity().ID(),
		ServerID:   serverID,
		ClientID:   c.key,
		Ack: &types.Ack{
			ID: xid.New().String(),
			M:  m.Value(),
			N:  n.Value(),
		},
	}))
	return err
}
