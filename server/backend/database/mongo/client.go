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

// Package mongo implements database interfaces using MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	gotime "time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/server/backend/database"
	"github.com/yorkie-team/diffsync/server/logging"
)

// Client is a client that connects to Mongo DB and reads or saves diffsync data.
type Client struct {
	config *Config
	client *mongo.Client

	// entityCache holds the latest known state of entities. It is refreshed
	// by every write of this process and bypassed on revision conflicts.
	entityCache *lru.Cache[string, *database.EntityInfo]
}

// Dial creates an instance of Client and dials the given MongoDB.
func Dial(conf *Config) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.ParseConnectionTimeout())
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(conf.ConnectionURI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	ctxPing, cancelPing := context.WithTimeout(ctx, conf.ParsePingTimeout())
	defer cancelPing()

	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	if err := ensureIndexes(ctx, client.Database(conf.DiffSyncDatabase)); err != nil {
		return nil, err
	}

	entityCache, err := lru.New[string, *database.EntityInfo](conf.EntityCacheSize)
	if err != nil {
		return nil, fmt.Errorf("initialize entity cache: %w", err)
	}

	logging.DefaultLogger().Infof("MongoDB connected, URI: %s, DB: %s", conf.ConnectionURI, conf.DiffSyncDatabase)

	return &Client{
		config:      conf,
		client:      client,
		entityCache: entityCache,
	}, nil
}

// Close all resources of this client.
func (c *Client) Close() error {
	if err := c.client.Disconnect(context.Background()); err != nil {
		return fmt.Errorf("close mongo client: %w", err)
	}

	c.entityCache.Purge()
	return nil
}

// FindOrCreateEntityInfo finds the entity or creates it with empty content.
func (c *Client) FindOrCreateEntityInfo(
	ctx context.Context,
	entity diffsync.Entity,
) (*database.EntityInfo, error) {
	if info, ok := c.entityCache.Get(entity.Key()); ok {
		return info.DeepCopy(), nil
	}

	candidate := database.NewEntityInfo(entity)
	filter := bson.M{
		"entity_type": candidate.EntityType,
		"entity_id":   candidate.EntityID,
	}

	_, err := c.collection(ColEntities).UpdateOne(ctx, filter, bson.M{
		"$setOnInsert": bson.M{
			"_id":        bson.NewObjectID().Hex(),
			"content":    candidate.Content,
			"revision":   candidate.Revision,
			"created_at": candidate.CreatedAt,
			"updated_at": candidate.UpdatedAt,
		},
	}, options.UpdateOne().SetUpsert(true))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("upsert entity of %s: %w", entity, err)
	}

	return c.findEntityInfo(ctx, entity)
}

// FindEntityInfo finds the entity.
func (c *Client) FindEntityInfo(
	ctx context.Context,
	entity diffsync.Entity,
) (*database.EntityInfo, error) {
	if info, ok := c.entityCache.Get(entity.Key()); ok {
		return info.DeepCopy(), nil
	}

	return c.findEntityInfo(ctx, entity)
}

func (c *Client) findEntityInfo(
	ctx context.Context,
	entity diffsync.Entity,
) (*database.EntityInfo, error) {
	result := c.collection(ColEntities).FindOne(ctx, bson.M{
		"entity_type": string(entity.Type()),
		"entity_id":   entity.ID(),
	})

	info := &database.EntityInfo{}
	if err := result.Decode(info); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", entity, database.ErrEntityNotFound)
		}
		return nil, fmt.Errorf("decode entity of %s: %w", entity, err)
	}

	c.entityCache.Add(entity.Key(), info.DeepCopy())
	return info, nil
}

// UpdateEntityContent replaces the content of the entity if its revision is
// still the given one.
func (c *Client) UpdateEntityContent(
	ctx context.Context,
	entity diffsync.Entity,
	content string,
	revision int64,
) (*database.EntityInfo, error) {
	result := c.collection(ColEntities).FindOneAndUpdate(ctx, bson.M{
		"entity_type": string(entity.Type()),
		"entity_id":   entity.ID(),
		"revision":    revision,
	}, bson.M{
		"$set": bson.M{
			"content":    content,
			"updated_at": gotime.Now(),
		},
		"$inc": bson.M{"revision": 1},
	}, options.FindOneAndUpdate().SetReturnDocument(options.After))

	info := &database.EntityInfo{}
	if err := result.Decode(info); err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("update entity of %s: %w", entity, err)
		}

		// the filter missed: either the entity is gone or it moved on.
		c.entityCache.Remove(entity.Key())
		current, findErr := c.findEntityInfo(ctx, entity)
		if findErr != nil {
			return nil, findErr
		}
		return nil, fmt.Errorf(
			"%s at revision %d, expected %d: %w",
			entity, current.Revision, revision, database.ErrConflictOnUpdate,
		)
	}

	c.entityCache.Add(entity.Key(), info.DeepCopy())
	return info, nil
}

// CreatePatchInfo records a sync round.
func (c *Client) CreatePatchInfo(ctx context.Context, info *database.PatchInfo) error {
	clone := info.DeepCopy()
	clone.ID = bson.NewObjectID().Hex()

	if _, err := c.collection(ColPatches).InsertOne(ctx, clone); err != nil {
		return fmt.Errorf("insert patch of %s/%s: %w", info.EntityType, info.EntityID, err)
	}

	info.ID = clone.ID
	return nil
}

// FindPatchInfos returns the latest rounds of the entity, newest first.
func (c *Client) FindPatchInfos(
	ctx context.Context,
	entity diffsync.Entity,
	limit int,
) ([]*database.PatchInfo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := c.collection(ColPatches).Find(ctx, bson.M{
		"entity_type": string(entity.Type()),
		"entity_id":   entity.ID(),
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("find patches of %s: %w", entity, err)
	}

	var infos []*database.PatchInfo
	if err := cursor.All(ctx, &infos); err != nil {
		return nil, fmt.Errorf("decode patches of %s: %w", entity, err)
	}

	return infos, nil
}

// DeletePatchInfosBefore deletes the rounds recorded before the given time.
func (c *Client) DeletePatchInfosBefore(ctx context.Context, before gotime.Time) (int64, error) {
	result, err := c.collection(ColPatches).DeleteMany(ctx, bson.M{
		"created_at": bson.M{"$lt": before},
	})
	if err != nil {
		return 0, fmt.Errorf("delete patches before %s: %w", before, err)
	}

	return result.DeletedCount, nil
}

func (c *Client) collection(
	name string,
	opts ...options.Lister[options.CollectionOptions],
) *mongo.Collection {
	return c.client.
		Database(c.config.DiffSyncDatabase).
		Collection(name, opts...)
}
