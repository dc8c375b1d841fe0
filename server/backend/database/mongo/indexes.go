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

package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	// ColEntities represents the entities collection in the database.
	ColEntities = "entities"
	// ColPatches represents the patches collection in the database.
	ColPatches = "patches"
)

// Collections represents the list of all collections in the database.
var Collections = []string{
	ColEntities,
	ColPatches,
}

type collectionInfo struct {
	name    string
	indexes []mongo.IndexModel
}

var collectionInfos = []collectionInfo{
	{
		name: ColEntities,
		indexes: []mongo.IndexModel{{
			Keys: bson.D{
				{Key: "entity_type", Value: int32(1)},
				{Key: "entity_id", Value: int32(1)},
			},
			Options: options.Index().SetUnique(true),
		}},
	},
	{
		name: ColPatches,
		indexes: []mongo.IndexModel{{
			Keys: bson.D{
				{Key: "entity_type", Value: int32(1)},
				{Key: "entity_id", Value: int32(1)},
				{Key: "_id", Value: int32(-1)},
			},
		}, {
			Keys: bson.D{{Key: "created_at", Value: int32(1)}},
		}},
	},
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, info := range collectionInfos {
		_, err := db.Collection(info.name).Indexes().CreateMany(ctx, info.indexes)
		if err != nil {
			return fmt.Errorf("create indexes of %s: %w", info.name, err)
		}
	}
	return nil
}
