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

// Package backend provides the backend implementation of the diffsync server.
// This package is responsible for managing the database, the sessions and
// other resources required to run the server.
package backend

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/xid"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/pkg/limit"
	"github.com/yorkie-team/diffsync/server/backend/background"
	"github.com/yorkie-team/diffsync/server/backend/database"
	memdb "github.com/yorkie-team/diffsync/server/backend/database/memory"
	"github.com/yorkie-team/diffsync/server/backend/database/mongo"
	"github.com/yorkie-team/diffsync/server/backend/housekeeping"
	"github.com/yorkie-team/diffsync/server/backend/sync"
	"github.com/yorkie-team/diffsync/server/logging"
	"github.com/yorkie-team/diffsync/server/profiling/prometheus"
	"github.com/yorkie-team/diffsync/server/synchronizables"
)

// Backend manages the backend of the server such as Database and sessions.
// It also provides lockers and background goroutines.
type Backend struct {
	Config *Config

	// Lockers is used to serialize the rounds of an entity.
	Lockers *sync.LockerManager
	// Sessions holds the sessions of connected clients.
	Sessions *diffsync.Provider
	// Broadcasts throttles the change notifications of each entity.
	Broadcasts *limit.Limiter[string]
	// Synchronizables loads and stores the canonical texts.
	Synchronizables *synchronizables.Registry

	// Background is used to manage background tasks.
	Background *background.Background
	// Housekeeping is used to manage background batch tasks.
	Housekeeping *housekeeping.Housekeeping

	// Metrics is used to expose metrics.
	Metrics *prometheus.Metrics
	// DB is the database instance.
	DB database.Database
}

// New creates a new instance of Backend.
func New(
	conf *Config,
	mongoConf *mongo.Config,
	housekeepingConf *housekeeping.Config,
	metrics *prometheus.Metrics,
) (*Backend, error) {
	// 01. Build the server info with the given hostname or the hostname of the
	// current machine.
	if conf.Hostname == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("os.Hostname: %w", err)
		}
		conf.Hostname = hostname
	}
	if conf.ServerID == "" {
		conf.ServerID = xid.New().String()
	}

	// 02. Create the lockers, the session registry and the background task
	// manager.
	lockers := sync.New()
	sessions := diffsync.NewProvider()
	bg := background.New(conf.Hostname, metrics)

	// 03. Create the database instance. If the MongoDB configuration is given,
	// create a MongoDB instance. Otherwise, create a memory database instance.
	var db database.Database
	var err error
	if mongoConf != nil {
		db, err = mongo.Dial(mongoConf)
		if err != nil {
			return nil, err
		}
	} else {
		db, err = memdb.New()
		if err != nil {
			return nil, err
		}
	}

	// 04. Create the services of the entity types.
	registry := synchronizables.NewRegistry(db)

	// 05. Create the housekeeping instance.
	housekeeper, err := housekeeping.New(housekeepingConf, conf.Hostname, db, sessions, lockers, metrics)
	if err != nil {
		return nil, err
	}

	// 06. Create the limiter of change notifications.
	window := conf.ParseBroadcastWindow()
	broadcasts := limit.New[string](max(window/2, time.Millisecond), window)

	dbInfo := "memory"
	if mongoConf != nil {
		dbInfo = mongoConf.ConnectionURI
	}
	logging.DefaultLogger().Infof("backend created: id: %s, db: %s", conf.ServerID, dbInfo)

	return &Backend{
		Config: conf,

		Lockers:         lockers,
		Sessions:        sessions,
		Broadcasts:      broadcasts,
		Synchronizables: registry,

		Background:   bg,
		Housekeeping: housekeeper,

		Metrics: metrics,
		DB:      db,
	}, nil
}

// Start starts the backend.
func (b *Backend) Start() error {
	if err := b.Housekeeping.Start(); err != nil {
		return err
	}

	logging.DefaultLogger().Infof("backend started")
	return nil
}

// Shutdown closes all resources of this instance.
func (b *Backend) Shutdown() error {
	var errs []error

	if err := b.Housekeeping.Stop(); err != nil {
		errs = append(errs, err)
	}

	// trailing notifications are attached to the background, so the limiter
	// is closed first.
	b.Broadcasts.Close()
	b.Background.Close()

	if err := b.DB.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	logging.DefaultLogger().Infof("backend stopped")
	return nil
}
