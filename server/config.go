/*
 * Copyright 2020 The Yorkie Authors. All rights reserved.
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

package server

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yorkie-team/diffsync/server/backend"
	"github.com/yorkie-team/diffsync/server/backend/database/mongo"
	"github.com/yorkie-team/diffsync/server/backend/housekeeping"
	"github.com/yorkie-team/diffsync/server/profiling"
	"github.com/yorkie-team/diffsync/server/rpc"
)

// Below are the values of the default values of the server config.
const (
	DefaultRPCPort              = 8080
	DefaultRPCMaxRequestBytes   = 4 * 1024 * 1024
	DefaultRPCReadHeaderTimeout = 5 * time.Second
	DefaultProfilingPort        = 8081
	DefaultProfilingMetricsPath = "/metrics"

	DefaultHousekeepingInterval   = 30 * time.Second
	DefaultHousekeepingSessionTTL = 30 * time.Minute
	DefaultPatchRetention         = 7 * 24 * time.Hour

	DefaultMongoConnectionURI     = "mongodb://localhost:27017"
	DefaultMongoConnectionTimeout = 5 * time.Second
	DefaultMongoPingTimeout       = 5 * time.Second
	DefaultMongoDiffSyncDatabase  = "diffsync-meta"
	DefaultMongoEntityCacheSize   = 1000

	DefaultServerID         = ""
	DefaultHostname         = ""
	DefaultBroadcastTimeout = 3 * time.Second
	DefaultBroadcastWindow  = 100 * time.Millisecond
	DefaultMaxHistoryLimit  = 100
)

// Config is the configuration for creating a DiffSync server instance.
type Config struct {
	RPC          *rpc.Config          `yaml:"RPC"`
	Profiling    *profiling.Config    `yaml:"Profiling"`
	Housekeeping *housekeeping.Config `yaml:"Housekeeping"`
	Backend      *backend.Config      `yaml:"Backend"`
	Mongo        *mongo.Config        `yaml:"Mongo"`
}

// NewConfig returns a Config struct that contains reasonable defaults
// for most of the configurations.
func NewConfig() *Config {
	return newConfig(DefaultRPCPort, DefaultProfilingPort)
}

// NewConfigFromFile returns a Config struct for the given conf file.
func NewConfigFromFile(path string) (*Config, error) {
	conf := &Config{}
	bytes, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err = yaml.Unmarshal(bytes, conf); err != nil {
		return nil, fmt.Errorf("unmarshal config file: %w", err)
	}

	conf.ensureDefaultValue()
	return conf, nil
}

// RPCAddr returns the RPC address.
func (c *Config) RPCAddr() string {
	return fmt.Sprintf("localhost:%d", c.RPC.Port)
}

// Validate returns an error if the provided Config is invalidated.
func (c *Config) Validate() error {
	if err := c.RPC.Validate(); err != nil {
		return err
	}

	if c.Profiling != nil {
		if err := c.Profiling.Validate(); err != nil {
			return err
		}
	}

	if err := c.Housekeeping.Validate(); err != nil {
		return err
	}

	if err := c.Backend.Validate(); err != nil {
		return err
	}

	if c.Mongo != nil {
		if err := c.Mongo.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ensureDefaultValue sets the value of the option to which the default value
// should be applied when the user does not input it.
func (c *Config) ensureDefaultValue() {
	if c.RPC == nil {
		c.RPC = &rpc.Config{}
	}
	if c.RPC.Port == 0 {
		c.RPC.Port = DefaultRPCPort
	}
	if c.RPC.MaxRequestBytes == 0 {
		c.RPC.MaxRequestBytes = DefaultRPCMaxRequestBytes
	}
	if c.RPC.ReadHeaderTimeout == "" {
		c.RPC.ReadHeaderTimeout = DefaultRPCReadHeaderTimeout.String()
	}

	if c.Profiling != nil && c.Profiling.Port == 0 {
		c.Profiling.Port = DefaultProfilingPort
	}
	if c.Profiling != nil && c.Profiling.MetricsPath == "" {
		c.Profiling.MetricsPath = DefaultProfilingMetricsPath
	}

	if c.Housekeeping == nil {
		c.Housekeeping = &housekeeping.Config{}
	}
	if c.Housekeeping.Interval == "" {
		c.Housekeeping.Interval = DefaultHousekeepingInterval.String()
	}
	if c.Housekeeping.SessionTTL == "" {
		c.Housekeeping.SessionTTL = DefaultHousekeepingSessionTTL.String()
	}
	if c.Housekeeping.PatchRetention == "" {
		c.Housekeeping.PatchRetention = DefaultPatchRetention.String()
	}

	if c.Backend == nil {
		c.Backend = &backend.Config{}
	}
	if c.Backend.BroadcastTimeout == "" {
		c.Backend.BroadcastTimeout = DefaultBroadcastTimeout.String()
	}
	if c.Backend.BroadcastWindow == "" {
		c.Backend.BroadcastWindow = DefaultBroadcastWindow.String()
	}
	if c.Backend.MaxHistoryLimit == 0 {
		c.Backend.MaxHistoryLimit = DefaultMaxHistoryLimit
	}

	if c.Mongo != nil {
		if c.Mongo.ConnectionURI == "" {
			c.Mongo.ConnectionURI = DefaultMongoConnectionURI
		}

		if c.Mongo.ConnectionTimeout == "" {
			c.Mongo.ConnectionTimeout = DefaultMongoConnectionTimeout.String()
		}

		if c.Mongo.DiffSyncDatabase == "" {
			c.Mongo.DiffSyncDatabase = DefaultMongoDiffSyncDatabase
		}

		if c.Mongo.PingTimeout == "" {
			c.Mongo.PingTimeout = DefaultMongoPingTimeout.String()
		}

		if c.Mongo.EntityCacheSize == 0 {
			c.Mongo.EntityCacheSize = DefaultMongoEntityCacheSize
		}
	}
}

func newConfig(port int, profilingPort int) *Config {
	return &Config{
		RPC: &rpc.Config{
			Port:              port,
			MaxRequestBytes:   DefaultRPCMaxRequestBytes,
			ReadHeaderTimeout: DefaultRPCReadHeaderTimeout.String(),
		},
		Profiling: &profiling.Config{
			Port:        profilingPort,
			MetricsPath: DefaultProfilingMetricsPath,
		},
		Housekeeping: &housekeeping.Config{
			Interval:       DefaultHousekeepingInterval.String(),
			SessionTTL:     DefaultHousekeepingSessionTTL.String(),
			PatchRetention: DefaultPatchRetention.String(),
		},
		Backend: &backend.Config{
			ServerID:         DefaultServerID,
			Hostname:         DefaultHostname,
			BroadcastTimeout: DefaultBroadcastTimeout.String(),
			BroadcastWindow:  DefaultBroadcastWindow.String(),
			MaxHistoryLimit:  DefaultMaxHistoryLimit,
		},
	}
}
