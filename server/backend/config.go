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

package backend

import (
	"fmt"
	"time"
)

// Config is the configuration for creating a Backend instance.
type Config struct {
	// ServerID identifies this server in the URNs of its sessions. A random
	// ID is generated when empty.
	ServerID string `yaml:"ServerID"`

	// Hostname is the server hostname. hostname is used by metrics.
	Hostname string `yaml:"Hostname"`

	// BroadcastTimeout is the time allowed to deliver a change notification
	// to one channel.
	BroadcastTimeout string `yaml:"BroadcastTimeout"`

	// BroadcastWindow is the minimum interval between two change
	// notifications of the same entity. Changes inside the window are
	// coalesced into one notification sent when the window ends.
	BroadcastWindow string `yaml:"BroadcastWindow"`

	// MaxHistoryLimit is the maximum number of round records returned at once.
	MaxHistoryLimit int `yaml:"MaxHistoryLimit"`
}

// Validate validates this config.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.BroadcastTimeout); err != nil {
		return fmt.Errorf(
			`invalid argument "%s" for "--broadcast-timeout" flag: %w`,
			c.BroadcastTimeout,
			err,
		)
	}

	window, err := time.ParseDuration(c.BroadcastWindow)
	if err != nil {
		return fmt.Errorf(
			`invalid argument "%s" for "--broadcast-window" flag: %w`,
			c.BroadcastWindow,
			err,
		)
	}
	if window <= 0 {
		return fmt.Errorf(
			`invalid argument "%s" for "--broadcast-window" flag: must be positive`,
			c.BroadcastWindow,
		)
	}

	if c.MaxHistoryLimit <= 0 {
		return fmt.Errorf(
			`invalid argument "%d" for "--max-history-limit" flag`,
			c.MaxHistoryLimit,
		)
	}

	return nil
}

// ParseBroadcastTimeout returns the timeout of a change notification.
func (c *Config) ParseBroadcastTimeout() time.Duration {
	result, err := time.ParseDuration(c.BroadcastTimeout)
	if err != nil {
		return 0
	}

	return result
}

// ParseBroadcastWindow returns the interval between two change notifications
// of the same entity.
func (c *Config) ParseBroadcastWindow() time.Duration {
	result, err := time.ParseDuration(c.BroadcastWindow)
	if err != nil {
		return 0
	}

	return result
}
