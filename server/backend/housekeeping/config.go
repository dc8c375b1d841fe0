/*
 * Copyright 2023 The Yorkie Authors. All rights reserved.
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

// Package housekeeping is the package for housekeeping service. It cleans up
// the resources and data that is no longer needed.
package housekeeping

import (
	"fmt"
	"time"
)

// Config is the configuration for the housekeeping service.
type Config struct {
	// Interval is the time between housekeeping runs.
	Interval string `yaml:"Interval"`

	// SessionTTL is the time after which a session without activity is evicted.
	SessionTTL string `yaml:"SessionTTL"`

	// PatchRetention is how long the records of handled rounds are kept.
	PatchRetention string `yaml:"PatchRetention"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Interval); err != nil {
		return fmt.Errorf(
			`invalid argument %s for "--housekeeping-interval" flag: %w`,
			c.Interval,
			err,
		)
	}

	ttl, err := time.ParseDuration(c.SessionTTL)
	if err != nil {
		return fmt.Errorf(
			`invalid argument %s for "--session-ttl" flag: %w`,
			c.SessionTTL,
			err,
		)
	}
	if ttl <= 0 {
		return fmt.Errorf(`invalid argument %s for "--session-ttl" flag`, c.SessionTTL)
	}

	retention, err := time.ParseDuration(c.PatchRetention)
	if err != nil {
		return fmt.Errorf(
			`invalid argument %s for "--patch-retention" flag: %w`,
			c.PatchRetention,
			err,
		)
	}
	if retention < 0 {
		return fmt.Errorf(`invalid argument %s for "--patch-retention" flag`, c.PatchRetention)
	}

	return nil
}

// ParseInterval parses the interval.
func (c *Config) ParseInterval() (time.Duration, error) {
	interval, err := time.ParseDuration(c.Interval)
	if err != nil {
		return 0, fmt.Errorf("parse interval %s: %w", c.Interval, err)
	}

	return interval, nil
}

// ParseSessionTTL parses the session TTL.
func (c *Config) ParseSessionTTL() (time.Duration, error) {
	ttl, err := time.ParseDuration(c.SessionTTL)
	if err != nil {
		return 0, fmt.Errorf("parse session ttl %s: %w", c.SessionTTL, err)
	}

	return ttl, nil
}

// ParsePatchRetention parses the patch retention. Zero keeps records forever.
func (c *Config) ParsePatchRetention() (time.Duration, error) {
	retention, err := time.ParseDuration(c.PatchRetention)
	if err != nil {
		return 0, fmt.Errorf("parse patch retention %s: %w", c.PatchRetention, err)
	}

	return retention, nil
}
