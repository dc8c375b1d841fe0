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

// Package profiling serves the metrics of the server and, optionally, the
// runtime profiles of pprof.
package profiling

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidProfilingPort occurs when the port in the config is invalid.
	ErrInvalidProfilingPort = errors.New("invalid port number for profiling server")

	// ErrInvalidMetricsPath occurs when the metrics path is not absolute or
	// collides with the pprof endpoints.
	ErrInvalidMetricsPath = errors.New("invalid metrics path for profiling server")
)

// Config is the configuration for creating a Server instance.
type Config struct {
	Port int `yaml:"Port"`

	// MetricsPath is the path Prometheus scrapes. "/metrics" when empty.
	MetricsPath string `yaml:"MetricsPath"`

	EnablePprof bool `yaml:"EnablePprof"`
}

// Validate validates the port number and the metrics path.
func (c *Config) Validate() error {
	if c.Port < 1 || 65535 < c.Port {
		return fmt.Errorf("must be between 1 and 65535, given %d: %w", c.Port, ErrInvalidProfilingPort)
	}

	if c.MetricsPath != "" {
		if !strings.HasPrefix(c.MetricsPath, "/") || strings.HasPrefix(c.MetricsPath, httpPrefixPProf) {
			return fmt.Errorf("given %q: %w", c.MetricsPath, ErrInvalidMetricsPath)
		}
	}

	return nil
}

func (c *Config) metricsPath() string {
	if c.MetricsPath == "" {
		return defaultMetricsPath
	}
	return c.MetricsPath
}
