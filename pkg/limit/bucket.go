/*
 * Copyright 2025 The Yorkie Authors. All rights reserved.
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

package limit

import (
	"time"

	"golang.org/x/time/rate"
)

// Bucket grants at most one event per window.
type Bucket struct {
	lim *rate.Limiter
}

// NewBucket creates a Bucket whose token was just spent at the given time.
func NewBucket(now time.Time, window time.Duration) *Bucket {
	lim := rate.NewLimiter(rate.Every(window), 1)
	lim.AllowN(now, 1)
	return &Bucket{lim: lim}
}

// Allow reports whether an event may happen at the given time.
func (b *Bucket) Allow(now time.Time) bool {
	return b.lim.AllowN(now, 1)
}
