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

package diffsync

// Ack confirms that a round of patches was received by the counterpart.
type Ack struct {
	id string
	m  Version
	n  Version
}

// NewAck creates a new Ack.
func NewAck(id string, m, n Version) *Ack {
	return &Ack{
		id: id,
		m:  m,
		n:  n,
	}
}

// ID returns the ID of the ack.
func (a *Ack) ID() string {
	return a.id
}

// M returns the version of the server's edits the sender has received.
func (a *Ack) M() Version {
	return a.m
}

// N returns the edit sequence number of the sender.
func (a *Ack) N() Version {
	return a.n
}
