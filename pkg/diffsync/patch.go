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

import (
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Patchable is a holder of text that can be diffed against.
type Patchable interface {
	Content() string
}

// Patch is an immutable set of diff operations tagged with versions. M is the
// version of the counterpart's text the sender patched against, N is the
// sender's own edit sequence number.
type Patch struct {
	id       string
	clientID string
	ops      []diffmatchpatch.Patch
	m        Version
	n        Version
}

// NewPatch creates a new Patch.
func NewPatch(id, clientID string, ops []diffmatchpatch.Patch, m, n Version) *Patch {
	return &Patch{
		id:       id,
		clientID: clientID,
		ops:      diffmatchpatch.New().PatchDeepCopy(ops),
		m:        m,
		n:        n,
	}
}

// ParsePatch creates a new Patch from the textual patch format.
func ParsePatch(id, clientID, text string, m, n Version) (*Patch, error) {
	ops, err := diffmatchpatch.New().PatchFromText(text)
	if err != nil {
		return nil, fmt.Errorf("parse patch %s: %v: %w", id, err, ErrInvalidPatchText)
	}

	return &Patch{
		id:       id,
		clientID: clientID,
		ops:      ops,
		m:        m,
		n:        n,
	}, nil
}

// MakePatch creates a Patch that turns from into to.
func MakePatch(id, clientID, from, to string, m, n Version) *Patch {
	return &Patch{
		id:       id,
		clientID: clientID,
		ops:      diffmatchpatch.New().PatchMake(from, to),
		m:        m,
		n:        n,
	}
}

// ID returns the ID of the patch.
func (p *Patch) ID() string {
	return p.id
}

// ClientID returns the ID of the client the patch belongs to.
func (p *Patch) ClientID() string {
	return p.clientID
}

// Ops returns a copy of the diff operations of the patch.
func (p *Patch) Ops() []diffmatchpatch.Patch {
	return diffmatchpatch.New().PatchDeepCopy(p.ops)
}

// M returns the version of the counterpart's text the patch is based on.
func (p *Patch) M() Version {
	return p.m
}

// N returns the edit sequence number of the sender.
func (p *Patch) N() Version {
	return p.n
}

// IsEmpty returns whether the patch carries no operations.
func (p *Patch) IsEmpty() bool {
	return len(p.ops) == 0
}

// Text returns the operations in the textual patch format.
func (p *Patch) Text() string {
	return diffmatchpatch.New().PatchToText(p.ops)
}

// Equal returns whether the two patches are the same. Patches are compared by ID.
func (p *Patch) Equal(other *Patch) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.id == other.id
}

// ApplyTo applies the operations to the given text on a best-effort basis. It
// returns the result with the number of operations that could not be matched.
func (p *Patch) ApplyTo(text string) (string, int) {
	return p.apply(text)
}

func (p *Patch) apply(text string) (string, int) {
	if len(p.ops) == 0 {
		return text, 0
	}

	result, applied := diffmatchpatch.New().PatchApply(p.ops, text)
	failed := 0
	for _, ok := range applied {
		if !ok {
			failed++
		}
	}
	return result, failed
}
