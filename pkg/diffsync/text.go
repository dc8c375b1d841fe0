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

// ServerText is the canonical text of an entity shared by all its sessions.
type ServerText struct {
	content string
}

// NewServerText creates a new ServerText.
func NewServerText(content string) *ServerText {
	return &ServerText{content: content}
}

// Content returns the canonical text.
func (t *ServerText) Content() string {
	return t.content
}

// Apply applies the patch on a best-effort basis. It returns the new text and
// the number of hunks that could not be matched and were dropped.
func (t *ServerText) Apply(patch *Patch) (*ServerText, int) {
	content, failed := patch.apply(t.content)
	return &ServerText{content: content}, failed
}
