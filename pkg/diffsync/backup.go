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

// ServerBackup is the shadow as it was when the server last sent a patch. It
// is kept until the client acknowledges the patch.
type ServerBackup struct {
	content    string
	m          Version
	identifier Identifier
}

// NewServerBackup creates a new ServerBackup.
func NewServerBackup(content string, m Version, identifier Identifier) *ServerBackup {
	return &ServerBackup{
		content:    content,
		m:          m,
		identifier: identifier,
	}
}

// Content returns the text of the backup.
func (b *ServerBackup) Content() string {
	return b.content
}

// M returns the number of edits sent to the client when the backup was taken.
func (b *ServerBackup) M() Version {
	return b.m
}

// Identifier returns the participant the backup belongs to.
func (b *ServerBackup) Identifier() Identifier {
	return b.identifier
}
