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

import "fmt"

// IdentifierType is the role of a synchronization participant.
type IdentifierType string

const (
	// IdentifierTypeClient is the type of participants editing an entity.
	IdentifierTypeClient IdentifierType = "client"

	// IdentifierTypeServer is the type of the participant holding canonical text.
	IdentifierTypeServer IdentifierType = "server"
)

// Identifier identifies one synchronization participant.
type Identifier struct {
	typ      IdentifierType
	serverID string
	clientID string
}

// NewIdentifier creates a new Identifier.
func NewIdentifier(typ IdentifierType, serverID, clientID string) Identifier {
	return Identifier{
		typ:      typ,
		serverID: serverID,
		clientID: clientID,
	}
}

// NewClientIdentifier creates an Identifier of a client session.
func NewClientIdentifier(serverID, clientID string) Identifier {
	return NewIdentifier(IdentifierTypeClient, serverID, clientID)
}

// Type returns the role of the participant.
func (i Identifier) Type() IdentifierType {
	return i.typ
}

// ServerID returns the ID of the server the participant is bound to.
func (i Identifier) ServerID() string {
	return i.serverID
}

// ClientID returns the ID of the client.
func (i Identifier) ClientID() string {
	return i.clientID
}

// URN returns the stable key of the participant, used to register its session.
func (i Identifier) URN() string {
	return fmt.Sprintf("urn:diffsync:%s:%s:%s", i.typ, i.serverID, i.clientID)
}

// String returns the URN of the participant.
func (i Identifier) String() string {
	return i.URN()
}
