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

import "context"

// Channel is the transport of a session to its client. The engine only builds
// payloads; how and whether they are delivered is up to the channel.
type Channel interface {
	// ID returns the ID of the underlying connection.
	ID() string

	// Send delivers the message to the client.
	Send(ctx context.Context, msg any) error
}
