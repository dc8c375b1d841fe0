/*
 * Copyright 2024 The Yorkie Authors. All rights reserved.
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

package types

// Keys of the request headers sent by the Go client.
const (
	// UserAgentKey is the key of the user agent header.
	UserAgentKey = "x-diffsync-user-agent"

	// ClientIDKey is the key of the header carrying the client key.
	ClientIDKey = "x-diffsync-client-id"

	// GoSDKType is the user agent type of the Go client.
	GoSDKType = "diffsync-go-sdk"
)
