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


package v1connect

import (
	"encoding/json"
)

// CodecName is the name of the codec. Requests and responses are sent with
// the content type application/json.
const CodecName = "json"

// Codec marshals the messages of the sync service, which are the structs of
// package types, as JSON. It replaces the JSON codec of connect, which only
// handles protobuf messages.
type Codec struct{}

// Name returns the name of the codec.
func (Codec) Name() string {
	return CodecName
}

// Marshal encodes the message.
func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal decodes the data into the message.
func (Codec) Unmarshal(data []byte, msg any) error {
	return json.Unmarshal(data, msg)
}
