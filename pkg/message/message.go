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

// Package message provides the envelope used to route payloads such as
// patches and acks through a transport.
package message

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/rs/xid"
)

// Identifiable is a body that carries its own ID.
type Identifiable interface {
	ID() string
}

// Envelope is a message whose body type is not known statically.
type Envelope interface {
	ID() string
	Type() reflect.Type
	Payload() any
}

// Message wraps a body with an identifier.
type Message[T any] struct {
	id   string
	body T
}

// Build wraps the given body. The message takes the ID of the body if it has
// one, otherwise a new ID is generated.
func Build[T any](body T) *Message[T] {
	if identifiable, ok := any(body).(Identifiable); ok {
		return &Message[T]{id: identifiable.ID(), body: body}
	}

	return &Message[T]{id: xid.New().String(), body: body}
}

// WithID wraps the given body with the given ID.
func WithID[T any](id string, body T) *Message[T] {
	return &Message[T]{id: id, body: body}
}

// Map returns a message with the same ID whose body is converted by f.
func Map[T, U any](m *Message[T], f func(T) U) *Message[U] {
	return &Message[U]{id: m.id, body: f(m.body)}
}

// ID returns the ID of the message.
func (m *Message[T]) ID() string {
	return m.id
}

// Body returns the body of the message.
func (m *Message[T]) Body() T {
	return m.body
}

// Type returns the runtime type of the body.
func (m *Message[T]) Type() reflect.Type {
	return reflect.TypeOf(m.body)
}

// Payload returns the body as an untyped value.
func (m *Message[T]) Payload() any {
	return m.body
}

// Frame is the JSON form of a message. Type names the kind of the body so
// that the receiver knows what to decode it into.
type Frame struct {
	Type string          `json:"type"`
	ID   string          `json:"id"`
	Body json.RawMessage `json:"body,omitempty"`
}

// Marshal encodes the message into a frame of the given type.
func Marshal[T any](typ string, m *Message[T]) ([]byte, error) {
	body, err := json.Marshal(m.body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s body: %w", typ, err)
	}

	data, err := json.Marshal(&Frame{Type: typ, ID: m.id, Body: body})
	if err != nil {
		return nil, fmt.Errorf("marshal %s frame: %w", typ, err)
	}
	return data, nil
}

// ParseFrame decodes a frame without decoding its body.
func ParseFrame(data []byte) (*Frame, error) {
	frame := &Frame{}
	if err := json.Unmarshal(data, frame); err != nil {
		return nil, fmt.Errorf("parse frame: %w", err)
	}
	if frame.Type == "" {
		return nil, fmt.Errorf("parse frame: %w", ErrMissingType)
	}
	return frame, nil
}

// Unmarshal decodes the body of the frame into a message of T.
func Unmarshal[T any](frame *Frame) (*Message[T], error) {
	var body T
	if len(frame.Body) > 0 {
		if err := json.Unmarshal(frame.Body, &body); err != nil {
			return nil, fmt.Errorf("unmarshal %s body: %w", frame.Type, err)
		}
	}

	return WithID(frame.ID, body), nil
}
