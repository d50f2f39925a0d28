// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package object

import (
	"context"

	"github.com/tochemey/durable/envelope"
	"github.com/tochemey/durable/internal/validation"
)

// Entrypoint is what the host calls for one object in memory
type Entrypoint interface {
	// Fetch delivers an encoded request envelope and returns the encoded response envelope
	Fetch(ctx context.Context, body []byte) ([]byte, error)
	// Alarm delivers the object's alarm
	Alarm(ctx context.Context) error
}

// Factory creates the entry points of one type of object.
// Kind implements it; the host registers factories by binding.
type Factory interface {
	// Binding returns the namespace served by the factory
	Binding() string
	// NewEntrypoint returns the entry point of an object that is not in memory yet
	NewEntrypoint(state *State) Entrypoint
	// Validate checks the factory can be registered
	Validate() error
}

// KindOption configures a Kind
type KindOption func(*kindConfig)

type kindConfig struct {
	codec envelope.Codec
}

// WithCodec sets the codec of the envelopes and of the values saved with PutValue.
// It defaults to envelope.JSON. Callers and hosts must agree on it.
func WithCodec(codec envelope.Codec) KindOption {
	return func(c *kindConfig) {
		c.codec = codec
	}
}

// Kind binds a Definition to its error type E.
// It is shared by callers, which need it to build typed requests,
// and by hosts, which need it to run objects.
type Kind[I, Req, Resp any, E error] struct {
	definition Definition[I, Req, Resp]
	codec      envelope.Codec
}

var _ Factory = (*Kind[struct{}, struct{}, struct{}, Failure])(nil)

// NewKind creates a Kind
func NewKind[I, Req, Resp any, E error](definition Definition[I, Req, Resp], opts ...KindOption) *Kind[I, Req, Resp, E] {
	config := &kindConfig{codec: envelope.JSON}
	for _, opt := range opts {
		opt(config)
	}
	return &Kind[I, Req, Resp, E]{
		definition: definition,
		codec:      config.codec,
	}
}

// Binding returns the namespace of the kind
func (k *Kind[I, Req, Resp, E]) Binding() string {
	return k.definition.Binding()
}

// Codec returns the envelope codec
func (k *Kind[I, Req, Resp, E]) Codec() envelope.Codec {
	return k.codec
}

// Validate checks the kind is well-formed
func (k *Kind[I, Req, Resp, E]) Validate() error {
	chain := validation.New(validation.FailFast()).
		AddAssertion(k.definition != nil, "object definition is required").
		AddAssertion(k.codec != nil, "codec is required")
	if k.definition != nil {
		chain.AddValidator(validation.NewBindingValidator(k.definition.Binding()))
	}
	return chain.Validate()
}

// NewEntrypoint returns a Dispatcher with an empty instance slot
func (k *Kind[I, Req, Resp, E]) NewEntrypoint(state *State) Entrypoint {
	return NewDispatcher(k, state)
}
