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

// Package proxy provides typed handles to durable objects.
//
// A Proxy encodes requests into envelopes, ships them through an address.Stub
// and decodes the reply, so callers never touch the wire format:
//
//	counter, err := proxy.Named(env, CounterKind, "visits")
//	if err != nil {
//	    return err
//	}
//	count, err := counter.Send(Increment{}).Do(ctx)
package proxy

import (
	"github.com/tochemey/durable/address"
	"github.com/tochemey/durable/object"
)

// Proxy is a typed handle to one durable object
type Proxy[I, Req, Resp any, E error] struct {
	kind *object.Kind[I, Req, Resp, E]
	stub address.Stub
}

// New binds a stub to the kind of the object behind it
func New[I, Req, Resp any, E error](kind *object.Kind[I, Req, Resp, E], stub address.Stub) *Proxy[I, Req, Resp, E] {
	return &Proxy[I, Req, Resp, E]{
		kind: kind,
		stub: stub,
	}
}

// Named returns a proxy to the object with the given name in the kind's namespace.
// The same name always resolves to the same object.
func Named[I, Req, Resp any, E error](env address.Env, kind *object.Kind[I, Req, Resp, E], name string) (*Proxy[I, Req, Resp, E], error) {
	namespace, err := env.Namespace(kind.Binding())
	if err != nil {
		return nil, err
	}
	return fromNamespace(namespace, kind, namespace.IDFromName(name))
}

// FromID returns a proxy to the object with the given hexadecimal id
func FromID[I, Req, Resp any, E error](env address.Env, kind *object.Kind[I, Req, Resp, E], id string) (*Proxy[I, Req, Resp, E], error) {
	namespace, err := env.Namespace(kind.Binding())
	if err != nil {
		return nil, err
	}

	parsed, err := namespace.IDFromString(id)
	if err != nil {
		return nil, err
	}
	return fromNamespace(namespace, kind, parsed)
}

// Unique returns a proxy to a new object with a random id
func Unique[I, Req, Resp any, E error](env address.Env, kind *object.Kind[I, Req, Resp, E]) (*Proxy[I, Req, Resp, E], error) {
	namespace, err := env.Namespace(kind.Binding())
	if err != nil {
		return nil, err
	}
	return fromNamespace(namespace, kind, namespace.UniqueID())
}

func fromNamespace[I, Req, Resp any, E error](namespace address.Namespace, kind *object.Kind[I, Req, Resp, E], id address.ID) (*Proxy[I, Req, Resp, E], error) {
	stub, err := namespace.Stub(id)
	if err != nil {
		return nil, err
	}
	return New(kind, stub), nil
}

// ID returns the identity of the object behind the proxy
func (p *Proxy[I, Req, Resp, E]) ID() address.ID {
	return p.stub.ID()
}

// Builder starts a new call
func (p *Proxy[I, Req, Resp, E]) Builder() *Builder[I, Req, Resp, E] {
	return &Builder[I, Req, Resp, E]{call: &call[I, Req, Resp, E]{proxy: p}}
}

// Send starts a call carrying a request
func (p *Proxy[I, Req, Resp, E]) Send(request Req) *SendBuilder[I, Req, Resp, E] {
	return p.Builder().Send(request)
}

// Init starts a call initializing the object
func (p *Proxy[I, Req, Resp, E]) Init(init I) *InitBuilder[I, Req, Resp, E] {
	return p.Builder().Init(init)
}
