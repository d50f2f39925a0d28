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

// Package testkit helps testing durable objects.
//
// TestKit runs objects on an in-process host backed by memory storage:
//
//	kit := testkit.New(ctx, t, CounterKind)
//	counter := testkit.Named(t, kit, CounterKind, "visits")
//	count, err := counter.Send(Increment{}).Do(ctx)
//
// NewContext builds a standalone object context to call the hooks of a
// definition directly.
package testkit

import (
	"context"
	"testing"

	"github.com/tochemey/durable/address"
	"github.com/tochemey/durable/envelope"
	"github.com/tochemey/durable/host"
	"github.com/tochemey/durable/log"
	"github.com/tochemey/durable/object"
	"github.com/tochemey/durable/passivation"
	"github.com/tochemey/durable/proxy"
	"github.com/tochemey/durable/storage"
)

// TestKit defines the objects test kit
type TestKit struct {
	host  *host.Host
	store *storage.Memory
	kt    testing.TB
}

var _ address.Env = (*TestKit)(nil)

// New starts a host running the given kinds.
// Objects are never passivated unless Evict is called. The host stops with the test.
func New(ctx context.Context, t testing.TB, factories ...object.Factory) *TestKit {
	t.Helper()
	store := storage.NewMemory()
	h := host.New("testkit",
		host.WithLogger(log.DiscardLogger),
		host.WithStorage(store),
		host.WithPassivation(passivation.NewLongLivedStrategy()))

	if err := h.Register(factories...); err != nil {
		t.Fatal(err.Error())
	}

	if err := h.Start(ctx); err != nil {
		t.Fatal(err.Error())
	}

	t.Cleanup(func() {
		if err := h.Stop(context.WithoutCancel(ctx)); err != nil {
			t.Error(err.Error())
		}
	})

	return &TestKit{host: h, store: store, kt: t}
}

// Host returns the host running the objects
func (k *TestKit) Host() *host.Host {
	return k.host
}

// Storage returns the storage shared by every object of the kit
func (k *TestKit) Storage() *storage.Memory {
	return k.store
}

// Namespace implements address.Env
func (k *TestKit) Namespace(binding string) (address.Namespace, error) {
	return k.host.Namespace(binding)
}

// Evict removes the object from memory so that the next call loads it from storage.
// It fails the test when the object is not in memory.
func (k *TestKit) Evict(binding string, id address.ID) {
	k.kt.Helper()
	if !k.host.Evict(binding, id) {
		k.kt.Fatalf("object %s/%s is not in memory", binding, id)
	}
}

// Stored returns the raw value saved by an object under key
func (k *TestKit) Stored(ctx context.Context, binding string, id address.ID, key string) ([]byte, bool) {
	k.kt.Helper()
	value, found, err := k.store.Get(ctx, binding+"/"+id.String()+"/"+key)
	if err != nil {
		k.kt.Fatal(err.Error())
	}
	return value, found
}

// Named returns a proxy to the named object of the kit
func Named[I, Req, Resp any, E error](t testing.TB, kit *TestKit, kind *object.Kind[I, Req, Resp, E], name string) *proxy.Proxy[I, Req, Resp, E] {
	t.Helper()
	p, err := proxy.Named(kit, kind, name)
	if err != nil {
		t.Fatal(err.Error())
	}
	return p
}

// NewContext returns a standalone context for the named object of binding.
// It uses memory storage and the JSON codec unless options say otherwise.
func NewContext(ctx context.Context, binding, name string, opts ...object.StateOption) *object.Context {
	state := object.NewState(binding, address.NewNamedID(binding, name), storage.NewMemory(), opts...)
	return object.NewContext(ctx, state, envelope.JSON)
}
