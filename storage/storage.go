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

// Package storage defines the durable key-value storage available to objects
// and the backends the host can persist it in.
package storage

import (
	"context"
)

// Store is a durable key-value store.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value held by key. found is false when the key does not exist.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Put stores value under key, replacing any existing value
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key and reports whether it existed
	Delete(ctx context.Context, key string) (bool, error)
	// Close releases the resources held by the store
	Close() error
}

// scoped restricts a Store to the keys starting with a prefix
type scoped struct {
	store  Store
	prefix string
}

var _ Store = (*scoped)(nil)

// WithPrefix returns a view of store where every key is prefixed.
// Closing the view does not close store.
func WithPrefix(store Store, prefix string) Store {
	if inner, ok := store.(*scoped); ok {
		return &scoped{store: inner.store, prefix: inner.prefix + prefix}
	}
	return &scoped{store: store, prefix: prefix}
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}
	return s.store.Get(ctx, s.prefix+key)
}

func (s *scoped) Put(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return s.store.Put(ctx, s.prefix+key, value)
}

func (s *scoped) Delete(ctx context.Context, key string) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}
	return s.store.Delete(ctx, s.prefix+key)
}

func (s *scoped) Close() error {
	return nil
}
