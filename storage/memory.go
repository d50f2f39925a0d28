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

package storage

import (
	"context"
	"sync"

	"go.uber.org/atomic"

	"github.com/tochemey/durable/errors"
)

// Memory is an in-memory Store. Data does not survive the process.
type Memory struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed *atomic.Bool
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory Store
func NewMemory() *Memory {
	return &Memory{
		data:   make(map[string][]byte),
		closed: atomic.NewBool(false),
	}
}

// Get returns a copy of the value held by key
func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := m.check(ctx, key); err != nil {
		return nil, false, err
	}

	m.mu.RLock()
	value, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return clone(value), true, nil
}

// Put stores a copy of value under key
func (m *Memory) Put(ctx context.Context, key string, value []byte) error {
	if err := m.check(ctx, key); err != nil {
		return err
	}

	m.mu.Lock()
	m.data[key] = clone(value)
	m.mu.Unlock()
	return nil
}

// Delete removes key
func (m *Memory) Delete(ctx context.Context, key string) (bool, error) {
	if err := m.check(ctx, key); err != nil {
		return false, err
	}

	m.mu.Lock()
	_, ok := m.data[key]
	delete(m.data, key)
	m.mu.Unlock()
	return ok, nil
}

// Len returns the number of keys held
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Close drops the data
func (m *Memory) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	m.mu.Lock()
	clear(m.data)
	m.mu.Unlock()
	return nil
}

func (m *Memory) check(ctx context.Context, key string) error {
	if m.closed.Load() {
		return errors.ErrStoreClosed
	}
	if err := checkKey(key); err != nil {
		return err
	}
	return contextErr(ctx)
}

func clone(value []byte) []byte {
	if value == nil {
		return []byte{}
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out
}
