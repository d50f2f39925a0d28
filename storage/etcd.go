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
	"fmt"
	"time"

	"github.com/flowchartsman/retry"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/namespace"
	"go.uber.org/atomic"

	"github.com/tochemey/durable/errors"
)

// Etcd is a Store backed by an etcd cluster.
// Every key lives under the prefix given at creation.
type Etcd struct {
	client *clientv3.Client
	kv     clientv3.KV
	closed *atomic.Bool
}

var _ Store = (*Etcd)(nil)

// NewEtcd connects to etcd and waits until the cluster answers a read.
func NewEtcd(ctx context.Context, config clientv3.Config, prefix string) (*Etcd, error) {
	client, err := clientv3.New(config)
	if err != nil {
		return nil, fmt.Errorf("storage: etcd client: %w", err)
	}

	kv := namespace.NewKV(client.KV, prefix)
	retrier := retry.NewRetrier(5, 100*time.Millisecond, time.Second)
	if err := retrier.RunContext(ctx, func(ctx context.Context) error {
		_, err := kv.Get(ctx, "health", clientv3.WithCountOnly())
		return err
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("storage: etcd health: %w", err)
	}

	return &Etcd{client: client, kv: kv, closed: atomic.NewBool(false)}, nil
}

// Get returns the value held by key
func (s *Etcd) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := s.check(key); err != nil {
		return nil, false, err
	}

	resp, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if len(resp.Kvs) == 0 {
		return nil, false, nil
	}
	return resp.Kvs[0].Value, true, nil
}

// Put stores value under key
func (s *Etcd) Put(ctx context.Context, key string, value []byte) error {
	if err := s.check(key); err != nil {
		return err
	}
	_, err := s.kv.Put(ctx, key, string(value))
	return err
}

// Delete removes key
func (s *Etcd) Delete(ctx context.Context, key string) (bool, error) {
	if err := s.check(key); err != nil {
		return false, err
	}
	resp, err := s.kv.Delete(ctx, key)
	if err != nil {
		return false, err
	}
	return resp.Deleted > 0, nil
}

// Close closes the etcd client
func (s *Etcd) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.client.Close()
}

func (s *Etcd) check(key string) error {
	if s.closed.Load() {
		return errors.ErrStoreClosed
	}
	return checkKey(key)
}
