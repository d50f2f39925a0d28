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
	"errors"
	"fmt"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/redis/go-redis/v9"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/durable/errors"
)

// Redis is a Store backed by a Redis server or cluster.
type Redis struct {
	client redis.UniversalClient
	closed *atomic.Bool
}

var _ Store = (*Redis)(nil)

// NewRedis connects to Redis and waits until the server answers a PING.
// Connection attempts are retried with backoff until ctx is done.
func NewRedis(ctx context.Context, options *redis.UniversalOptions) (*Redis, error) {
	client := redis.NewUniversalClient(options)
	retrier := retry.NewRetrier(5, 100*time.Millisecond, time.Second)
	if err := retrier.RunContext(ctx, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("storage: redis ping: %w", err)
	}
	return &Redis{client: client, closed: atomic.NewBool(false)}, nil
}

// Get returns the value held by key
func (s *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := s.check(key); err != nil {
		return nil, false, err
	}

	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

// Put stores value under key, without expiry
func (s *Redis) Put(ctx context.Context, key string, value []byte) error {
	if err := s.check(key); err != nil {
		return err
	}
	return s.client.Set(ctx, key, value, 0).Err()
}

// Delete removes key
func (s *Redis) Delete(ctx context.Context, key string) (bool, error) {
	if err := s.check(key); err != nil {
		return false, err
	}
	removed, err := s.client.Del(ctx, key).Result()
	return removed > 0, err
}

// Close closes the client connections
func (s *Redis) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.client.Close()
}

func (s *Redis) check(key string) error {
	if s.closed.Load() {
		return gerrors.ErrStoreClosed
	}
	return checkKey(key)
}
