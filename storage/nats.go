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
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/durable/errors"
)

// NATS is a Store backed by a NATS JetStream key-value bucket.
// Keys are base64url encoded since the bucket only accepts subject-safe keys.
type NATS struct {
	conn   *nats.Conn
	kv     nats.KeyValue
	closed *atomic.Bool
}

var _ Store = (*NATS)(nil)

// NewNATS connects to the NATS server at url and opens the bucket, creating it when missing.
func NewNATS(url, bucket string, connectTimeout time.Duration) (*NATS, error) {
	conn, err := nats.Connect(url, nats.Timeout(connectTimeout))
	if err != nil {
		return nil, fmt.Errorf("storage: nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: nats jetstream: %w", err)
	}

	kv, err := js.KeyValue(bucket)
	if err != nil {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{Bucket: bucket})
		// another host may have created the bucket meanwhile
		if err != nil && errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
			kv, err = js.KeyValue(bucket)
		}
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("storage: nats bucket: %w", err)
		}
	}

	return &NATS{conn: conn, kv: kv, closed: atomic.NewBool(false)}, nil
}

// Get returns the value held by key
func (s *NATS) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := s.check(ctx, key); err != nil {
		return nil, false, err
	}

	entry, err := s.kv.Get(encodeKey(key))
	if err != nil {
		if isMissing(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return entry.Value(), true, nil
}

// Put stores value under key
func (s *NATS) Put(ctx context.Context, key string, value []byte) error {
	if err := s.check(ctx, key); err != nil {
		return err
	}
	_, err := s.kv.Put(encodeKey(key), value)
	return err
}

// Delete removes key
func (s *NATS) Delete(ctx context.Context, key string) (bool, error) {
	if err := s.check(ctx, key); err != nil {
		return false, err
	}

	encoded := encodeKey(key)
	if _, err := s.kv.Get(encoded); err != nil {
		if isMissing(err) {
			return false, nil
		}
		return false, err
	}
	if err := s.kv.Delete(encoded); err != nil {
		return false, err
	}
	return true, nil
}

// Close closes the NATS connection
func (s *NATS) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.conn.Close()
	return nil
}

func (s *NATS) check(ctx context.Context, key string) error {
	if s.closed.Load() {
		return gerrors.ErrStoreClosed
	}
	if err := checkKey(key); err != nil {
		return err
	}
	return contextErr(ctx)
}

func encodeKey(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

func isMissing(err error) bool {
	return errors.Is(err, nats.ErrKeyNotFound) || errors.Is(err, nats.ErrKeyDeleted)
}
