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
	"os"
	"path/filepath"
	"time"

	bbolt "go.etcd.io/bbolt"
	"go.uber.org/atomic"

	"github.com/tochemey/durable/errors"
)

const (
	boltFileMode   os.FileMode = 0o600
	boltBucketName             = "objects"
	boltTimeout                = 5 * time.Second
)

// Bolt is a Store persisted in a single bbolt file.
// bbolt allows one writer and many readers, so writes from different
// objects are serialized while reads run concurrently.
type Bolt struct {
	db     *bbolt.DB
	bucket []byte
	closed *atomic.Bool
}

var _ Store = (*Bolt)(nil)

// NewBolt opens, or creates, the bbolt database at path.
// Closing the store keeps the file so a later NewBolt recovers the data.
func NewBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create bolt directory: %w", err)
	}

	db, err := bbolt.Open(path, boltFileMode, &bbolt.Options{Timeout: boltTimeout})
	if err != nil {
		return nil, fmt.Errorf("storage: open bolt: %w", err)
	}

	bucket := []byte(boltBucketName)
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(bucket)
		return e
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: create bolt bucket: %w", err)
	}

	return &Bolt{db: db, bucket: bucket, closed: atomic.NewBool(false)}, nil
}

// Get returns the value held by key
func (s *Bolt) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := s.check(ctx, key); err != nil {
		return nil, false, err
	}

	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(s.bucket).Get([]byte(key))
		if raw != nil {
			// raw is only valid for the life of the transaction
			value = clone(raw)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, value != nil, nil
}

// Put stores value under key
func (s *Bolt) Put(ctx context.Context, key string, value []byte) error {
	if err := s.check(ctx, key); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), clone(value))
	})
}

// Delete removes key
func (s *Bolt) Delete(ctx context.Context, key string) (bool, error) {
	if err := s.check(ctx, key); err != nil {
		return false, err
	}

	var existed bool
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(s.bucket)
		existed = bucket.Get([]byte(key)) != nil
		if !existed {
			return nil
		}
		return bucket.Delete([]byte(key))
	})
	return existed, err
}

// Close releases the database file lock
func (s *Bolt) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

func (s *Bolt) check(ctx context.Context, key string) error {
	if s.closed.Load() {
		return errors.ErrStoreClosed
	}
	if err := checkKey(key); err != nil {
		return err
	}
	return contextErr(ctx)
}
