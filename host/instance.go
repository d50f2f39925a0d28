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

package host

import (
	"context"
	"time"

	"go.uber.org/atomic"

	"github.com/tochemey/durable/errors"
	"github.com/tochemey/durable/object"
)

// instance is one object identity held in memory.
// lock serializes the calls the object receives; a waiter gives up when its context ends.
type instance struct {
	lock       chan struct{}
	key        string
	entrypoint object.Entrypoint
	// set under lock once the instance left the instances map
	evicted      bool
	lastActivity *atomic.Time
	calls        *atomic.Int64
}

func newInstance(key string, entrypoint object.Entrypoint) *instance {
	return &instance{
		lock:         make(chan struct{}, 1),
		key:          key,
		entrypoint:   entrypoint,
		lastActivity: atomic.NewTime(time.Now()),
		calls:        atomic.NewInt64(0),
	}
}

// acquire waits for the running call, if any, until ctx is done
func (x *instance) acquire(ctx context.Context) error {
	select {
	case x.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// tryAcquire takes the lock only when no call is running
func (x *instance) tryAcquire() bool {
	select {
	case x.lock <- struct{}{}:
		return true
	default:
		return false
	}
}

func (x *instance) release() {
	<-x.lock
}

func (x *instance) touch() {
	x.lastActivity.Store(time.Now())
	x.calls.Inc()
}

func (x *instance) idle() time.Duration {
	return time.Since(x.lastActivity.Load())
}

func (x *instance) fetch(ctx context.Context, body []byte) (reply []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			reply, err = nil, errors.NewPanicError(r)
		}
	}()
	return x.entrypoint.Fetch(ctx, body)
}

func (x *instance) alarm(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewPanicError(r)
		}
	}()
	return x.entrypoint.Alarm(ctx)
}
