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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/durable/errors"
	"github.com/tochemey/durable/log"
	"github.com/tochemey/durable/object"
	"github.com/tochemey/durable/proxy"
	"github.com/tochemey/durable/reentrancy"
)

type loopOp struct {
	Op   string `json:"op"`
	Name string `json:"name,omitempty"`
	N    int    `json:"n,omitempty"`
}

// loopDefinition describes an object that calls itself through its own environment
type loopDefinition struct {
	kind    *object.Kind[int, loopOp, int, object.Failure]
	held    chan struct{}
	release chan struct{}
}

func newLoopKind() *loopDefinition {
	definition := &loopDefinition{
		held:    make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	definition.kind = object.NewKind[int, loopOp, int, object.Failure](definition)
	return definition
}

func (*loopDefinition) Binding() string { return "LOOP" }

func (*loopDefinition) Init(ctx *object.Context, start int) error {
	return object.PutValue(ctx, "count", start)
}

func (d *loopDefinition) LoadFromStorage(ctx *object.Context) (object.Object[loopOp, int], error) {
	count, _, err := object.GetValue[int](ctx, "count")
	if err != nil {
		return nil, err
	}
	loads, _, err := object.GetValue[int](ctx, "loads")
	if err != nil {
		return nil, err
	}
	if err := object.PutValue(ctx, "loads", loads+1); err != nil {
		return nil, err
	}
	return &loop{definition: d, count: count}, nil
}

type loop struct {
	definition *loopDefinition
	count      int
}

func (x *loop) Handle(ctx *object.Context, request object.Request[loopOp]) (int, error) {
	op, _ := request.Fetched()
	switch op.Op {
	case "get":
		return x.count, nil
	case "loads":
		loads, _, err := object.GetValue[int](ctx, "loads")
		return loads, err
	case "bump":
		x.count++
		if err := object.PutValue(ctx, "count", x.count); err != nil {
			return 0, err
		}
		self, err := proxy.Named(ctx.Env(), x.definition.kind, op.Name)
		if err != nil {
			return 0, err
		}
		return self.Send(loopOp{Op: "get"}).Do(ctx.Context())
	case "recurse":
		if op.N == 0 {
			return 0, nil
		}
		self, err := proxy.Named(ctx.Env(), x.definition.kind, op.Name)
		if err != nil {
			return 0, err
		}
		depth, err := self.Send(loopOp{Op: "recurse", Name: op.Name, N: op.N - 1}).Do(ctx.Context())
		return depth + 1, err
	case "hold":
		x.definition.held <- struct{}{}
		<-x.definition.release
		return x.count, nil
	default:
		return 0, object.NewFailure("unknown", "unknown op %q", op.Op)
	}
}

func startLoopHost(t *testing.T, definition *loopDefinition, opts ...Option) *Host {
	t.Helper()
	opts = append([]Option{WithLogger(log.DiscardLogger)}, opts...)
	h := New("loop", opts...)
	require.NoError(t, h.Register(definition.kind))
	require.NoError(t, h.Start(context.Background()))
	t.Cleanup(func() {
		require.NoError(t, h.Stop(context.Background()))
	})
	return h
}

func TestHostReentrancy(t *testing.T) {
	t.Run("With a self call", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		definition := newLoopKind()
		h := startLoopHost(t, definition)

		me, err := proxy.Named(h, definition.kind, "me")
		require.NoError(t, err)
		objectErr, err := me.Init(1).Do(ctx)
		require.NoError(t, err)
		require.Nil(t, objectErr)

		// the inner call finds the slot empty and rebuilds the object from storage
		count, err := me.Send(loopOp{Op: "bump", Name: "me"}).Do(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		loads, err := me.Send(loopOp{Op: "loads"}).Do(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, loads)

		count, err = me.Send(loopOp{Op: "get"}).Do(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Equal(t, 1, h.Len())
	})
	t.Run("With a call to another identity of the same kind", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		definition := newLoopKind()
		h := startLoopHost(t, definition, WithReentrancy(reentrancy.New(reentrancy.WithMode(reentrancy.Off))))

		other, err := proxy.Named(h, definition.kind, "other")
		require.NoError(t, err)
		_, err = other.Init(7).Do(ctx)
		require.NoError(t, err)

		me, err := proxy.Named(h, definition.kind, "me")
		require.NoError(t, err)
		_, err = me.Init(1).Do(ctx)
		require.NoError(t, err)

		count, err := me.Send(loopOp{Op: "bump", Name: "other"}).Do(ctx)
		require.NoError(t, err)
		assert.Equal(t, 7, count)
	})
	t.Run("With reentrancy off", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		definition := newLoopKind()
		h := startLoopHost(t, definition, WithReentrancy(reentrancy.New(reentrancy.WithMode(reentrancy.Off))))

		me, err := proxy.Named(h, definition.kind, "me")
		require.NoError(t, err)
		_, err = me.Init(1).Do(ctx)
		require.NoError(t, err)

		_, err = me.Send(loopOp{Op: "bump", Name: "me"}).Do(ctx)
		require.ErrorIs(t, err, errors.ErrReentrantCall)

		// the identity keeps serving
		count, err := me.Send(loopOp{Op: "get"}).Do(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
	t.Run("With a depth limit", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		definition := newLoopKind()
		h := startLoopHost(t, definition, WithReentrancy(reentrancy.New(reentrancy.WithMaxDepth(2))))

		me, err := proxy.Named(h, definition.kind, "me")
		require.NoError(t, err)
		_, err = me.Init(0).Do(ctx)
		require.NoError(t, err)

		depth, err := me.Send(loopOp{Op: "recurse", Name: "me", N: 2}).Do(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, depth)

		_, err = me.Send(loopOp{Op: "recurse", Name: "me", N: 3}).Do(ctx)
		require.ErrorIs(t, err, errors.ErrReentrancyDepthExceeded)
	})
	t.Run("With an invalid reentrancy mode", func(t *testing.T) {
		definition := newLoopKind()
		h := New("invalid", WithLogger(log.DiscardLogger), WithReentrancy(reentrancy.New(reentrancy.WithMode(reentrancy.Mode(99)))))
		require.NoError(t, h.Register(definition.kind))
		require.ErrorIs(t, h.Start(context.Background()), errors.ErrInvalidReentrancyMode)
		assert.False(t, h.Running())
	})
	t.Run("With a waiting caller whose context expires", func(t *testing.T) {
		ctx := context.Background()

		definition := newLoopKind()
		h := startLoopHost(t, definition)

		me, err := proxy.Named(h, definition.kind, "me")
		require.NoError(t, err)
		_, err = me.Init(5).Do(ctx)
		require.NoError(t, err)

		holdErr := make(chan error, 1)
		go func() {
			_, err := me.Send(loopOp{Op: "hold"}).Do(ctx)
			holdErr <- err
		}()
		<-definition.held

		waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		_, err = me.Send(loopOp{Op: "get"}).Do(waitCtx)
		require.ErrorIs(t, err, context.DeadlineExceeded)

		close(definition.release)
		require.NoError(t, <-holdErr)

		count, err := me.Send(loopOp{Op: "get"}).Do(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, count)
	})
}
