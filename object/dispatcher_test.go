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

package object

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/durable/address"
	"github.com/tochemey/durable/envelope"
	gerrors "github.com/tochemey/durable/errors"
	"github.com/tochemey/durable/storage"
)

type recorder struct {
	mu        sync.Mutex
	calls     []string
	initErr   error
	loadErr   error
	handleErr error
	nilObject bool
	panics    bool
}

func (p *recorder) record(call string) {
	p.mu.Lock()
	p.calls = append(p.calls, call)
	p.mu.Unlock()
}

func (p *recorder) drain() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	calls := p.calls
	p.calls = nil
	return calls
}

type recorderDefinition struct {
	recorder *recorder
}

func (recorderDefinition) Binding() string { return "RECORDER" }

func (d recorderDefinition) Init(_ *Context, init string) error {
	d.recorder.record("init:" + init)
	return d.recorder.initErr
}

func (d recorderDefinition) LoadFromStorage(*Context) (Object[string, string], error) {
	d.recorder.record("load")
	if d.recorder.loadErr != nil {
		return nil, d.recorder.loadErr
	}
	if d.recorder.nilObject {
		return nil, nil
	}
	return &recorderObject{recorder: d.recorder}, nil
}

type recorderObject struct {
	recorder *recorder
}

func (o *recorderObject) Handle(_ *Context, request Request[string]) (string, error) {
	if request.IsAlarm() {
		o.recorder.record("alarm")
		return "", o.recorder.handleErr
	}
	payload, _ := request.Fetched()
	o.recorder.record("fetch:" + payload)
	if o.recorder.panics {
		panic("handler exploded")
	}
	return "ok:" + payload, o.recorder.handleErr
}

func newRecorderDispatcher(p *recorder, opts ...KindOption) *Dispatcher[string, string, string, Failure] {
	kind := NewKind[string, string, string, Failure](recorderDefinition{recorder: p}, opts...)
	state := NewState(kind.Binding(), address.NewNamedID(kind.Binding(), "recorder"), storage.NewMemory())
	return kind.NewEntrypoint(state).(*Dispatcher[string, string, string, Failure])
}

func fetch(t *testing.T, d *Dispatcher[string, string, string, Failure], request envelope.Request[string, string]) (envelope.Response[string, Failure], error) {
	t.Helper()
	body, err := envelope.EncodeRequest(d.kind.codec, request)
	require.NoError(t, err)
	reply, err := d.Fetch(context.Background(), body)
	if err != nil {
		return envelope.Response[string, Failure]{}, err
	}
	response, err := envelope.DecodeResponse[string, Failure](d.kind.codec, reply)
	require.NoError(t, err)
	return response, nil
}

func TestDispatcher(t *testing.T) {
	t.Run("With cold start then warm call", func(t *testing.T) {
		p := new(recorder)
		d := newRecorderDispatcher(p)

		response, err := fetch(t, d, envelope.NewInitWithRequest("seed", "first"))
		require.NoError(t, err)
		value, ok := response.Response()
		require.True(t, ok)
		assert.Equal(t, "ok:first", value)
		assert.Equal(t, []string{"init:seed", "load", "fetch:first"}, p.drain())
		assert.True(t, d.Loaded())

		response, err = fetch(t, d, envelope.NewRequest[string]("second"))
		require.NoError(t, err)
		value, _ = response.Response()
		assert.Equal(t, "ok:second", value)
		assert.Equal(t, []string{"fetch:second"}, p.drain())
	})
	t.Run("With init only", func(t *testing.T) {
		p := new(recorder)
		d := newRecorderDispatcher(p)

		response, err := fetch(t, d, envelope.NewInit[string, string]("seed"))
		require.NoError(t, err)
		assert.True(t, response.IsInitialized())
		assert.Equal(t, []string{"init:seed", "load"}, p.drain())
		assert.True(t, d.Loaded())
	})
	t.Run("With request on a cold object", func(t *testing.T) {
		p := new(recorder)
		d := newRecorderDispatcher(p)

		_, err := fetch(t, d, envelope.NewRequest[string]("only"))
		require.NoError(t, err)
		assert.Equal(t, []string{"load", "fetch:only"}, p.drain())
	})
	t.Run("With init payload on a warm object", func(t *testing.T) {
		p := new(recorder)
		d := newRecorderDispatcher(p)
		_, err := fetch(t, d, envelope.NewRequest[string]("warmup"))
		require.NoError(t, err)
		p.drain()

		_, err = fetch(t, d, envelope.NewInitWithRequest("late", "next"))
		require.ErrorIs(t, err, gerrors.ErrInternalConsistency)
		assert.Empty(t, p.drain())
		assert.True(t, d.Loaded())

		_, err = fetch(t, d, envelope.NewInit[string, string]("late"))
		require.ErrorIs(t, err, gerrors.ErrInternalConsistency)
		assert.Empty(t, p.drain())

		// the instance in memory keeps serving
		response, err := fetch(t, d, envelope.NewRequest[string]("after"))
		require.NoError(t, err)
		value, _ := response.Response()
		assert.Equal(t, "ok:after", value)
		assert.Equal(t, []string{"fetch:after"}, p.drain())
	})
	t.Run("With domain init failure", func(t *testing.T) {
		p := &recorder{initErr: NewFailure("invalid", "bad seed")}
		d := newRecorderDispatcher(p)

		response, err := fetch(t, d, envelope.NewInitWithRequest("seed", "never"))
		require.NoError(t, err)
		failure, ok := response.Err()
		require.True(t, ok)
		assert.Equal(t, "invalid", failure.Code)
		// load still runs, the handler does not
		assert.Equal(t, []string{"init:seed", "load"}, p.drain())
		assert.False(t, d.Loaded())
	})
	t.Run("With non domain init failure", func(t *testing.T) {
		cause := errors.New("disk full")
		p := &recorder{initErr: cause}
		d := newRecorderDispatcher(p)

		_, err := fetch(t, d, envelope.NewInit[string, string]("seed"))
		require.ErrorIs(t, err, gerrors.ErrActivationFailure)
		require.ErrorIs(t, err, cause)
		assert.Equal(t, []string{"init:seed", "load"}, p.drain())
		assert.False(t, d.Loaded())
	})
	t.Run("With load failure", func(t *testing.T) {
		p := &recorder{loadErr: NewFailure("uninitialized", "no state")}
		d := newRecorderDispatcher(p)

		response, err := fetch(t, d, envelope.NewRequest[string]("get"))
		require.NoError(t, err)
		failure, ok := response.Err()
		require.True(t, ok)
		assert.Equal(t, "uninitialized", failure.Code)
		_, ok = response.Response()
		assert.False(t, ok)
		assert.Equal(t, []string{"load"}, p.drain())
		assert.False(t, d.Loaded())
	})
	t.Run("With a nil object loaded", func(t *testing.T) {
		p := &recorder{nilObject: true}
		d := newRecorderDispatcher(p)

		_, err := fetch(t, d, envelope.NewRequest[string]("get"))
		require.ErrorIs(t, err, gerrors.ErrActivationFailure)
		assert.False(t, d.Loaded())
	})
	t.Run("With domain handler failure", func(t *testing.T) {
		p := &recorder{handleErr: NewFailure("not_found", "missing key")}
		d := newRecorderDispatcher(p)

		response, err := fetch(t, d, envelope.NewRequest[string]("get"))
		require.NoError(t, err)
		failure, ok := response.Err()
		require.True(t, ok)
		assert.Equal(t, "not_found: missing key", failure.Error())
		assert.True(t, d.Loaded())
	})
	t.Run("With wrapped domain handler failure", func(t *testing.T) {
		p := &recorder{handleErr: errors.Join(errors.New("context"), NewFailure("conflict", "version"))}
		d := newRecorderDispatcher(p)

		response, err := fetch(t, d, envelope.NewRequest[string]("put"))
		require.NoError(t, err)
		failure, ok := response.Err()
		require.True(t, ok)
		assert.Equal(t, "conflict", failure.Code)
	})
	t.Run("With non domain handler failure", func(t *testing.T) {
		cause := errors.New("storage unavailable")
		p := &recorder{handleErr: cause}
		d := newRecorderDispatcher(p)

		_, err := fetch(t, d, envelope.NewRequest[string]("get"))
		require.ErrorIs(t, err, cause)
		// the instance goes back into the slot
		assert.True(t, d.Loaded())
	})
	t.Run("With a panicking handler", func(t *testing.T) {
		p := &recorder{panics: true}
		d := newRecorderDispatcher(p)

		assert.Panics(t, func() {
			_, _ = fetch(t, d, envelope.NewRequest[string]("boom"))
		})
		assert.True(t, d.Loaded())
	})
	t.Run("With malformed body", func(t *testing.T) {
		p := new(recorder)
		d := newRecorderDispatcher(p)

		_, err := d.Fetch(context.Background(), []byte("{"))
		require.ErrorIs(t, err, gerrors.ErrDecode)
		assert.Empty(t, p.drain())
	})
	t.Run("With CBOR codec", func(t *testing.T) {
		p := new(recorder)
		d := newRecorderDispatcher(p, WithCodec(envelope.CBOR()))

		response, err := fetch(t, d, envelope.NewInitWithRequest("seed", "cbor"))
		require.NoError(t, err)
		value, _ := response.Response()
		assert.Equal(t, "ok:cbor", value)
	})
}

func TestDispatcherAlarm(t *testing.T) {
	t.Run("With a cold object", func(t *testing.T) {
		p := new(recorder)
		d := newRecorderDispatcher(p)

		require.NoError(t, d.Alarm(context.Background()))
		assert.Equal(t, []string{"load", "alarm"}, p.drain())
		assert.True(t, d.Loaded())
	})
	t.Run("With a warm object", func(t *testing.T) {
		p := new(recorder)
		d := newRecorderDispatcher(p)
		require.NoError(t, d.Alarm(context.Background()))
		p.drain()

		require.NoError(t, d.Alarm(context.Background()))
		assert.Equal(t, []string{"alarm"}, p.drain())
	})
	t.Run("With unpopulated storage", func(t *testing.T) {
		p := &recorder{loadErr: NewFailure("uninitialized", "no state")}
		d := newRecorderDispatcher(p)

		err := d.Alarm(context.Background())
		var failure Failure
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, "uninitialized", failure.Code)
		assert.Equal(t, []string{"load"}, p.drain())
	})
	t.Run("With handler failure", func(t *testing.T) {
		p := &recorder{handleErr: NewFailure("retry", "later")}
		d := newRecorderDispatcher(p)

		err := d.Alarm(context.Background())
		var failure Failure
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, "retry", failure.Code)
	})
}
