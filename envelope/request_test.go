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

package envelope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type config struct {
	Capacity int `json:"capacity"`
}

type command struct {
	Op    string `json:"op"`
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

func TestTakeInit(t *testing.T) {
	t.Run("With init only", func(t *testing.T) {
		request := NewInit[config, command](config{Capacity: 3})
		init, ok := request.TakeInit()
		require.True(t, ok)
		assert.Equal(t, config{Capacity: 3}, init)
		assert.True(t, request.IsEmpty())
		assert.Equal(t, Request[config, command]{}, request)
	})
	t.Run("With init and request", func(t *testing.T) {
		request := NewInitWithRequest(config{Capacity: 3}, command{Op: "get", Key: "a"})
		init, ok := request.TakeInit()
		require.True(t, ok)
		assert.Equal(t, config{Capacity: 3}, init)
		assert.Equal(t, NewRequest[config](command{Op: "get", Key: "a"}), request)
		assert.Equal(t, SendRequest, request.Kind())
	})
	t.Run("With request only", func(t *testing.T) {
		request := NewRequest[config](command{Op: "get", Key: "a"})
		_, ok := request.TakeInit()
		require.False(t, ok)
		assert.Equal(t, NewRequest[config](command{Op: "get", Key: "a"}), request)
	})
	t.Run("With empty envelope", func(t *testing.T) {
		var request Request[config, command]
		_, ok := request.TakeInit()
		require.False(t, ok)
		assert.True(t, request.IsEmpty())
	})
	t.Run("With a second take", func(t *testing.T) {
		request := NewInitWithRequest(config{Capacity: 3}, command{Op: "get"})
		_, ok := request.TakeInit()
		require.True(t, ok)
		_, ok = request.TakeInit()
		require.False(t, ok)
	})
}

func TestRequestAccessors(t *testing.T) {
	request := NewInitWithRequest(config{Capacity: 1}, command{Op: "delete", Key: "k"})
	init, ok := request.Init()
	require.True(t, ok)
	assert.Equal(t, 1, init.Capacity)
	cmd, ok := request.Request()
	require.True(t, ok)
	assert.Equal(t, "delete", cmd.Op)

	initOnly := NewInit[config, command](config{})
	_, ok = initOnly.Request()
	assert.False(t, ok)

	requestOnly := NewRequest[config](command{})
	_, ok = requestOnly.Init()
	assert.False(t, ok)

	assert.Equal(t, "init", InitRequest.String())
	assert.Equal(t, "request", SendRequest.String())
	assert.Equal(t, "initWithRequest", InitWithRequest.String())
	assert.Equal(t, "empty", EmptyRequest.String())
}

func TestResponseAccessors(t *testing.T) {
	value := NewResponse[string, failure]("ok")
	resp, ok := value.Response()
	require.True(t, ok)
	assert.Equal(t, "ok", resp)
	_, ok = value.Err()
	assert.False(t, ok)
	assert.False(t, value.IsInitialized())

	errored := NewError[string](failure{Reason: "missing"})
	e, ok := errored.Err()
	require.True(t, ok)
	assert.Equal(t, "missing", e.Reason)
	_, ok = errored.Response()
	assert.False(t, ok)

	initialized := NewInitialized[string, failure]()
	assert.True(t, initialized.IsInitialized())
	assert.Equal(t, "initialized", initialized.Kind().String())
	assert.Equal(t, "unknown", ResponseKind(42).String())
}
