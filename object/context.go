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
	"time"

	"github.com/tochemey/durable/address"
	"github.com/tochemey/durable/envelope"
	"github.com/tochemey/durable/errors"
	"github.com/tochemey/durable/log"
	"github.com/tochemey/durable/storage"
)

// Alarms schedules the single pending alarm of an object
type Alarms interface {
	// Set schedules the alarm at the given time, replacing any pending one
	Set(at time.Time) error
	// Get returns the pending alarm time, if any
	Get() (time.Time, bool)
	// Delete cancels the pending alarm
	Delete() error
}

// State holds what the host hands to an object for its whole life in memory
type State struct {
	binding string
	id      address.ID
	storage storage.Store
	alarms  Alarms
	env     address.Env
	logger  log.Logger
}

// StateOption configures a State
type StateOption func(*State)

// WithAlarms sets the alarm scheduler
func WithAlarms(alarms Alarms) StateOption {
	return func(s *State) {
		s.alarms = alarms
	}
}

// WithEnv sets the environment used to reach other objects
func WithEnv(env address.Env) StateOption {
	return func(s *State) {
		s.env = env
	}
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) StateOption {
	return func(s *State) {
		s.logger = logger
	}
}

// NewState creates the State of the object identified by id within binding.
// store must already be scoped to that object.
func NewState(binding string, id address.ID, store storage.Store, opts ...StateOption) *State {
	state := &State{
		binding: binding,
		id:      id,
		storage: store,
		logger:  log.DiscardLogger,
	}
	for _, opt := range opts {
		opt(state)
	}
	return state
}

// Context is passed to Init, LoadFromStorage and Handle.
// It is only valid for the duration of the call it was created for.
type Context struct {
	ctx   context.Context
	state *State
	codec envelope.Codec
}

// NewContext creates the Context of one call.
// Hosts get it from the dispatcher; it is exported for custom hosts and tests.
func NewContext(ctx context.Context, state *State, codec envelope.Codec) *Context {
	return &Context{ctx: ctx, state: state, codec: codec}
}

// Context returns the context of the call
func (c *Context) Context() context.Context {
	return c.ctx
}

// ID returns the identity of the object
func (c *Context) ID() address.ID {
	return c.state.id
}

// Binding returns the namespace the object lives in
func (c *Context) Binding() string {
	return c.state.binding
}

// Storage returns the object's durable storage
func (c *Context) Storage() storage.Store {
	return c.state.storage
}

// Env returns the environment used to reach other objects.
// It is nil when the host runs without one.
func (c *Context) Env() address.Env {
	return c.state.env
}

// Logger returns the logger
func (c *Context) Logger() log.Logger {
	return c.state.logger
}

// SetAlarm schedules the object's alarm
func (c *Context) SetAlarm(at time.Time) error {
	if c.state.alarms == nil {
		return errors.ErrAlarmsUnavailable
	}
	return c.state.alarms.Set(at)
}

// Alarm returns the pending alarm time, if any
func (c *Context) Alarm() (time.Time, bool) {
	if c.state.alarms == nil {
		return time.Time{}, false
	}
	return c.state.alarms.Get()
}

// DeleteAlarm cancels the pending alarm
func (c *Context) DeleteAlarm() error {
	if c.state.alarms == nil {
		return errors.ErrAlarmsUnavailable
	}
	return c.state.alarms.Delete()
}

// GetValue reads and decodes the value stored under key
func GetValue[T any](ctx *Context, key string) (T, bool, error) {
	var value T
	bytea, found, err := ctx.Storage().Get(ctx.Context(), key)
	if err != nil || !found {
		return value, found, err
	}
	if err := ctx.codec.Unmarshal(bytea, &value); err != nil {
		return value, true, errors.NewErrDecode(err)
	}
	return value, true, nil
}

// PutValue encodes value and stores it under key
func PutValue[T any](ctx *Context, key string, value T) error {
	bytea, err := ctx.codec.Marshal(value)
	if err != nil {
		return errors.NewErrEncode(err)
	}
	return ctx.Storage().Put(ctx.Context(), key, bytea)
}

// DeleteValue removes key and reports whether it existed
func DeleteValue(ctx *Context, key string) (bool, error) {
	return ctx.Storage().Delete(ctx.Context(), key)
}
