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

// Package object defines the contract of a durable object and the dispatch
// loop that drives it on behalf of the host.
package object

import (
	"fmt"
)

// Request is what an object handles: either a request fetched by a caller
// or an alarm set by the object itself.
type Request[R any] struct {
	alarm   bool
	request R
}

// Fetch wraps a caller's request
func Fetch[R any](request R) Request[R] {
	return Request[R]{request: request}
}

// Alarm is the request delivered when the object's alarm fires
func Alarm[R any]() Request[R] {
	return Request[R]{alarm: true}
}

// IsAlarm reports whether the request is an alarm
func (r Request[R]) IsAlarm() bool {
	return r.alarm
}

// Fetched returns the caller's request. ok is false for alarms.
func (r Request[R]) Fetched() (request R, ok bool) {
	return r.request, !r.alarm
}

// Object is a live, in-memory object instance.
//
// Handle is never called concurrently for the same object: the host delivers
// one request at a time. An error matching the object's error type is sent
// back to the caller as the object's own failure; any other error fails the call.
type Object[Req, Resp any] interface {
	Handle(ctx *Context, request Request[Req]) (Resp, error)
}

// Definition describes a type of durable object.
//
// An object is reconstructed from durable storage whenever it is not in memory:
// after a cold start, after the host evicted it or after a failed call.
// LoadFromStorage is therefore the only way an instance comes to life, and it
// must fail when the state it requires is missing, for instance when the object
// was never initialized.
//
// Init runs before LoadFromStorage when a call carrying an initialization payload
// reaches an object that is not in memory. It seeds durable state; it can run
// several times over the life of an object. Embed NoInit when the type needs none.
//
// ## Example
//
//	type Counter struct {
//	    object.NoInit[struct{}]
//	}
//
//	func (Counter) Binding() string { return "COUNTER" }
//
//	func (Counter) LoadFromStorage(ctx *object.Context) (object.Object[Op, int], error) {
//	    count, _, err := object.GetValue[int](ctx, "count")
//	    return &counter{count: count}, err
//	}
type Definition[I, Req, Resp any] interface {
	// Binding returns the namespace the objects of this type live in
	Binding() string
	// Init seeds durable state from an initialization payload
	Init(ctx *Context, init I) error
	// LoadFromStorage builds the in-memory instance from durable state
	LoadFromStorage(ctx *Context) (Object[Req, Resp], error)
}

// NoInit provides a no-op Init
type NoInit[I any] struct{}

// Init does nothing
func (NoInit[I]) Init(*Context, I) error {
	return nil
}

// Failure is a ready-made object error type carrying a machine readable
// code and a human readable message.
type Failure struct {
	Code    string `json:"code" cbor:"code"`
	Message string `json:"message" cbor:"message"`
}

var _ error = Failure{}

// NewFailure creates a Failure with a formatted message
func NewFailure(code, format string, args ...any) Failure {
	return Failure{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error implements the standard error interface
func (f Failure) Error() string {
	if f.Code == "" {
		return f.Message
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}
