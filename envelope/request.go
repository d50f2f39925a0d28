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

// Package envelope defines the request and response envelopes exchanged
// between a caller and a durable object, and their wire codecs.
package envelope

// RequestKind enumerates the request envelope variants
type RequestKind int

const (
	// EmptyRequest carries nothing. It is never transmitted.
	EmptyRequest RequestKind = iota
	// InitRequest carries only an initialization payload
	InitRequest
	// SendRequest carries only a domain request
	SendRequest
	// InitWithRequest carries both an initialization payload and a domain request
	InitWithRequest
)

const (
	tagInit            = "init"
	tagRequest         = "request"
	tagInitWithRequest = "initWithRequest"
	tagResponse        = "response"
	tagError           = "error"
	tagInitialized     = "initialized"
)

// String returns the wire tag of the kind
func (k RequestKind) String() string {
	switch k {
	case InitRequest:
		return tagInit
	case SendRequest:
		return tagRequest
	case InitWithRequest:
		return tagInitWithRequest
	default:
		return "empty"
	}
}

// Request is the envelope sent to an object.
// I is the initialization payload type and R the domain request type.
// The zero value is the empty envelope.
type Request[I, R any] struct {
	kind    RequestKind
	init    I
	request R
}

// NewInit creates an envelope carrying only an initialization payload
func NewInit[I, R any](init I) Request[I, R] {
	return Request[I, R]{kind: InitRequest, init: init}
}

// NewRequest creates an envelope carrying only a domain request
func NewRequest[I, R any](request R) Request[I, R] {
	return Request[I, R]{kind: SendRequest, request: request}
}

// NewInitWithRequest creates an envelope carrying an initialization payload followed by a request
func NewInitWithRequest[I, R any](init I, request R) Request[I, R] {
	return Request[I, R]{kind: InitWithRequest, init: init, request: request}
}

// Kind returns the envelope variant
func (r Request[I, R]) Kind() RequestKind {
	return r.kind
}

// IsEmpty reports whether the envelope carries nothing
func (r Request[I, R]) IsEmpty() bool {
	return r.kind == EmptyRequest
}

// Init returns the initialization payload when the envelope has one
func (r Request[I, R]) Init() (I, bool) {
	if r.kind == InitRequest || r.kind == InitWithRequest {
		return r.init, true
	}
	var zero I
	return zero, false
}

// Request returns the domain request when the envelope has one
func (r Request[I, R]) Request() (R, bool) {
	if r.kind == SendRequest || r.kind == InitWithRequest {
		return r.request, true
	}
	var zero R
	return zero, false
}

// TakeInit removes the initialization payload from the envelope and returns it.
//
//	Init            -> payload, envelope becomes empty
//	InitWithRequest -> payload, envelope keeps only the request
//	Request, Empty  -> nothing, envelope unchanged
func (r *Request[I, R]) TakeInit() (I, bool) {
	var zero I
	switch r.kind {
	case InitRequest:
		init := r.init
		*r = Request[I, R]{}
		return init, true
	case InitWithRequest:
		init := r.init
		r.kind = SendRequest
		r.init = zero
		return init, true
	default:
		return zero, false
	}
}
