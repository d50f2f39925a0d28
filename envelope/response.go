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

// ResponseKind enumerates the response envelope variants
type ResponseKind int

const (
	// ResponseValue carries the handler's result
	ResponseValue ResponseKind = iota
	// ResponseError carries the object's domain error
	ResponseError
	// ResponseInitialized acknowledges an init-only call
	ResponseInitialized
)

// String returns the wire tag of the kind
func (k ResponseKind) String() string {
	switch k {
	case ResponseValue:
		return tagResponse
	case ResponseError:
		return tagError
	case ResponseInitialized:
		return tagInitialized
	default:
		return "unknown"
	}
}

// Response is the envelope an object returns.
// Resp is the domain response type and E the domain error type.
type Response[Resp, E any] struct {
	kind     ResponseKind
	response Resp
	err      E
}

// NewResponse wraps a handler result
func NewResponse[Resp, E any](response Resp) Response[Resp, E] {
	return Response[Resp, E]{kind: ResponseValue, response: response}
}

// NewError wraps a domain error
func NewError[Resp, E any](err E) Response[Resp, E] {
	return Response[Resp, E]{kind: ResponseError, err: err}
}

// NewInitialized acknowledges an init-only call
func NewInitialized[Resp, E any]() Response[Resp, E] {
	return Response[Resp, E]{kind: ResponseInitialized}
}

// Kind returns the envelope variant
func (r Response[Resp, E]) Kind() ResponseKind {
	return r.kind
}

// Response returns the handler result when the envelope carries one
func (r Response[Resp, E]) Response() (Resp, bool) {
	if r.kind == ResponseValue {
		return r.response, true
	}
	var zero Resp
	return zero, false
}

// Err returns the domain error when the envelope carries one
func (r Response[Resp, E]) Err() (E, bool) {
	if r.kind == ResponseError {
		return r.err, true
	}
	var zero E
	return zero, false
}

// IsInitialized reports whether the envelope acknowledges an init-only call
func (r Response[Resp, E]) IsInitialized() bool {
	return r.kind == ResponseInitialized
}
