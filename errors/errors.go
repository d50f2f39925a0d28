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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrExpectedObjectResponse is returned when a request-bearing call receives
	// an Initialized envelope instead of a Response or an Error.
	ErrExpectedObjectResponse = errors.New("expected object response")
	// ErrExpectedObjectInitialized is returned when an init-only call receives
	// a Response envelope instead of Initialized or an Error.
	ErrExpectedObjectInitialized = errors.New("expected object initialized")

	// ErrEmptyEnvelope is returned when an empty request envelope is about to be encoded.
	ErrEmptyEnvelope = errors.New("empty envelope cannot be transmitted")
	// ErrInvalidEnvelope is returned when a decoded envelope carries an unknown tag
	// or misses the payload its tag requires.
	ErrInvalidEnvelope = errors.New("invalid envelope")
	// ErrEncode is returned when an envelope or a payload cannot be serialized.
	ErrEncode = errors.New("failed to encode")
	// ErrDecode is returned when an envelope or a payload cannot be deserialized.
	ErrDecode = errors.New("failed to decode")

	// ErrRemoteCall is returned when the transport fails to deliver a call or its reply.
	ErrRemoteCall = errors.New("remote call failed")
	// ErrUnknownBinding is returned when a binding is not registered.
	ErrUnknownBinding = errors.New("unknown binding")
	// ErrInvalidBinding is returned when a binding name is malformed.
	ErrInvalidBinding = errors.New("invalid binding, must start with a letter or '_' followed by word characters")
	// ErrBindingExists is returned when a binding is registered twice.
	ErrBindingExists = errors.New("binding already registered")
	// ErrInvalidObjectID is returned when an object id cannot be parsed.
	ErrInvalidObjectID = errors.New("invalid object id")

	// ErrActivationFailure is returned when an object fails to initialize or load from storage.
	ErrActivationFailure = errors.New("object activation failed")
	// ErrInternalConsistency is raised when the dispatch loop reaches a state it cannot be in.
	ErrInternalConsistency = errors.New("internal consistency violation")
	// ErrBuilderSpent is returned when a request builder is used after its request was sent.
	ErrBuilderSpent = errors.New("request builder already used")
	// ErrReentrantCall is returned when an object is called again from within one of its
	// own calls while reentrancy is off.
	ErrReentrantCall = errors.New("reentrant call refused")
	// ErrReentrancyDepthExceeded is returned when a call chain re-enters the same object
	// more often than allowed.
	ErrReentrancyDepthExceeded = errors.New("reentrancy depth exceeded")
	// ErrInvalidReentrancyMode is returned when the reentrancy mode is unknown.
	ErrInvalidReentrancyMode = errors.New("invalid reentrancy mode")

	// ErrHostNotStarted is returned when the host is used before Start.
	ErrHostNotStarted = errors.New("host is not started")
	// ErrHostStarted is returned when a kind is registered on a running host.
	ErrHostStarted = errors.New("host is already started")
	// ErrServerNotStarted is returned when a remote server is used before Start.
	ErrServerNotStarted = errors.New("server is not started")

	// ErrStoreClosed is returned when a storage backend is used after Close.
	ErrStoreClosed = errors.New("storage is closed")
	// ErrInvalidKey is returned when a storage key is empty.
	ErrInvalidKey = errors.New("storage key is required")
	// ErrAlarmsUnavailable is returned when the object runs without an alarm scheduler.
	ErrAlarmsUnavailable = errors.New("alarms are not available")
)

// NewErrEncode wraps a serialization failure
func NewErrEncode(err error) error {
	return fmt.Errorf("%w: %w", ErrEncode, err)
}

// NewErrDecode wraps a deserialization failure
func NewErrDecode(err error) error {
	return fmt.Errorf("%w: %w", ErrDecode, err)
}

// NewErrRemoteCall wraps a transport failure
func NewErrRemoteCall(err error) error {
	return fmt.Errorf("%w: %w", ErrRemoteCall, err)
}

// NewErrUnknownBinding formats an ErrUnknownBinding for the given binding
func NewErrUnknownBinding(binding string) error {
	return fmt.Errorf("%w: %s", ErrUnknownBinding, binding)
}

// NewErrInvalidObjectID formats an ErrInvalidObjectID for the given id
func NewErrInvalidObjectID(id string) error {
	return fmt.Errorf("%w: %q", ErrInvalidObjectID, id)
}

// NewErrActivationFailure wraps the error returned by the init or load hook.
// The hook's error remains reachable with errors.As.
func NewErrActivationFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrActivationFailure, err)
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError from a recovered value
func NewPanicError(recovered any) *PanicError {
	if err, ok := recovered.(error); ok {
		return &PanicError{err}
	}
	return &PanicError{fmt.Errorf("%v", recovered)}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}
