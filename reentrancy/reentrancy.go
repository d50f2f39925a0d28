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

package reentrancy

import (
	"fmt"

	gerrors "github.com/tochemey/durable/errors"
	"github.com/tochemey/durable/internal/validation"
)

// Mode determines what happens when an object is called again while one of
// its own calls is still running, directly (a self call) or through other
// objects (A -> B -> A).
//
// Modes:
//   - AllowAll lets the call through. The object finds its slot empty and is
//     reconstructed from storage for the duration of the reentrant call.
//   - Off refuses the call with ErrReentrantCall instead of waiting on a
//     call that can only finish after it.
type Mode int

const (
	// AllowAll lets reentrant calls through.
	AllowAll Mode = iota
	// Off refuses reentrant calls.
	Off
)

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case AllowAll:
		return "AllowAll"
	case Off:
		return "Off"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Option configures reentrancy behavior.
type Option func(*Reentrancy)

// WithMaxDepth caps how many times a single call chain may re-enter the same object.
//
// A value <= 0 disables the limit. When the cap is reached the call fails with
// ErrReentrancyDepthExceeded, which stops an object that keeps calling itself.
func WithMaxDepth(maxDepth int) Option {
	return func(r *Reentrancy) {
		r.maxDepth = max(maxDepth, 0)
	}
}

// WithMode sets the reentrancy mode.
func WithMode(mode Mode) Option {
	return func(r *Reentrancy) {
		r.mode = mode
	}
}

// Reentrancy configures how a host treats reentrant calls.
type Reentrancy struct {
	mode     Mode
	maxDepth int
}

// ensure Reentrancy implements validation.Validator.
var _ validation.Validator = (*Reentrancy)(nil)

// New creates a Reentrancy configuration. Reentrant calls are allowed with no depth limit by default.
func New(opts ...Option) *Reentrancy {
	r := &Reentrancy{mode: AllowAll}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mode returns the reentrancy mode.
func (r *Reentrancy) Mode() Mode {
	return r.mode
}

// MaxDepth returns the maximum reentrancy depth. Zero means no limit.
func (r *Reentrancy) MaxDepth() int {
	return r.maxDepth
}

// Validate validates the Reentrancy configuration.
func (r *Reentrancy) Validate() error {
	if !IsValidMode(r.mode) {
		return gerrors.ErrInvalidReentrancyMode
	}
	return nil
}

// Admit decides whether a call re-entering an object may run.
// depth is the number of calls of that object already running up the chain.
func (r *Reentrancy) Admit(depth int) error {
	switch {
	case depth <= 0:
		return nil
	case r.mode == Off:
		return gerrors.ErrReentrantCall
	case r.maxDepth > 0 && depth > r.maxDepth:
		return fmt.Errorf("%w: depth %d, maximum %d", gerrors.ErrReentrancyDepthExceeded, depth, r.maxDepth)
	default:
		return nil
	}
}

// IsValidMode guards against unknown enum values.
func IsValidMode(mode Mode) bool {
	switch mode {
	case AllowAll, Off:
		return true
	default:
		return false
	}
}
