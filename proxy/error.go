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

package proxy

import (
	goerrors "errors"
)

// ObjectError carries a failure reported by the object itself
type ObjectError[E error] struct {
	Err E
}

var _ error = (*ObjectError[error])(nil)

// Error implements the standard error interface
func (e *ObjectError[E]) Error() string {
	return e.Err.Error()
}

// Unwrap returns the object's error
func (e *ObjectError[E]) Unwrap() error {
	return e.Err
}

// IsObjectError reports whether err was reported by the object and returns
// the object's error
func IsObjectError[E error](err error) (E, bool) {
	var objectErr *ObjectError[E]
	if goerrors.As(err, &objectErr) {
		return objectErr.Err, true
	}
	var zero E
	return zero, false
}
