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

package validation

import (
	"github.com/tochemey/durable/errors"
)

const (
	bindingPattern  = "^[A-Za-z_][A-Za-z0-9_]{0,254}$"
	objectIDPattern = "^[0-9a-f]{32}$"
)

// NewBindingValidator validates a namespace binding name
func NewBindingValidator(binding string) Validator {
	return NewPatternValidator(bindingPattern, binding, errors.ErrInvalidBinding)
}

// NewObjectIDValidator validates the hexadecimal form of an object id
func NewObjectIDValidator(id string) Validator {
	return NewPatternValidator(objectIDPattern, id, errors.NewErrInvalidObjectID(id))
}
