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

package address

import (
	"context"

	"github.com/tochemey/durable/internal/validation"
)

// Stub is a handle to one object. Fetch delivers one encoded request
// envelope and returns the encoded response envelope.
type Stub interface {
	// ID returns the identity of the object behind the stub
	ID() ID
	// Fetch sends body to the object and waits for its reply
	Fetch(ctx context.Context, body []byte) ([]byte, error)
}

// Namespace resolves object identities for one binding
type Namespace interface {
	// Binding returns the binding the namespace serves
	Binding() string
	// IDFromName derives the stable ID of the named object
	IDFromName(name string) ID
	// IDFromString parses the hexadecimal form of an ID
	IDFromString(id string) (ID, error)
	// UniqueID returns a new random ID
	UniqueID() ID
	// Stub returns a handle to the object with the given ID
	Stub(id ID) (Stub, error)
}

// Env gives access to the namespaces an application is bound to
type Env interface {
	// Namespace returns the namespace of the given binding
	Namespace(binding string) (Namespace, error)
}

// StubFactory creates stubs for a transport
type StubFactory interface {
	NewStub(binding string, id ID) (Stub, error)
}

// StubFactoryFunc adapts a function to StubFactory
type StubFactoryFunc func(binding string, id ID) (Stub, error)

// NewStub calls f(binding, id)
func (f StubFactoryFunc) NewStub(binding string, id ID) (Stub, error) {
	return f(binding, id)
}

type namespace struct {
	binding string
	stubs   StubFactory
}

var _ Namespace = (*namespace)(nil)

// NewNamespace returns a Namespace whose stubs are created by the given factory
func NewNamespace(binding string, stubs StubFactory) (Namespace, error) {
	if err := validation.NewBindingValidator(binding).Validate(); err != nil {
		return nil, err
	}
	return &namespace{binding: binding, stubs: stubs}, nil
}

func (n *namespace) Binding() string {
	return n.binding
}

func (n *namespace) IDFromName(name string) ID {
	return NewNamedID(n.binding, name)
}

func (n *namespace) IDFromString(id string) (ID, error) {
	return ParseID(id)
}

func (n *namespace) UniqueID() ID {
	return NewUniqueID()
}

func (n *namespace) Stub(id ID) (Stub, error) {
	return n.stubs.NewStub(n.binding, id)
}
