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

package host

import (
	"context"

	"github.com/tochemey/durable/address"
)

// localStub reaches an object of the host without a transport
type localStub struct {
	host    *Host
	binding string
	id      address.ID
}

var _ address.Stub = (*localStub)(nil)

func (h *Host) newStub(binding string, id address.ID) (address.Stub, error) {
	return &localStub{host: h, binding: binding, id: id}, nil
}

// ID implements address.Stub
func (s *localStub) ID() address.ID {
	return s.id
}

// Fetch implements address.Stub
func (s *localStub) Fetch(ctx context.Context, body []byte) ([]byte, error) {
	return s.host.Fetch(ctx, s.binding, s.id, body)
}
