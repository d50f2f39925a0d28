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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/durable/errors"
)

type echoStub struct {
	id ID
}

func (s echoStub) ID() ID { return s.id }
func (s echoStub) Fetch(_ context.Context, body []byte) ([]byte, error) {
	return body, nil
}

func TestID(t *testing.T) {
	t.Run("With named ids", func(t *testing.T) {
		first := NewNamedID("INSERTER", "alpha")
		second := NewNamedID("INSERTER", "alpha")
		require.True(t, first.Equals(second))
		require.Len(t, first.String(), 32)

		name, ok := first.Name()
		require.True(t, ok)
		assert.Equal(t, "alpha", name)

		assert.False(t, first.Equals(NewNamedID("INSERTER", "beta")))
		assert.False(t, first.Equals(NewNamedID("COUNTER", "alpha")))
	})
	t.Run("With unique ids", func(t *testing.T) {
		first := NewUniqueID()
		second := NewUniqueID()
		require.False(t, first.Equals(second))
		require.False(t, first.IsZero())
		_, ok := first.Name()
		require.False(t, ok)
	})
	t.Run("With parsing", func(t *testing.T) {
		id := NewNamedID("INSERTER", "alpha")
		parsed, err := ParseID(id.String())
		require.NoError(t, err)
		require.True(t, parsed.Equals(id))
		_, ok := parsed.Name()
		require.False(t, ok)
	})
	t.Run("With malformed ids", func(t *testing.T) {
		for _, raw := range []string{"", "abc", "zz" + NewUniqueID().String()[2:]} {
			_, err := ParseID(raw)
			require.ErrorIs(t, err, errors.ErrInvalidObjectID, raw)
		}
	})
	t.Run("With zero id", func(t *testing.T) {
		require.True(t, ID{}.IsZero())
	})
}

func TestNamespace(t *testing.T) {
	factory := StubFactoryFunc(func(_ string, id ID) (Stub, error) {
		return echoStub{id: id}, nil
	})

	t.Run("With valid binding", func(t *testing.T) {
		ns, err := NewNamespace("INSERTER", factory)
		require.NoError(t, err)
		require.Equal(t, "INSERTER", ns.Binding())

		id := ns.IDFromName("alpha")
		require.True(t, id.Equals(NewNamedID("INSERTER", "alpha")))

		parsed, err := ns.IDFromString(id.String())
		require.NoError(t, err)
		require.True(t, parsed.Equals(id))

		require.False(t, ns.UniqueID().Equals(ns.UniqueID()))

		stub, err := ns.Stub(id)
		require.NoError(t, err)
		require.True(t, stub.ID().Equals(id))

		reply, err := stub.Fetch(context.Background(), []byte("ping"))
		require.NoError(t, err)
		require.Equal(t, "ping", string(reply))
	})
	t.Run("With invalid binding", func(t *testing.T) {
		_, err := NewNamespace("bad-binding", factory)
		require.ErrorIs(t, err, errors.ErrInvalidBinding)
	})
}
