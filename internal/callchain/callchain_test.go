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

package callchain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallChain(t *testing.T) {
	t.Run("With an empty context", func(t *testing.T) {
		ctx := context.Background()
		assert.Empty(t, Keys(ctx))
		assert.Zero(t, Count(ctx, "a"))
		assert.Equal(t, ctx, Restore(ctx, nil))
	})
	t.Run("With nested calls", func(t *testing.T) {
		root := With(context.Background(), "a")
		left := With(root, "b")
		right := With(root, "a")

		assert.Equal(t, []string{"a"}, Keys(root))
		assert.Equal(t, []string{"a", "b"}, Keys(left))
		assert.Equal(t, []string{"a", "a"}, Keys(right))
		assert.Equal(t, 1, Count(left, "a"))
		assert.Equal(t, 2, Count(right, "a"))
		assert.Zero(t, Count(right, "b"))
	})
	t.Run("With a chain received from a remote caller", func(t *testing.T) {
		keys := []string{"a", "b"}
		ctx := Restore(context.Background(), keys)
		keys[0] = "z"
		assert.Equal(t, []string{"a", "b"}, Keys(ctx))
		assert.Equal(t, 1, Count(With(ctx, "c"), "c"))
	})
}
