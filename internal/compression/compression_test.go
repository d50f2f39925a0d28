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

package compression

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompression(t *testing.T) {
	input := strings.Repeat("durable objects keep their state! ", 64)

	roundTrip := func(t *testing.T, newCompressor func() connect.Compressor, newDecompressor func() connect.Decompressor) {
		t.Helper()
		var compressed bytes.Buffer
		compressor := newCompressor()
		compressor.Reset(&compressed)
		n, err := compressor.Write([]byte(input))
		require.NoError(t, err)
		require.Equal(t, len(input), n)
		require.NoError(t, compressor.Close())
		assert.Less(t, compressed.Len(), len(input))

		decompressor := newDecompressor()
		require.NoError(t, decompressor.Reset(&compressed))
		actual, err := io.ReadAll(decompressor)
		require.NoError(t, err)
		require.Equal(t, input, string(actual))
		require.NoError(t, decompressor.Close())

		// closing twice is harmless
		require.NoError(t, compressor.Close())
		require.NoError(t, decompressor.Close())
	}

	t.Run("With zstd", func(t *testing.T) {
		roundTrip(t, newZstdCompressor, newZstdDecompressor)
	})
	t.Run("With brotli", func(t *testing.T) {
		roundTrip(t, newBrotliCompressor, newBrotliDecompressor)
	})
	t.Run("With a compressor reused after Close", func(t *testing.T) {
		compressor := newZstdCompressor()
		require.NoError(t, compressor.Close())
		_, err := compressor.Write([]byte("x"))
		require.ErrorIs(t, err, io.ErrClosedPipe)

		var buffer bytes.Buffer
		compressor.Reset(&buffer)
		_, err = compressor.Write([]byte("x"))
		require.NoError(t, err)
		require.NoError(t, compressor.Close())
	})
	t.Run("With options per compression", func(t *testing.T) {
		assert.Empty(t, ClientOptions(NoCompression))
		assert.Empty(t, HandlerOptions(NoCompression))
		assert.Len(t, ClientOptions(ZstdCompression), 2)
		assert.Len(t, ClientOptions(BrotliCompression), 2)
		assert.Len(t, HandlerOptions(ZstdCompression), 1)
		assert.Len(t, HandlerOptions(BrotliCompression), 1)
	})
}
