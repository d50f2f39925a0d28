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

// Package compression provides the connect compression options used by the remote transport.
package compression

import (
	"connectrpc.com/connect"
)

// Compression selects the payload compression negotiated between
// remote clients and servers.
type Compression int

const (
	// NoCompression sends payloads as-is
	NoCompression Compression = iota
	// ZstdCompression compresses payloads with Zstandard
	ZstdCompression
	// BrotliCompression compresses payloads with Brotli
	BrotliCompression
)

// option bundles client and handler compression options.
type option struct {
	connect.ClientOption
	connect.HandlerOption
}

// ClientOptions returns the connect client options for the given compression
func ClientOptions(compression Compression) []connect.ClientOption {
	switch compression {
	case ZstdCompression:
		return []connect.ClientOption{WithZstd(), connect.WithSendCompression(ZstdName)}
	case BrotliCompression:
		return []connect.ClientOption{WithBrotli(), connect.WithSendCompression(BrotliName)}
	default:
		return nil
	}
}

// HandlerOptions returns the connect handler options for the given compression.
// Handlers always accept gzip, which connect registers by default.
func HandlerOptions(compression Compression) []connect.HandlerOption {
	switch compression {
	case ZstdCompression:
		return []connect.HandlerOption{WithZstd()}
	case BrotliCompression:
		return []connect.HandlerOption{WithBrotli()}
	default:
		return nil
	}
}
