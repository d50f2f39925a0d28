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
	"io"
	"sync"

	"connectrpc.com/connect"
	"github.com/klauspost/compress/zstd"
)

// ZstdName is the content-coding name of Zstandard.
const ZstdName = "zstd"

var zstdEncoders = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			return err
		}
		return encoder
	},
}

// WithZstd registers Zstandard for both connect clients and handlers.
func WithZstd() connect.Option {
	return option{
		ClientOption:  connect.WithAcceptCompression(ZstdName, newZstdDecompressor, newZstdCompressor),
		HandlerOption: connect.WithCompression(ZstdName, newZstdDecompressor, newZstdCompressor),
	}
}

func newZstdCompressor() connect.Compressor {
	switch v := zstdEncoders.Get().(type) {
	case *zstd.Encoder:
		return &zstdCompressor{encoder: v}
	case error:
		return &failingCompressor{err: v}
	default:
		return &failingCompressor{err: io.ErrUnexpectedEOF}
	}
}

func newZstdDecompressor() connect.Decompressor {
	return &zstdDecompressor{}
}

// zstdCompressor hands its encoder back to the pool on Close
type zstdCompressor struct {
	encoder *zstd.Encoder
}

func (c *zstdCompressor) Write(p []byte) (int, error) {
	if c.encoder == nil {
		return 0, io.ErrClosedPipe
	}
	return c.encoder.Write(p)
}

func (c *zstdCompressor) Reset(w io.Writer) {
	if c.encoder == nil {
		c.encoder, _ = zstdEncoders.Get().(*zstd.Encoder)
	}
	if c.encoder != nil {
		c.encoder.Reset(w)
	}
}

func (c *zstdCompressor) Close() error {
	if c.encoder == nil {
		return nil
	}
	err := c.encoder.Close()
	c.encoder.Reset(nil)
	zstdEncoders.Put(c.encoder)
	c.encoder = nil
	return err
}

// zstdDecompressor lazily creates its decoder on first Reset
type zstdDecompressor struct {
	decoder *zstd.Decoder
}

func (d *zstdDecompressor) Read(p []byte) (int, error) {
	if d.decoder == nil {
		return 0, io.EOF
	}
	return d.decoder.Read(p)
}

func (d *zstdDecompressor) Reset(r io.Reader) error {
	if d.decoder == nil {
		decoder, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1), zstd.WithDecoderMaxMemory(64<<20))
		if err != nil {
			return err
		}
		d.decoder = decoder
		return nil
	}
	return d.decoder.Reset(r)
}

func (d *zstdDecompressor) Close() error {
	if d.decoder != nil {
		// a closed decoder cannot be reset
		d.decoder.Close()
		d.decoder = nil
	}
	return nil
}

// failingCompressor reports a construction failure on first use
type failingCompressor struct {
	err error
}

func (c *failingCompressor) Write([]byte) (int, error) { return 0, c.err }
func (c *failingCompressor) Reset(io.Writer)           {}
func (c *failingCompressor) Close() error              { return c.err }
