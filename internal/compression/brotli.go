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
	"github.com/andybalholm/brotli"
)

// BrotliName is the content-coding name of Brotli.
const BrotliName = "br"

var (
	brotliWriters = sync.Pool{
		New: func() any { return brotli.NewWriterLevel(nil, brotli.DefaultCompression) },
	}
	brotliReaders = sync.Pool{
		New: func() any { return brotli.NewReader(nil) },
	}
)

// WithBrotli registers Brotli for both connect clients and handlers.
func WithBrotli() connect.Option {
	return option{
		ClientOption:  connect.WithAcceptCompression(BrotliName, newBrotliDecompressor, newBrotliCompressor),
		HandlerOption: connect.WithCompression(BrotliName, newBrotliDecompressor, newBrotliCompressor),
	}
}

func newBrotliCompressor() connect.Compressor {
	return &brotliCompressor{writer: brotliWriters.Get().(*brotli.Writer)}
}

func newBrotliDecompressor() connect.Decompressor {
	return &brotliDecompressor{reader: brotliReaders.Get().(*brotli.Reader)}
}

type brotliCompressor struct {
	writer *brotli.Writer
}

func (c *brotliCompressor) Write(p []byte) (int, error) {
	if c.writer == nil {
		return 0, io.ErrClosedPipe
	}
	return c.writer.Write(p)
}

func (c *brotliCompressor) Reset(w io.Writer) {
	if c.writer == nil {
		c.writer = brotliWriters.Get().(*brotli.Writer)
	}
	c.writer.Reset(w)
}

func (c *brotliCompressor) Close() error {
	if c.writer == nil {
		return nil
	}
	err := c.writer.Close()
	c.writer.Reset(nil)
	brotliWriters.Put(c.writer)
	c.writer = nil
	return err
}

type brotliDecompressor struct {
	reader *brotli.Reader
}

func (d *brotliDecompressor) Read(p []byte) (int, error) {
	if d.reader == nil {
		return 0, io.EOF
	}
	return d.reader.Read(p)
}

func (d *brotliDecompressor) Reset(r io.Reader) error {
	if d.reader == nil {
		d.reader = brotliReaders.Get().(*brotli.Reader)
	}
	return d.reader.Reset(r)
}

func (d *brotliDecompressor) Close() error {
	if d.reader != nil {
		brotliReaders.Put(d.reader)
		d.reader = nil
	}
	return nil
}
