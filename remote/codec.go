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

package remote

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/tochemey/durable/errors"
)

// CodecName is the connect codec name of the transport frames.
// Requests are sent with the application/cbor content type.
const CodecName = "cbor"

var (
	frameEncOpts = cbor.EncOptions{
		Sort:        cbor.SortNone,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeUnixDynamic,
	}
	frameDecOpts = cbor.DecOptions{
		MaxNestedLevels: 16,
		IndefLength:     cbor.IndefLengthForbidden,
		UTF8:            cbor.UTF8DecodeInvalid,
	}
)

// FetchRequest carries one encoded request envelope to an object
type FetchRequest struct {
	Binding string `cbor:"1,keyasint"`
	ID      string `cbor:"2,keyasint"`
	Body    []byte `cbor:"3,keyasint"`
	// objects whose calls led to this one
	Chain []string `cbor:"4,keyasint,omitempty"`
}

// FetchResponse carries the encoded response envelope of an object
type FetchResponse struct {
	Body []byte `cbor:"1,keyasint"`
}

// ResolveRequest asks whether a binding is served
type ResolveRequest struct {
	Binding string `cbor:"1,keyasint"`
}

// ResolveResponse lists the bindings served by the remote host
type ResolveResponse struct {
	Bindings []string `cbor:"1,keyasint"`
}

// frameCodec encodes transport frames with CBOR.
// It implements connect.Codec and is safe for concurrent use.
type frameCodec struct {
	encMode cbor.EncMode
	decMode cbor.DecMode
}

func newFrameCodec() *frameCodec {
	encMode, _ := frameEncOpts.EncMode()
	decMode, _ := frameDecOpts.DecMode()
	return &frameCodec{encMode: encMode, decMode: decMode}
}

// Name implements connect.Codec
func (c *frameCodec) Name() string {
	return CodecName
}

// Marshal implements connect.Codec
func (c *frameCodec) Marshal(message any) ([]byte, error) {
	bytea, err := c.encMode.Marshal(message)
	if err != nil {
		return nil, errors.NewErrEncode(err)
	}
	return bytea, nil
}

// Unmarshal implements connect.Codec
func (c *frameCodec) Unmarshal(data []byte, message any) error {
	if err := c.decMode.Unmarshal(data, message); err != nil {
		return errors.NewErrDecode(err)
	}
	return nil
}
