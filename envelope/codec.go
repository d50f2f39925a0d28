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

package envelope

import (
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
)

// Codec serializes envelopes and their payloads.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Name identifies the codec on the wire
	Name() string
	// Marshal encodes v
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes data into v
	Unmarshal(data []byte, v any) error
}

// JSON is the default codec. It produces the documented envelope shape:
//
//	{"type":"request","request":{...}}
var JSON Codec = jsonCodec{}

type jsonCodec struct{}

func (jsonCodec) Name() string                       { return "json" }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

var (
	cborEncOptions = cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
	}
	cborDecOptions = cbor.DecOptions{
		MaxNestedLevels: 64,
		IndefLength:     cbor.IndefLengthForbidden,
		DupMapKey:       cbor.DupMapKeyEnforcedAPF,
	}
)

type cborCodec struct {
	encMode cbor.EncMode
	decMode cbor.DecMode
}

// CBOR returns a binary codec keeping the JSON field names.
// It panics when the package level options are invalid.
func CBOR() Codec {
	encMode, err := cborEncOptions.EncMode()
	if err != nil {
		panic(err)
	}
	decMode, err := cborDecOptions.DecMode()
	if err != nil {
		panic(err)
	}
	return &cborCodec{encMode: encMode, decMode: decMode}
}

func (c *cborCodec) Name() string                       { return "cbor" }
func (c *cborCodec) Marshal(v any) ([]byte, error)      { return c.encMode.Marshal(v) }
func (c *cborCodec) Unmarshal(data []byte, v any) error { return c.decMode.Unmarshal(data, v) }
