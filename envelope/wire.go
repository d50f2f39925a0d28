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
	"fmt"

	"github.com/tochemey/durable/errors"
)

type wireRequest[I, R any] struct {
	Type    string `json:"type" cbor:"type"`
	Init    *I     `json:"init,omitempty" cbor:"init,omitempty"`
	Request *R     `json:"request,omitempty" cbor:"request,omitempty"`
}

type wireResponse[Resp, E any] struct {
	Type     string `json:"type" cbor:"type"`
	Response *Resp  `json:"response,omitempty" cbor:"response,omitempty"`
	Error    *E     `json:"error,omitempty" cbor:"error,omitempty"`
}

// EncodeRequest serializes a request envelope.
// It fails with errors.ErrEmptyEnvelope when the envelope is empty.
func EncodeRequest[I, R any](codec Codec, request Request[I, R]) ([]byte, error) {
	wire := wireRequest[I, R]{Type: request.kind.String()}
	switch request.kind {
	case InitRequest:
		wire.Init = &request.init
	case SendRequest:
		wire.Request = &request.request
	case InitWithRequest:
		wire.Init = &request.init
		wire.Request = &request.request
	default:
		return nil, errors.ErrEmptyEnvelope
	}

	bytea, err := codec.Marshal(wire)
	if err != nil {
		return nil, errors.NewErrEncode(err)
	}
	return bytea, nil
}

// DecodeRequest deserializes a request envelope.
// A payload missing from the wire decodes as the zero value of its type.
func DecodeRequest[I, R any](codec Codec, data []byte) (Request[I, R], error) {
	var wire wireRequest[I, R]
	if err := codec.Unmarshal(data, &wire); err != nil {
		return Request[I, R]{}, errors.NewErrDecode(err)
	}

	var request Request[I, R]
	switch wire.Type {
	case tagInit:
		request.kind = InitRequest
	case tagRequest:
		request.kind = SendRequest
	case tagInitWithRequest:
		request.kind = InitWithRequest
	default:
		return Request[I, R]{}, fmt.Errorf("%w: unknown request type %q", errors.ErrInvalidEnvelope, wire.Type)
	}

	if wire.Init != nil && request.kind != SendRequest {
		request.init = *wire.Init
	}
	if wire.Request != nil && request.kind != InitRequest {
		request.request = *wire.Request
	}
	return request, nil
}

// EncodeResponse serializes a response envelope
func EncodeResponse[Resp, E any](codec Codec, response Response[Resp, E]) ([]byte, error) {
	wire := wireResponse[Resp, E]{Type: response.kind.String()}
	switch response.kind {
	case ResponseValue:
		wire.Response = &response.response
	case ResponseError:
		wire.Error = &response.err
	case ResponseInitialized:
	default:
		return nil, fmt.Errorf("%w: unknown response kind %d", errors.ErrInvalidEnvelope, response.kind)
	}

	bytea, err := codec.Marshal(wire)
	if err != nil {
		return nil, errors.NewErrEncode(err)
	}
	return bytea, nil
}

// DecodeResponse deserializes a response envelope
func DecodeResponse[Resp, E any](codec Codec, data []byte) (Response[Resp, E], error) {
	var wire wireResponse[Resp, E]
	if err := codec.Unmarshal(data, &wire); err != nil {
		return Response[Resp, E]{}, errors.NewErrDecode(err)
	}

	var response Response[Resp, E]
	switch wire.Type {
	case tagResponse:
		response.kind = ResponseValue
		if wire.Response != nil {
			response.response = *wire.Response
		}
	case tagError:
		response.kind = ResponseError
		if wire.Error != nil {
			response.err = *wire.Error
		}
	case tagInitialized:
		response.kind = ResponseInitialized
	default:
		return Response[Resp, E]{}, fmt.Errorf("%w: unknown response type %q", errors.ErrInvalidEnvelope, wire.Type)
	}
	return response, nil
}
