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

package proxy

import (
	"context"
	goerrors "errors"

	"github.com/tochemey/durable/envelope"
	"github.com/tochemey/durable/errors"
)

// call is shared by the builders of one request.
// Each phase transition or Do spends the builder it was called on.
type call[I, Req, Resp any, E error] struct {
	proxy   *Proxy[I, Req, Resp, E]
	request envelope.Request[I, Req]
	// phase is bumped by every transition; a builder is live only while
	// the call is still at the phase it was created at
	phase int
	spent bool
}

func (c *call[I, Req, Resp, E]) transition(phase int) int {
	if c.spent || c.phase != phase {
		panic(errors.ErrBuilderSpent)
	}
	c.phase++
	return c.phase
}

func (c *call[I, Req, Resp, E]) do(ctx context.Context, phase int) (envelope.Response[Resp, E], error) {
	if c.spent || c.phase != phase {
		return envelope.Response[Resp, E]{}, errors.ErrBuilderSpent
	}
	c.spent = true

	codec := c.proxy.kind.Codec()
	body, err := envelope.EncodeRequest(codec, c.request)
	if err != nil {
		return envelope.Response[Resp, E]{}, err
	}

	reply, err := c.proxy.stub.Fetch(ctx, body)
	if err != nil {
		if !goerrors.Is(err, errors.ErrRemoteCall) {
			err = errors.NewErrRemoteCall(err)
		}
		return envelope.Response[Resp, E]{}, err
	}
	return envelope.DecodeResponse[Resp, E](codec, reply)
}

// Builder is a call that carries nothing yet.
// Only Send and Init are available: an empty call cannot be sent.
type Builder[I, Req, Resp any, E error] struct {
	call  *call[I, Req, Resp, E]
	phase int
}

// Send attaches a request
func (b *Builder[I, Req, Resp, E]) Send(request Req) *SendBuilder[I, Req, Resp, E] {
	phase := b.call.transition(b.phase)
	b.call.request = envelope.NewRequest[I](request)
	return &SendBuilder[I, Req, Resp, E]{call: b.call, phase: phase}
}

// Init attaches an initialization payload
func (b *Builder[I, Req, Resp, E]) Init(init I) *InitBuilder[I, Req, Resp, E] {
	phase := b.call.transition(b.phase)
	b.call.request = envelope.NewInit[I, Req](init)
	return &InitBuilder[I, Req, Resp, E]{call: b.call, phase: phase}
}

// InitBuilder is a call carrying an initialization payload
type InitBuilder[I, Req, Resp any, E error] struct {
	call  *call[I, Req, Resp, E]
	phase int
}

// AndSend attaches a request handled right after initialization
func (b *InitBuilder[I, Req, Resp, E]) AndSend(request Req) *SendBuilder[I, Req, Resp, E] {
	phase := b.call.transition(b.phase)
	init, _ := b.call.request.Init()
	b.call.request = envelope.NewInitWithRequest(init, request)
	return &SendBuilder[I, Req, Resp, E]{call: b.call, phase: phase}
}

// Do initializes the object.
// A domain failure reported by the object is returned as the first value;
// the second value reports failures of the call itself.
func (b *InitBuilder[I, Req, Resp, E]) Do(ctx context.Context) (*ObjectError[E], error) {
	response, err := b.call.do(ctx, b.phase)
	if err != nil {
		return nil, err
	}

	switch response.Kind() {
	case envelope.ResponseInitialized:
		return nil, nil
	case envelope.ResponseError:
		domainErr, _ := response.Err()
		return &ObjectError[E]{Err: domainErr}, nil
	default:
		return nil, errors.ErrExpectedObjectInitialized
	}
}

// SendBuilder is a call carrying a request
type SendBuilder[I, Req, Resp any, E error] struct {
	call  *call[I, Req, Resp, E]
	phase int
}

// Do sends the request and waits for the object's response.
// A domain failure is returned as an *ObjectError[E].
func (b *SendBuilder[I, Req, Resp, E]) Do(ctx context.Context) (Resp, error) {
	var zero Resp
	response, err := b.call.do(ctx, b.phase)
	if err != nil {
		return zero, err
	}

	switch response.Kind() {
	case envelope.ResponseValue:
		value, _ := response.Response()
		return value, nil
	case envelope.ResponseError:
		domainErr, _ := response.Err()
		return zero, &ObjectError[E]{Err: domainErr}
	default:
		return zero, errors.ErrExpectedObjectResponse
	}
}
