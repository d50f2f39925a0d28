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

package object

import (
	"context"
	goerrors "errors"
	"fmt"

	"github.com/tochemey/durable/envelope"
	"github.com/tochemey/durable/errors"
)

// Dispatcher runs the calls of one object.
//
// It decodes the request envelope, brings the object into memory when its slot
// is empty, routes the request to Handle and encodes the response envelope.
// The instance is kept in the slot between calls.
//
// A Dispatcher is not safe for concurrent use: the host delivers one call at a time.
type Dispatcher[I, Req, Resp any, E error] struct {
	kind  *Kind[I, Req, Resp, E]
	state *State
	slot  Object[Req, Resp]
}

var _ Entrypoint = (*Dispatcher[struct{}, struct{}, struct{}, Failure])(nil)

// NewDispatcher creates a Dispatcher with an empty slot
func NewDispatcher[I, Req, Resp any, E error](kind *Kind[I, Req, Resp, E], state *State) *Dispatcher[I, Req, Resp, E] {
	return &Dispatcher[I, Req, Resp, E]{kind: kind, state: state}
}

// Fetch handles one encoded request envelope
func (d *Dispatcher[I, Req, Resp, E]) Fetch(ctx context.Context, body []byte) ([]byte, error) {
	request, err := envelope.DecodeRequest[I, Req](d.kind.codec, body)
	if err != nil {
		return nil, err
	}

	response, err := d.dispatch(ctx, &request)
	if err != nil {
		return nil, err
	}
	return envelope.EncodeResponse(d.kind.codec, response)
}

// Alarm handles the object's alarm.
// The handler's response is discarded and its error returned as is.
func (d *Dispatcher[I, Req, Resp, E]) Alarm(ctx context.Context) error {
	response, err := d.dispatch(ctx, nil)
	if err != nil {
		return err
	}
	if domainErr, ok := response.Err(); ok {
		return domainErr
	}
	return nil
}

// Loaded reports whether an instance is in the slot
func (d *Dispatcher[I, Req, Resp, E]) Loaded() bool {
	return d.slot != nil
}

// dispatch runs one call. A nil request means the alarm fired.
func (d *Dispatcher[I, Req, Resp, E]) dispatch(ctx context.Context, request *envelope.Request[I, Req]) (envelope.Response[Resp, E], error) {
	octx := NewContext(ctx, d.state, d.kind.codec)
	alarm := request == nil

	// the slot stays empty while the call runs
	instance := d.slot
	d.slot = nil

	if instance == nil {
		loaded, failure, err := d.activate(octx, request)
		if err != nil || failure != nil {
			if failure != nil {
				return *failure, nil
			}
			return envelope.Response[Resp, E]{}, err
		}
		instance = loaded
	} else if !alarm {
		// only a cold start consumes an initialization payload
		if _, ok := request.Init(); ok {
			d.slot = instance
			return envelope.Response[Resp, E]{}, fmt.Errorf("%w: %s envelope reached object %s/%s already in memory",
				errors.ErrInternalConsistency, request.Kind(), d.state.binding, d.state.id)
		}
	}

	defer func() {
		d.slot = instance
	}()

	var (
		result Resp
		err    error
	)

	switch {
	case alarm:
		result, err = instance.Handle(octx, Alarm[Req]())
	case request.Kind() == envelope.SendRequest:
		payload, _ := request.Request()
		result, err = instance.Handle(octx, Fetch(payload))
	case request.IsEmpty():
		return envelope.NewInitialized[Resp, E](), nil
	default:
		panic(fmt.Errorf("%w: %s envelope reached the handler", errors.ErrInternalConsistency, request.Kind()))
	}

	if err != nil {
		var domainErr E
		if goerrors.As(err, &domainErr) {
			return envelope.NewError[Resp](domainErr), nil
		}
		return envelope.Response[Resp, E]{}, err
	}
	return envelope.NewResponse[Resp, E](result), nil
}

// activate brings the object into memory.
// A failure matching E is returned as an error envelope; any other failure as an error.
func (d *Dispatcher[I, Req, Resp, E]) activate(ctx *Context, request *envelope.Request[I, Req]) (Object[Req, Resp], *envelope.Response[Resp, E], error) {
	definition := d.kind.definition

	var initErr error
	if request != nil {
		if init, ok := request.TakeInit(); ok {
			initErr = definition.Init(ctx, init)
		}
	}

	// load runs even after a failed init; the init failure still ends the call
	instance, loadErr := definition.LoadFromStorage(ctx)
	if initErr != nil {
		failure, err := d.activationFailure(initErr)
		return nil, failure, err
	}
	if loadErr != nil {
		failure, err := d.activationFailure(loadErr)
		return nil, failure, err
	}
	if instance == nil {
		return nil, nil, errors.NewErrActivationFailure(fmt.Errorf("%s loaded a nil object", definition.Binding()))
	}
	return instance, nil, nil
}

func (d *Dispatcher[I, Req, Resp, E]) activationFailure(err error) (*envelope.Response[Resp, E], error) {
	var domainErr E
	if goerrors.As(err, &domainErr) {
		response := envelope.NewError[Resp](domainErr)
		return &response, nil
	}
	return nil, errors.NewErrActivationFailure(err)
}
