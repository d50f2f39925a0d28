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
	"context"
	goerrors "errors"
	"fmt"
	"slices"

	"connectrpc.com/connect"

	"github.com/tochemey/durable/address"
	"github.com/tochemey/durable/internal/callchain"
	"github.com/tochemey/durable/errors"
)

// Backend runs the objects a server exposes. host.Host implements it.
type Backend interface {
	// Bindings returns the bindings served
	Bindings() []string
	// Fetch delivers an encoded request envelope to an object
	Fetch(ctx context.Context, binding string, id address.ID, body []byte) ([]byte, error)
}

// serve runs a fetch against the backend, checking its inputs first
func serve(ctx context.Context, backend Backend, request *FetchRequest) ([]byte, error) {
	id, err := address.ParseID(request.ID)
	if err != nil {
		return nil, err
	}
	return backend.Fetch(callchain.Restore(ctx, request.Chain), request.Binding, id, request.Body)
}

// resolve reports whether backend serves binding
func resolve(backend Backend, binding string) error {
	if !slices.Contains(backend.Bindings(), binding) {
		return errors.NewErrUnknownBinding(binding)
	}
	return nil
}

// toCode maps a backend error to the code sent to callers
func toCode(err error) connect.Code {
	var panicErr *errors.PanicError
	switch {
	case goerrors.Is(err, errors.ErrUnknownBinding):
		return connect.CodeNotFound
	case goerrors.Is(err, errors.ErrInvalidObjectID),
		goerrors.Is(err, errors.ErrInvalidEnvelope),
		goerrors.Is(err, errors.ErrDecode):
		return connect.CodeInvalidArgument
	case goerrors.Is(err, errors.ErrActivationFailure):
		return connect.CodeFailedPrecondition
	case goerrors.Is(err, errors.ErrHostNotStarted):
		return connect.CodeUnavailable
	case goerrors.Is(err, errors.ErrReentrantCall):
		return connect.CodeAborted
	case goerrors.Is(err, errors.ErrReentrancyDepthExceeded):
		return connect.CodeResourceExhausted
	case goerrors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	case goerrors.Is(err, context.Canceled):
		return connect.CodeCanceled
	case goerrors.As(err, &panicErr),
		goerrors.Is(err, errors.ErrInternalConsistency):
		return connect.CodeInternal
	default:
		return connect.CodeUnknown
	}
}

// fromCode rebuilds the caller side error of a failed call.
// The result always wraps errors.ErrRemoteCall.
func fromCode(code connect.Code, err error) error {
	var sentinel error
	switch code {
	case connect.CodeNotFound:
		sentinel = errors.ErrUnknownBinding
	case connect.CodeFailedPrecondition:
		sentinel = errors.ErrActivationFailure
	case connect.CodeUnavailable:
		sentinel = errors.ErrHostNotStarted
	case connect.CodeAborted:
		sentinel = errors.ErrReentrantCall
	case connect.CodeResourceExhausted:
		sentinel = errors.ErrReentrancyDepthExceeded
	}

	if sentinel == nil {
		return errors.NewErrRemoteCall(err)
	}
	return fmt.Errorf("%w: %w", sentinel, errors.NewErrRemoteCall(err))
}
