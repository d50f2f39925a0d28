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
	"net/http"

	"connectrpc.com/connect"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/durable/address"
	"github.com/tochemey/durable/internal/callchain"
	"github.com/tochemey/durable/internal/compression"
	ihttp "github.com/tochemey/durable/internal/http"
)

// Client reaches the objects of a remote Server.
// It implements address.Env, so proxies can be created from it directly.
type Client struct {
	config     *Config
	httpClient *http.Client
	fetch      *connect.Client[FetchRequest, FetchResponse]
	resolve    *connect.Client[ResolveRequest, ResolveResponse]
	// bindings already resolved against the server
	resolved mapset.Set[string]
}

var _ address.Env = (*Client)(nil)

// NewClient creates a Client for the server at the config's address
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	httpClient := ihttp.NewClient(config.MaxFrameSize(), config.CallTimeout())
	baseURL := ihttp.URL(config.BindAddr(), config.BindPort())

	opts := []connect.ClientOption{
		connect.WithCodec(newFrameCodec()),
		connect.WithReadMaxBytes(int(config.MaxFrameSize())),
	}
	opts = append(opts, compression.ClientOptions(config.Compression())...)

	return &Client{
		config:     config,
		httpClient: httpClient,
		fetch:      connect.NewClient[FetchRequest, FetchResponse](httpClient, baseURL+FetchProcedure, opts...),
		resolve:    connect.NewClient[ResolveRequest, ResolveResponse](httpClient, baseURL+ResolveProcedure, opts...),
		resolved:   mapset.NewSet[string](),
	}, nil
}

// Namespace implements address.Env.
// The binding is checked against the server the first time it is used.
func (c *Client) Namespace(binding string) (address.Namespace, error) {
	if !c.resolved.Contains(binding) {
		ctx, cancel := context.WithTimeout(context.Background(), c.config.CallTimeout())
		defer cancel()

		response, err := c.resolve.CallUnary(ctx, connect.NewRequest(&ResolveRequest{Binding: binding}))
		if err != nil {
			return nil, fromCode(connect.CodeOf(err), err)
		}
		c.resolved.Append(response.Msg.Bindings...)
	}
	return address.NewNamespace(binding, address.StubFactoryFunc(c.newStub))
}

// Fetch delivers an encoded request envelope to a remote object
func (c *Client) Fetch(ctx context.Context, binding string, id address.ID, body []byte) ([]byte, error) {
	response, err := c.fetch.CallUnary(ctx, connect.NewRequest(&FetchRequest{
		Binding: binding,
		ID:      id.String(),
		Body:    body,
		Chain:   callchain.Keys(ctx),
	}))
	if err != nil {
		return nil, fromCode(connect.CodeOf(err), err)
	}
	return response.Msg.Body, nil
}

// Close releases the idle connections of the client
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *Client) newStub(binding string, id address.ID) (address.Stub, error) {
	return &remoteStub{fetcher: c, binding: binding, id: id}, nil
}

// fetcher is the transport behind a remote stub
type fetcher interface {
	Fetch(ctx context.Context, binding string, id address.ID, body []byte) ([]byte, error)
}

type remoteStub struct {
	fetcher fetcher
	binding string
	id      address.ID
}

var _ address.Stub = (*remoteStub)(nil)

func (s *remoteStub) ID() address.ID {
	return s.id
}

func (s *remoteStub) Fetch(ctx context.Context, body []byte) ([]byte, error) {
	return s.fetcher.Fetch(ctx, s.binding, s.id, body)
}
