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
	"sync"
	"time"

	"connectrpc.com/connect"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/nats-io/nats.go"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/durable/address"
	"github.com/tochemey/durable/internal/callchain"
	"github.com/tochemey/durable/errors"
	"github.com/tochemey/durable/internal/validation"
	"github.com/tochemey/durable/log"
)

// DefaultNATSSubjectPrefix is the subject prefix used when none is configured
const DefaultNATSSubjectPrefix = "durable"

// natsReply is the reply frame of a NATS call.
// Code is the connect code of the failure when Error is set.
type natsReply struct {
	Body     []byte   `cbor:"1,keyasint,omitempty"`
	Bindings []string `cbor:"2,keyasint,omitempty"`
	Code     uint32   `cbor:"3,keyasint,omitempty"`
	Error    string   `cbor:"4,keyasint,omitempty"`
}

// NATSConfig defines the NATS transport settings
type NATSConfig struct {
	// URL is the NATS server url
	URL string
	// SubjectPrefix namespaces the subjects of one deployment
	SubjectPrefix string
	// QueueGroup lets several servers share the load of one deployment
	QueueGroup string
	// ConnectTimeout bounds the initial connection
	ConnectTimeout time.Duration
	// CallTimeout bounds a call when its context has no deadline
	CallTimeout time.Duration
	// Logger is the logger
	Logger log.Logger
}

// Validate checks the configuration and applies defaults
func (c *NATSConfig) Validate() error {
	if c.SubjectPrefix == "" {
		c.SubjectPrefix = DefaultNATSSubjectPrefix
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 5 * time.Second
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = log.DefaultLogger
	}
	return validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("URL", c.URL)).
		Validate()
}

func (c *NATSConfig) fetchSubject() string {
	return c.SubjectPrefix + ".fetch"
}

func (c *NATSConfig) resolveSubject() string {
	return c.SubjectPrefix + ".resolve"
}

// NATSServer exposes a Backend over NATS request/reply
type NATSServer struct {
	mu            sync.Mutex
	backend       Backend
	config        *NATSConfig
	codec         *frameCodec
	conn          *nats.Conn
	subscriptions []*nats.Subscription
	started       *atomic.Bool
	// gate orders the start of a call against Stop
	gate sync.RWMutex
	// tracks the calls in flight so Stop can wait for them
	inflight sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewNATSServer creates a NATSServer for the given backend
func NewNATSServer(backend Backend, config *NATSConfig) *NATSServer {
	return &NATSServer{
		backend: backend,
		config:  config,
		codec:   newFrameCodec(),
		started: atomic.NewBool(false),
	}
}

// Start connects to NATS and subscribes to the fetch and resolve subjects
func (s *NATSServer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started.Load() {
		return nil
	}

	if err := s.config.Validate(); err != nil {
		return err
	}

	conn, err := nats.Connect(s.config.URL, nats.Timeout(s.config.ConnectTimeout))
	if err != nil {
		return err
	}

	s.conn = conn
	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))

	handlers := map[string]nats.MsgHandler{
		s.config.fetchSubject():   s.handleFetch,
		s.config.resolveSubject(): s.handleResolve,
	}

	// handlers serve as soon as they are subscribed
	s.started.Store(true)
	for subject, handler := range handlers {
		subscription, err := conn.QueueSubscribe(subject, s.config.QueueGroup, handler)
		if err != nil {
			_ = s.shutdown()
			return err
		}
		s.subscriptions = append(s.subscriptions, subscription)
	}

	if err := conn.FlushTimeout(s.config.ConnectTimeout); err != nil {
		_ = s.shutdown()
		return err
	}

	s.config.Logger.Infof("NATS server subscribed on %s.*", s.config.SubjectPrefix)
	return nil
}

// Stop unsubscribes, waits for the calls in flight and closes the connection
func (s *NATSServer) Stop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started.Load() {
		return nil
	}

	return s.shutdown()
}

// shutdown closes the gate, waits for the calls in flight and closes the connection
func (s *NATSServer) shutdown() error {
	// no call starts once the gate is closed
	s.gate.Lock()
	s.started.Store(false)
	s.gate.Unlock()

	var err error
	for _, subscription := range s.subscriptions {
		err = multierr.Append(err, subscription.Unsubscribe())
	}
	s.subscriptions = nil

	s.inflight.Wait()
	s.cancel()
	s.conn.Close()
	return err
}

// handleFetch serves every call on its own goroutine: the subscription delivers
// messages one at a time and objects may call each other through the same server.
func (s *NATSServer) handleFetch(msg *nats.Msg) {
	s.gate.RLock()
	defer s.gate.RUnlock()
	if !s.started.Load() {
		s.reply(msg, &natsReply{Code: uint32(connect.CodeUnavailable), Error: errors.ErrServerNotStarted.Error()})
		return
	}

	s.inflight.Go(func() {
		s.fetch(msg)
	})
}

func (s *NATSServer) fetch(msg *nats.Msg) {
	request := new(FetchRequest)
	if err := s.codec.Unmarshal(msg.Data, request); err != nil {
		s.reply(msg, &natsReply{Code: uint32(connect.CodeInvalidArgument), Error: err.Error()})
		return
	}

	body, err := serve(s.ctx, s.backend, request)
	if err != nil {
		s.reply(msg, &natsReply{Code: uint32(toCode(err)), Error: err.Error()})
		return
	}
	s.reply(msg, &natsReply{Body: body})
}

func (s *NATSServer) handleResolve(msg *nats.Msg) {
	request := new(ResolveRequest)
	if err := s.codec.Unmarshal(msg.Data, request); err != nil {
		s.reply(msg, &natsReply{Code: uint32(connect.CodeInvalidArgument), Error: err.Error()})
		return
	}

	if err := resolve(s.backend, request.Binding); err != nil {
		s.reply(msg, &natsReply{Code: uint32(connect.CodeNotFound), Error: err.Error()})
		return
	}
	s.reply(msg, &natsReply{Bindings: s.backend.Bindings()})
}

func (s *NATSServer) reply(msg *nats.Msg, reply *natsReply) {
	data, err := s.codec.Marshal(reply)
	if err == nil {
		err = msg.Respond(data)
	}
	if err != nil {
		s.config.Logger.Errorf("failed to reply on %s: %v", msg.Subject, err)
	}
}

// NATSClient reaches the objects of NATS servers.
// It implements address.Env.
type NATSClient struct {
	config   *NATSConfig
	codec    *frameCodec
	conn     *nats.Conn
	resolved mapset.Set[string]
}

var _ address.Env = (*NATSClient)(nil)

// NewNATSClient connects to NATS
func NewNATSClient(config *NATSConfig) (*NATSClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	conn, err := nats.Connect(config.URL, nats.Timeout(config.ConnectTimeout))
	if err != nil {
		return nil, err
	}

	return &NATSClient{
		config:   config,
		codec:    newFrameCodec(),
		conn:     conn,
		resolved: mapset.NewSet[string](),
	}, nil
}

// Namespace implements address.Env
func (c *NATSClient) Namespace(binding string) (address.Namespace, error) {
	if !c.resolved.Contains(binding) {
		ctx, cancel := context.WithTimeout(context.Background(), c.config.CallTimeout)
		defer cancel()

		reply, err := c.call(ctx, c.config.resolveSubject(), &ResolveRequest{Binding: binding})
		if err != nil {
			return nil, err
		}
		c.resolved.Append(reply.Bindings...)
	}
	return address.NewNamespace(binding, address.StubFactoryFunc(c.newStub))
}

// Fetch delivers an encoded request envelope to a remote object
func (c *NATSClient) Fetch(ctx context.Context, binding string, id address.ID, body []byte) ([]byte, error) {
	reply, err := c.call(ctx, c.config.fetchSubject(), &FetchRequest{
		Binding: binding,
		ID:      id.String(),
		Body:    body,
		Chain:   callchain.Keys(ctx),
	})
	if err != nil {
		return nil, err
	}
	return reply.Body, nil
}

// FetchAll delivers the same request envelope to several objects of a binding concurrently.
// Replies are returned in the order of ids; the first failure cancels the remaining calls.
func (c *NATSClient) FetchAll(ctx context.Context, binding string, ids []address.ID, body []byte) ([][]byte, error) {
	replies := make([][]byte, len(ids))
	eg, ctx := errgroup.WithContext(ctx)
	for index, id := range ids {
		eg.Go(func() error {
			reply, err := c.Fetch(ctx, binding, id, body)
			if err != nil {
				return err
			}
			replies[index] = reply
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return replies, nil
}

// Close closes the NATS connection
func (c *NATSClient) Close() {
	c.conn.Close()
}

func (c *NATSClient) call(ctx context.Context, subject string, request any) (*natsReply, error) {
	data, err := c.codec.Marshal(request)
	if err != nil {
		return nil, err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.CallTimeout)
		defer cancel()
	}

	msg, err := c.conn.RequestWithContext(ctx, subject, data)
	if err != nil {
		if goerrors.Is(err, nats.ErrNoResponders) {
			return nil, fromCode(connect.CodeUnavailable, err)
		}
		return nil, errors.NewErrRemoteCall(err)
	}

	reply := new(natsReply)
	if err := c.codec.Unmarshal(msg.Data, reply); err != nil {
		return nil, errors.NewErrRemoteCall(err)
	}

	if reply.Error != "" {
		code := connect.Code(reply.Code)
		return nil, fromCode(code, fmt.Errorf("%s: %s", code, reply.Error))
	}
	return reply, nil
}

func (c *NATSClient) newStub(binding string, id address.ID) (address.Stub, error) {
	return &remoteStub{fetcher: c, binding: binding, id: id}, nil
}
