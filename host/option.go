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

package host

import (
	"time"

	"github.com/tochemey/durable/address"
	"github.com/tochemey/durable/log"
	"github.com/tochemey/durable/passivation"
	"github.com/tochemey/durable/reentrancy"
	"github.com/tochemey/durable/storage"
)

const (
	// DefaultPassivationTimeout defines the default idle time after which an object is evicted
	DefaultPassivationTimeout = 2 * time.Minute
	// DefaultSweepInterval defines how often in-memory objects are checked for eviction
	DefaultSweepInterval = time.Second
	// DefaultShutdownTimeout defines the default shutdown timeout
	DefaultShutdownTimeout = time.Minute
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(host *Host)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Host)

// Apply applies the options to Host
func (f OptionFunc) Apply(h *Host) {
	f(h)
}

// WithLogger sets the host logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(h *Host) {
		h.logger = logger
	})
}

// WithStorage sets the storage backing every object of the host.
// Each object only sees its own keys. Defaults to an in-memory store.
// The host does not close it.
func WithStorage(store storage.Store) Option {
	return OptionFunc(func(h *Host) {
		h.store = store
	})
}

// WithPassivation sets the eviction strategy of idle objects
func WithPassivation(strategy passivation.Strategy) Option {
	return OptionFunc(func(h *Host) {
		h.passivation = strategy
	})
}

// WithPassivateAfter evicts objects idle for the given duration
func WithPassivateAfter(timeout time.Duration) Option {
	return WithPassivation(passivation.NewTimeBasedStrategy(timeout))
}

// WithSweepInterval sets how often in-memory objects are checked for eviction
func WithSweepInterval(interval time.Duration) Option {
	return OptionFunc(func(h *Host) {
		h.sweepInterval = interval
	})
}

// WithEnv sets the environment objects use to reach other objects.
// It defaults to the host itself; set it to a remote environment when objects
// call bindings served elsewhere.
func WithEnv(env address.Env) Option {
	return OptionFunc(func(h *Host) {
		h.env = env
	})
}

// WithMetrics enables the OpenTelemetry host instruments
func WithMetrics() Option {
	return OptionFunc(func(h *Host) {
		h.metricsEnabled.Store(true)
	})
}

// WithShutdownTimeout sets how long Stop waits for running alarms
func WithShutdownTimeout(timeout time.Duration) Option {
	return OptionFunc(func(h *Host) {
		h.shutdownTimeout = timeout
	})
}

// WithReentrancy sets how the host treats a call that comes back, through a chain
// of calls, to an object whose own call is still running.
// It defaults to reentrancy.New(), which lets such calls through.
func WithReentrancy(config *reentrancy.Reentrancy) Option {
	return OptionFunc(func(h *Host) {
		h.reentrancy = config
	})
}
