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
	"net"
	"strconv"
	"time"

	"github.com/tochemey/durable/internal/compression"
	"github.com/tochemey/durable/internal/validation"
	"github.com/tochemey/durable/log"
)

// Compression selects the payload compression of the HTTP transport
type Compression = compression.Compression

const (
	// NoCompression sends payloads as-is
	NoCompression = compression.NoCompression
	// ZstdCompression compresses payloads with Zstandard
	ZstdCompression = compression.ZstdCompression
	// BrotliCompression compresses payloads with Brotli
	BrotliCompression = compression.BrotliCompression
)

// Config defines the HTTP transport settings shared by Server and Client.
// BindAddr and BindPort are where the server listens and where the client connects.
type Config struct {
	bindAddr        string
	bindPort        int
	maxFrameSize    uint32
	writeTimeout    time.Duration
	readIdleTimeout time.Duration
	idleTimeout     time.Duration
	callTimeout     time.Duration
	compression     Compression
	logger          log.Logger
}

var _ validation.Validator = (*Config)(nil)

// NewConfig returns a Config for the given address
func NewConfig(bindAddr string, bindPort int, opts ...Option) *Config {
	cfg := &Config{
		bindAddr:        bindAddr,
		bindPort:        bindPort,
		maxFrameSize:    16 * 1024 * 1024,
		writeTimeout:    10 * time.Second,
		readIdleTimeout: 10 * time.Second,
		idleTimeout:     1200 * time.Second,
		callTimeout:     30 * time.Second,
		compression:     ZstdCompression,
		logger:          log.DefaultLogger,
	}

	for _, opt := range opts {
		opt.Apply(cfg)
	}

	return cfg
}

// DefaultConfig returns a Config listening on the loopback interface
func DefaultConfig() *Config {
	return NewConfig("127.0.0.1", 0)
}

// BindAddr returns the bind address
func (x *Config) BindAddr() string {
	return x.bindAddr
}

// BindPort returns the bind port
func (x *Config) BindPort() int {
	return x.bindPort
}

// HostPort returns the address in host:port form
func (x *Config) HostPort() string {
	return net.JoinHostPort(x.bindAddr, strconv.Itoa(x.bindPort))
}

// MaxFrameSize returns the largest HTTP/2 frame and message accepted
func (x *Config) MaxFrameSize() uint32 {
	return x.maxFrameSize
}

// WriteTimeout returns the HTTP/2 write timeout
func (x *Config) WriteTimeout() time.Duration {
	return x.writeTimeout
}

// ReadIdleTimeout returns the HTTP/2 read idle timeout
func (x *Config) ReadIdleTimeout() time.Duration {
	return x.readIdleTimeout
}

// IdleTimeout returns the idle connection timeout
func (x *Config) IdleTimeout() time.Duration {
	return x.idleTimeout
}

// CallTimeout returns how long a client waits for a reply
func (x *Config) CallTimeout() time.Duration {
	return x.callTimeout
}

// Compression returns the payload compression
func (x *Config) Compression() Compression {
	return x.compression
}

// Logger returns the logger
func (x *Config) Logger() log.Logger {
	return x.logger
}

// Validate checks the configuration
func (x *Config) Validate() error {
	return validation.New(validation.AllErrors()).
		AddValidator(validation.NewEmptyStringValidator("bindAddr", x.bindAddr)).
		AddAssertion(x.bindPort >= 0 && x.bindPort <= 65535, "bindPort is invalid").
		AddAssertion(x.maxFrameSize >= 16*1024 && x.maxFrameSize <= 16*1024*1024, "maxFrameSize must be between 16KB and 16MB").
		AddAssertion(x.callTimeout > 0, "callTimeout is invalid").
		AddAssertion(x.logger != nil, "logger is required").
		Validate()
}
