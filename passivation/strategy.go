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

// Package passivation decides when an idle object leaves memory.
// Its durable state stays in storage; the next call loads it again.
package passivation

import (
	"fmt"
	"time"
)

// Strategy decides whether an in-memory object should be evicted
type Strategy interface {
	fmt.Stringer
	Name() string
	// Expired reports whether an object idle for the given duration,
	// after serving the given number of calls since it was loaded, should be evicted
	Expired(idle time.Duration, calls int64) bool
}

// TimeBasedStrategy evicts objects that received no call for a while
type TimeBasedStrategy struct {
	timeout time.Duration
}

var _ Strategy = (*TimeBasedStrategy)(nil)

// NewTimeBasedStrategy evicts objects idle for at least timeout.
//
// Example:
//
//	strategy := NewTimeBasedStrategy(5 * time.Minute)
func NewTimeBasedStrategy(timeout time.Duration) *TimeBasedStrategy {
	return &TimeBasedStrategy{
		timeout: timeout,
	}
}

// Timeout returns the idle duration after which an object is evicted
func (t *TimeBasedStrategy) Timeout() time.Duration {
	return t.timeout
}

// Expired implements Strategy
func (t *TimeBasedStrategy) Expired(idle time.Duration, _ int64) bool {
	return idle >= t.timeout
}

// String returns the string representation of the TimeBasedStrategy.
func (t *TimeBasedStrategy) String() string {
	return fmt.Sprintf("Time-Based of Duration=[%s]", t.timeout)
}

func (t *TimeBasedStrategy) Name() string {
	return "TimeBased"
}

// CallsCountBasedStrategy evicts objects once they served a number of calls.
// It bounds how long state derived at load time is reused.
type CallsCountBasedStrategy struct {
	maxCalls int64
}

var _ Strategy = (*CallsCountBasedStrategy)(nil)

// NewCallsCountBasedStrategy evicts objects that served at least maxCalls calls
func NewCallsCountBasedStrategy(maxCalls int64) *CallsCountBasedStrategy {
	return &CallsCountBasedStrategy{
		maxCalls: maxCalls,
	}
}

// MaxCalls returns the calls threshold
func (m *CallsCountBasedStrategy) MaxCalls() int64 {
	return m.maxCalls
}

// Expired implements Strategy
func (m *CallsCountBasedStrategy) Expired(_ time.Duration, calls int64) bool {
	return calls >= m.maxCalls
}

// String returns the string representation of the CallsCountBasedStrategy.
func (m *CallsCountBasedStrategy) String() string {
	return fmt.Sprintf("Calls Count-Based with maximum of %d", m.maxCalls)
}

// Name returns the name of the CallsCountBasedStrategy.
func (m *CallsCountBasedStrategy) Name() string {
	return "CallsCountBased"
}

// LongLivedStrategy never evicts objects
type LongLivedStrategy struct{}

var _ Strategy = (*LongLivedStrategy)(nil)

// NewLongLivedStrategy creates and returns a new LongLivedStrategy.
func NewLongLivedStrategy() *LongLivedStrategy {
	return &LongLivedStrategy{}
}

// Expired implements Strategy
func (l *LongLivedStrategy) Expired(time.Duration, int64) bool {
	return false
}

// String returns the string representation of the LongLivedStrategy.
func (l *LongLivedStrategy) String() string {
	return "Long Lived"
}

// Name returns the name of the LongLivedStrategy.
func (l *LongLivedStrategy) Name() string {
	return "LongLived"
}
