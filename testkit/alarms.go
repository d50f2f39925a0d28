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

package testkit

import (
	"sync"
	"time"

	"github.com/tochemey/durable/object"
)

// Alarms records the alarm of a standalone context. It never fires.
type Alarms struct {
	mu  sync.Mutex
	at  time.Time
	set bool
}

var _ object.Alarms = (*Alarms)(nil)

// NewAlarms creates Alarms
func NewAlarms() *Alarms {
	return &Alarms{}
}

// Set implements object.Alarms
func (a *Alarms) Set(at time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.at, a.set = at, true
	return nil
}

// Get implements object.Alarms
func (a *Alarms) Get() (time.Time, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.at, a.set
}

// Delete implements object.Alarms
func (a *Alarms) Delete() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.at, a.set = time.Time{}, false
	return nil
}
