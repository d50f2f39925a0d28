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
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	"github.com/reugn/go-quartz/quartz"

	"github.com/tochemey/durable/address"
	"github.com/tochemey/durable/errors"
	"github.com/tochemey/durable/object"
)

// pendingAlarm is the single alarm an object can have
type pendingAlarm struct {
	at  time.Time
	job *quartz.JobKey
}

// alarmTable holds the pending alarms by instance key.
// Alarms outlive the in-memory instance that set them.
type alarmTable struct {
	mu      sync.Mutex
	pending map[string]pendingAlarm
}

func newAlarmTable() *alarmTable {
	return &alarmTable{pending: make(map[string]pendingAlarm)}
}

func (t *alarmTable) get(key string) (pendingAlarm, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	alarm, ok := t.pending[key]
	return alarm, ok
}

// swap records alarm and returns the one it replaces
func (t *alarmTable) swap(key string, alarm pendingAlarm) (pendingAlarm, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	previous, ok := t.pending[key]
	t.pending[key] = alarm
	return previous, ok
}

func (t *alarmTable) remove(key string) (pendingAlarm, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	alarm, ok := t.pending[key]
	delete(t.pending, key)
	return alarm, ok
}

// take removes the alarm only when it is still scheduled under the given job
func (t *alarmTable) take(key string, jobKey *quartz.JobKey) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	alarm, ok := t.pending[key]
	if !ok || !alarm.job.Equals(jobKey) {
		return false
	}
	delete(t.pending, key)
	return true
}

func (t *alarmTable) reset() {
	t.mu.Lock()
	clear(t.pending)
	t.mu.Unlock()
}

// objectAlarms implements object.Alarms for one identity
type objectAlarms struct {
	host    *Host
	binding string
	id      address.ID
}

var _ object.Alarms = (*objectAlarms)(nil)

// Set implements object.Alarms
func (a *objectAlarms) Set(at time.Time) error {
	return a.host.setAlarm(a.binding, a.id, at)
}

// Get implements object.Alarms
func (a *objectAlarms) Get() (time.Time, bool) {
	alarm, ok := a.host.alarms.get(instanceKey(a.binding, a.id))
	return alarm.at, ok
}

// Delete implements object.Alarms
func (a *objectAlarms) Delete() error {
	return a.host.deleteAlarm(a.binding, a.id)
}

func (h *Host) setAlarm(binding string, id address.ID, at time.Time) error {
	if !h.started.Load() {
		return errors.ErrHostNotStarted
	}

	key := instanceKey(binding, id)
	jobKey := quartz.NewJobKey(key + "/" + uuid.NewString())
	alarmJob := job.NewFunctionJob[bool](
		func(ctx context.Context) (bool, error) {
			err := h.fireAlarm(ctx, binding, id, jobKey)
			return err == nil, err
		},
	)

	if previous, ok := h.alarms.swap(key, pendingAlarm{at: at, job: jobKey}); ok {
		_ = h.scheduler.DeleteJob(previous.job)
	}

	delay := max(time.Until(at), 0)
	if err := h.scheduler.ScheduleJob(quartz.NewJobDetail(alarmJob, jobKey), quartz.NewRunOnceTrigger(delay)); err != nil {
		h.alarms.take(key, jobKey)
		return err
	}
	return nil
}

func (h *Host) deleteAlarm(binding string, id address.ID) error {
	alarm, ok := h.alarms.remove(instanceKey(binding, id))
	if !ok || !h.started.Load() {
		return nil
	}
	// the job may have fired already
	_ = h.scheduler.DeleteJob(alarm.job)
	return nil
}

// fireAlarm delivers the alarm, activating the object when it was evicted.
// The alarm is cleared before the handler runs so the handler can set the next one.
func (h *Host) fireAlarm(ctx context.Context, binding string, id address.ID, jobKey *quartz.JobKey) error {
	if !h.started.Load() || !h.alarms.take(instanceKey(binding, id), jobKey) {
		return nil
	}

	h.alarmsCounter.Inc()
	err := h.withInstance(ctx, binding, id, func(ctx context.Context, inst *instance) error {
		return inst.alarm(ctx)
	})
	if err != nil {
		h.failuresCounter.Inc()
		h.logger.Errorf("alarm of object (%s) failed: %v", instanceKey(binding, id), err)
	}
	return err
}
