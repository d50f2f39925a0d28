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

// Package host runs durable objects.
//
// A Host keeps at most one instance of every object identity in memory,
// serializes the calls it receives, evicts idle instances and fires the
// alarms objects set. It implements address.Env so proxies can reach the
// objects it runs without any transport:
//
//	h := host.New("local", host.WithStorage(store))
//	if err := h.Register(CounterKind); err != nil {
//	    return err
//	}
//	if err := h.Start(ctx); err != nil {
//	    return err
//	}
//	defer h.Stop(ctx)
//
//	counter, err := proxy.Named(h, CounterKind, "visits")
package host

import (
	"context"
	"fmt"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/singleflight"

	"github.com/tochemey/durable/address"
	"github.com/tochemey/durable/errors"
	"github.com/tochemey/durable/internal/callchain"
	"github.com/tochemey/durable/internal/metric"
	"github.com/tochemey/durable/internal/validation"
	"github.com/tochemey/durable/internal/xsync"
	"github.com/tochemey/durable/log"
	"github.com/tochemey/durable/object"
	"github.com/tochemey/durable/passivation"
	"github.com/tochemey/durable/reentrancy"
	"github.com/tochemey/durable/storage"
)

// Host runs the objects of the kinds registered with it
type Host struct {
	name string

	// helps lock Start, Stop and Register
	mu sync.Mutex

	factories *xsync.Map[string, object.Factory]
	bindings  mapset.Set[string]
	instances *xsync.Map[string, *instance]
	// dedupes concurrent activations of the same identity
	activation singleflight.Group

	store           storage.Store
	env             address.Env
	logger          log.Logger
	passivation     passivation.Strategy
	reentrancy      *reentrancy.Reentrancy
	sweepInterval   time.Duration
	shutdownTimeout time.Duration

	scheduler quartz.Scheduler
	alarms    *alarmTable

	started        *atomic.Bool
	metricsEnabled *atomic.Bool
	registration   otelmetric.Registration

	callsCounter        *atomic.Int64
	activationsCounter  *atomic.Int64
	passivationsCounter *atomic.Int64
	alarmsCounter       *atomic.Int64
	failuresCounter     *atomic.Int64

	stopSweep chan struct{}
	sweepDone chan struct{}
}

var _ address.Env = (*Host)(nil)

// New creates a Host. Register kinds before calling Start.
func New(name string, opts ...Option) *Host {
	h := &Host{
		name:                name,
		factories:           xsync.NewMap[string, object.Factory](),
		bindings:            mapset.NewSet[string](),
		instances:           xsync.NewMap[string, *instance](),
		store:               storage.NewMemory(),
		logger:              log.DefaultLogger,
		passivation:         passivation.NewTimeBasedStrategy(DefaultPassivationTimeout),
		reentrancy:          reentrancy.New(),
		sweepInterval:       DefaultSweepInterval,
		shutdownTimeout:     DefaultShutdownTimeout,
		alarms:              newAlarmTable(),
		started:             atomic.NewBool(false),
		metricsEnabled:      atomic.NewBool(false),
		callsCounter:        atomic.NewInt64(0),
		activationsCounter:  atomic.NewInt64(0),
		passivationsCounter: atomic.NewInt64(0),
		alarmsCounter:       atomic.NewInt64(0),
		failuresCounter:     atomic.NewInt64(0),
	}

	for _, opt := range opts {
		opt.Apply(h)
	}

	if h.env == nil {
		h.env = h
	}
	return h
}

// Name returns the host name
func (h *Host) Name() string {
	return h.name
}

// Register adds object kinds to the host.
// It fails once the host is started or when a binding is already taken.
func (h *Host) Register(factories ...object.Factory) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started.Load() {
		return errors.ErrHostStarted
	}

	for _, factory := range factories {
		if err := factory.Validate(); err != nil {
			return err
		}

		binding := factory.Binding()
		if !h.bindings.Add(binding) {
			return fmt.Errorf("%w: %s", errors.ErrBindingExists, binding)
		}
		h.factories.Set(binding, factory)
		h.logger.Debugf("binding (%s) registered on host (%s)", binding, h.name)
	}
	return nil
}

// Bindings returns the registered bindings
func (h *Host) Bindings() []string {
	return h.bindings.ToSlice()
}

// Start starts the host
func (h *Host) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started.Load() {
		return nil
	}

	if err := validation.New(validation.AllErrors()).
		AddValidator(validation.NewEmptyStringValidator("name", h.name)).
		AddAssertion(h.store != nil, "storage is required").
		AddAssertion(h.passivation != nil, "passivation strategy is required").
		AddAssertion(h.reentrancy != nil, "reentrancy is required").
		AddAssertion(h.sweepInterval > 0, "sweep interval must be positive").
		Validate(); err != nil {
		return err
	}

	if err := h.reentrancy.Validate(); err != nil {
		return err
	}

	h.logger.Infof("starting host (%s)...", h.name)

	// create an instance of quartz scheduler with logger off
	scheduler, err := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
	if err != nil {
		return err
	}
	scheduler.Start(ctx)
	h.scheduler = scheduler

	if h.metricsEnabled.Load() {
		if err := h.registerMetrics(); err != nil {
			scheduler.Stop()
			return err
		}
	}

	h.stopSweep = make(chan struct{})
	h.sweepDone = make(chan struct{})
	go h.sweep()

	h.started.Store(true)
	h.logger.Infof("host (%s) started with passivation (%s)", h.name, h.passivation)
	return nil
}

// Stop stops the host. Pending alarms are cancelled and in-memory objects dropped.
func (h *Host) Stop(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.started.Load() {
		return nil
	}

	h.logger.Infof("stopping host (%s)...", h.name)
	h.started.Store(false)

	close(h.stopSweep)
	<-h.sweepDone

	err := h.scheduler.Clear()
	h.scheduler.Stop()
	ctx, cancel := context.WithTimeout(ctx, h.shutdownTimeout)
	defer cancel()
	h.scheduler.Wait(ctx)

	if h.registration != nil {
		err = multierr.Append(err, h.registration.Unregister())
		h.registration = nil
	}

	h.alarms.reset()
	h.instances.Reset()
	h.logger.Infof("host (%s) stopped", h.name)
	return err
}

// Running reports whether the host is started
func (h *Host) Running() bool {
	return h.started.Load()
}

// Len returns the number of objects held in memory
func (h *Host) Len() int {
	return h.instances.Len()
}

// Namespace implements address.Env for the registered bindings
func (h *Host) Namespace(binding string) (address.Namespace, error) {
	if !h.bindings.Contains(binding) {
		return nil, errors.NewErrUnknownBinding(binding)
	}
	return address.NewNamespace(binding, address.StubFactoryFunc(h.newStub))
}

// Fetch delivers an encoded request envelope to the object identified by id
// within binding, activating it when it is not in memory.
func (h *Host) Fetch(ctx context.Context, binding string, id address.ID, body []byte) ([]byte, error) {
	if !h.started.Load() {
		return nil, errors.ErrHostNotStarted
	}

	var reply []byte
	err := h.withInstance(ctx, binding, id, func(ctx context.Context, inst *instance) (err error) {
		reply, err = inst.fetch(ctx, body)
		return err
	})

	h.callsCounter.Inc()
	if err != nil {
		h.failuresCounter.Inc()
	}
	return reply, err
}

// withInstance runs fn against the live instance of the identity.
//
// fn runs while holding the instance lock, unless ctx shows the call comes from
// one of the object's own calls: that call holds the lock and waits on this one,
// so the reentrancy policy decides instead.
func (h *Host) withInstance(ctx context.Context, binding string, id address.ID, fn func(context.Context, *instance) error) error {
	key := instanceKey(binding, id)
	chainKey := h.chainKey(key)

	if depth := callchain.Count(ctx, chainKey); depth > 0 {
		if err := h.reentrancy.Admit(depth); err != nil {
			return fmt.Errorf("object (%s): %w", key, err)
		}

		inst, err := h.instanceOf(binding, id)
		if err != nil {
			return err
		}

		err = fn(callchain.With(ctx, chainKey), inst)
		inst.touch()
		return err
	}

	for {
		inst, err := h.instanceOf(binding, id)
		if err != nil {
			return err
		}

		if err := inst.acquire(ctx); err != nil {
			return err
		}

		if inst.evicted {
			// lost a race with the sweeper, the next lookup activates a new instance
			inst.release()
			continue
		}

		err = fn(callchain.With(ctx, chainKey), inst)
		inst.touch()
		inst.release()
		return err
	}
}

// chainKey names the instance in call chains, which may cross hosts
func (h *Host) chainKey(key string) string {
	return h.name + ":" + key
}

func (h *Host) instanceOf(binding string, id address.ID) (*instance, error) {
	key := instanceKey(binding, id)
	if inst, ok := h.instances.Get(key); ok {
		return inst, nil
	}

	res, err, _ := h.activation.Do(key, func() (any, error) {
		if inst, ok := h.instances.Get(key); ok {
			return inst, nil
		}

		factory, ok := h.factories.Get(binding)
		if !ok {
			return nil, errors.NewErrUnknownBinding(binding)
		}

		logger := h.logger.With("binding", binding, "id", id.String())
		state := object.NewState(binding, id,
			storage.WithPrefix(h.store, key+"/"),
			object.WithAlarms(&objectAlarms{host: h, binding: binding, id: id}),
			object.WithEnv(h.env),
			object.WithLogger(logger))

		inst := newInstance(key, factory.NewEntrypoint(state))
		h.instances.Set(key, inst)
		h.activationsCounter.Inc()
		logger.Debug("object activated")
		return inst, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*instance), nil
}

// Evict removes the object from memory once its running call, if any, returns.
// Its durable state and pending alarm are kept. It reports whether the object was in memory.
func (h *Host) Evict(binding string, id address.ID) bool {
	key := instanceKey(binding, id)
	inst, ok := h.instances.Get(key)
	if !ok {
		return false
	}

	// a running call keeps the instance until it returns
	_ = inst.acquire(context.Background())
	defer inst.release()
	if inst.evicted {
		return false
	}
	inst.evicted = true
	h.instances.Delete(key)
	h.passivationsCounter.Inc()
	return true
}

// sweep evicts expired instances until the host stops
func (h *Host) sweep() {
	defer close(h.sweepDone)
	ticker := time.NewTicker(h.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stopSweep:
			return
		case <-ticker.C:
			h.passivate()
		}
	}
}

func (h *Host) passivate() {
	for _, key := range h.instances.Keys() {
		inst, ok := h.instances.Get(key)
		if !ok {
			continue
		}

		// a busy instance is not idle
		if !inst.tryAcquire() {
			continue
		}

		if h.passivation.Expired(inst.idle(), inst.calls.Load()) {
			inst.evicted = true
			h.instances.Delete(key)
			h.passivationsCounter.Inc()
			h.logger.Debugf("object (%s) passivated", key)
		}
		inst.release()
	}
}

func (h *Host) registerMetrics() error {
	meter := metric.NewProvider().Meter()
	metrics, err := metric.NewHostMetric(meter)
	if err != nil {
		return err
	}

	observeOptions := []otelmetric.ObserveOption{
		otelmetric.WithAttributes(attribute.String("durable.host", h.name)),
	}

	h.registration, err = meter.RegisterCallback(func(_ context.Context, observer otelmetric.Observer) error {
		observer.ObserveInt64(metrics.ObjectsCount(), int64(h.instances.Len()), observeOptions...)
		observer.ObserveInt64(metrics.CallsCount(), h.callsCounter.Load(), observeOptions...)
		observer.ObserveInt64(metrics.ActivationsCount(), h.activationsCounter.Load(), observeOptions...)
		observer.ObserveInt64(metrics.PassivationsCount(), h.passivationsCounter.Load(), observeOptions...)
		observer.ObserveInt64(metrics.AlarmsCount(), h.alarmsCounter.Load(), observeOptions...)
		observer.ObserveInt64(metrics.FailuresCount(), h.failuresCounter.Load(), observeOptions...)
		return nil
	}, metrics.Observables()...)
	return err
}

func instanceKey(binding string, id address.ID) string {
	return binding + "/" + id.String()
}
