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

package metric

import "go.opentelemetry.io/otel/metric"

// HostMetric groups the instruments describing an object host.
//
// Instruments:
//   - durable.objects.count      (Int64ObservableGauge)
//   - durable.calls.count        (Int64ObservableCounter)
//   - durable.activations.count  (Int64ObservableCounter)
//   - durable.passivations.count (Int64ObservableCounter)
//   - durable.alarms.count       (Int64ObservableCounter)
//   - durable.failures.count     (Int64ObservableCounter)
type HostMetric struct {
	objectsCount      metric.Int64ObservableGauge
	callsCount        metric.Int64ObservableCounter
	activationsCount  metric.Int64ObservableCounter
	passivationsCount metric.Int64ObservableCounter
	alarmsCount       metric.Int64ObservableCounter
	failuresCount     metric.Int64ObservableCounter
}

// NewHostMetric creates the host instruments using the provided Meter.
func NewHostMetric(meter metric.Meter) (*HostMetric, error) {
	var instruments HostMetric
	var err error

	if instruments.objectsCount, err = meter.Int64ObservableGauge(
		"durable.objects.count",
		metric.WithDescription("Number of objects currently held in memory"),
	); err != nil {
		return nil, err
	}

	counters := []struct {
		name        string
		description string
		target      *metric.Int64ObservableCounter
	}{
		{"durable.calls.count", "Total number of fetch calls dispatched to objects", &instruments.callsCount},
		{"durable.activations.count", "Total number of object activations", &instruments.activationsCount},
		{"durable.passivations.count", "Total number of objects evicted from memory", &instruments.passivationsCount},
		{"durable.alarms.count", "Total number of alarms fired", &instruments.alarmsCount},
		{"durable.failures.count", "Total number of calls that ended with a host level failure", &instruments.failuresCount},
	}

	for _, counter := range counters {
		if *counter.target, err = meter.Int64ObservableCounter(
			counter.name,
			metric.WithDescription(counter.description),
		); err != nil {
			return nil, err
		}
	}

	return &instruments, nil
}

// ObjectsCount returns the gauge of objects currently in memory
func (x *HostMetric) ObjectsCount() metric.Int64ObservableGauge {
	return x.objectsCount
}

// CallsCount returns the counter of dispatched fetch calls
func (x *HostMetric) CallsCount() metric.Int64ObservableCounter {
	return x.callsCount
}

// ActivationsCount returns the counter of object activations
func (x *HostMetric) ActivationsCount() metric.Int64ObservableCounter {
	return x.activationsCount
}

// PassivationsCount returns the counter of evicted objects
func (x *HostMetric) PassivationsCount() metric.Int64ObservableCounter {
	return x.passivationsCount
}

// AlarmsCount returns the counter of fired alarms
func (x *HostMetric) AlarmsCount() metric.Int64ObservableCounter {
	return x.alarmsCount
}

// FailuresCount returns the counter of host level call failures
func (x *HostMetric) FailuresCount() metric.Int64ObservableCounter {
	return x.failuresCount
}

// Observables returns every instrument, for Meter.RegisterCallback
func (x *HostMetric) Observables() []metric.Observable {
	return []metric.Observable{
		x.objectsCount,
		x.callsCount,
		x.activationsCount,
		x.passivationsCount,
		x.alarmsCount,
		x.failuresCount,
	}
}
