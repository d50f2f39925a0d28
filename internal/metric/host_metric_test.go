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

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type failingMeter struct {
	metric.Meter
	failures map[string]error
}

func (m failingMeter) Int64ObservableGauge(name string, options ...metric.Int64ObservableGaugeOption) (metric.Int64ObservableGauge, error) {
	if err, ok := m.failures[name]; ok {
		return nil, err
	}
	return m.Meter.Int64ObservableGauge(name, options...)
}

func (m failingMeter) Int64ObservableCounter(name string, options ...metric.Int64ObservableCounterOption) (metric.Int64ObservableCounter, error) {
	if err, ok := m.failures[name]; ok {
		return nil, err
	}
	return m.Meter.Int64ObservableCounter(name, options...)
}

func TestHostMetric(t *testing.T) {
	t.Run("With noop meter", func(t *testing.T) {
		instruments, err := NewHostMetric(noop.NewMeterProvider().Meter("test"))
		require.NoError(t, err)
		require.NotNil(t, instruments.ObjectsCount())
		require.NotNil(t, instruments.CallsCount())
		require.NotNil(t, instruments.ActivationsCount())
		require.NotNil(t, instruments.PassivationsCount())
		require.NotNil(t, instruments.AlarmsCount())
		require.NotNil(t, instruments.FailuresCount())
		require.Len(t, instruments.Observables(), 6)
	})
	t.Run("With instrument failures", func(t *testing.T) {
		errBoom := errors.New("boom")
		base := noop.NewMeterProvider().Meter("test")
		for _, name := range []string{
			"durable.objects.count",
			"durable.calls.count",
			"durable.activations.count",
			"durable.passivations.count",
			"durable.alarms.count",
			"durable.failures.count",
		} {
			meter := failingMeter{Meter: base, failures: map[string]error{name: errBoom}}
			instruments, err := NewHostMetric(meter)
			require.ErrorIs(t, err, errBoom, name)
			require.Nil(t, instruments)
		}
	})
}

func TestProvider(t *testing.T) {
	previous := otel.GetMeterProvider()
	otel.SetMeterProvider(noop.NewMeterProvider())
	t.Cleanup(func() { otel.SetMeterProvider(previous) })

	provider := NewProvider()
	require.NotNil(t, provider.Meter())
}
