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

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZap(t *testing.T) {
	t.Run("With an unknown level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(42, buffer)
		require.Equal(t, DebugLevel, logger.LogLevel())

		logger.Debug("test debug")
		require.NoError(t, logger.Sync())

		msg, lvl := extract(t, buffer.Bytes())
		require.Equal(t, "test debug", msg)
		require.Equal(t, DebugLevel.String(), lvl)
	})
	t.Run("With info level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		require.Equal(t, InfoLevel, logger.LogLevel())

		logger.Debug("skipped")
		require.Empty(t, buffer.Bytes())

		logger.Infof("object %s activated", "counter")
		require.NoError(t, logger.Sync())

		msg, lvl := extract(t, buffer.Bytes())
		require.Equal(t, "object counter activated", msg)
		require.Equal(t, InfoLevel.String(), lvl)
		assert.Equal(t, []any{buffer}, toAny(logger.LogOutput()))
	})
	t.Run("With warn level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(WarningLevel, buffer)
		logger.Info("skipped")
		require.Empty(t, buffer.Bytes())

		logger.Warn("careful")
		require.NoError(t, logger.Sync())
		msg, lvl := extract(t, buffer.Bytes())
		require.Equal(t, "careful", msg)
		require.Equal(t, WarningLevel.String(), lvl)
	})
	t.Run("With error level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(ErrorLevel, buffer)
		logger.Warn("skipped")
		require.Empty(t, buffer.Bytes())

		logger.Errorf("failed: %d", 1)
		require.NoError(t, logger.Sync())
		msg, lvl := extract(t, buffer.Bytes())
		require.Equal(t, "failed: 1", msg)
		require.Equal(t, ErrorLevel.String(), lvl)
	})
	t.Run("With panic", func(t *testing.T) {
		logger := NewZap(PanicLevel, new(bytes.Buffer))
		assert.Panics(t, func() { logger.Panic("boom") })
		assert.Panics(t, func() { logger.Panicf("boom %d", 1) })
	})
	t.Run("With structured fields", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("binding", "INSERTER", "calls", 2, 7, "dropped", "orphan").Info("dispatched")
		require.NoError(t, logger.Sync())

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
		require.Equal(t, "dispatched", entry["msg"])
		require.Equal(t, "INSERTER", entry["binding"])
		require.EqualValues(t, 2, entry["calls"])
		require.Equal(t, "orphan", entry["_"])
		require.NotContains(t, entry, "dropped")
	})
	t.Run("With no fields returns the same logger", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		require.Same(t, logger, logger.With())
		require.Same(t, logger, logger.With(1, 2))
	})
}

func TestDiscardLogger(t *testing.T) {
	logger := DiscardLogger
	logger.Info("nothing")
	logger.Debugf("nothing %d", 1)
	logger.Warn("nothing")
	logger.Errorf("nothing %s", "x")
	require.Equal(t, InfoLevel, logger.LogLevel())
	require.Equal(t, DiscardLogger, logger.With("k", "v"))
	require.Len(t, logger.LogOutput(), 1)
	assert.Panics(t, func() { logger.Panic("boom") })
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "info", InfoLevel.String())
	assert.Equal(t, "debug", DebugLevel.String())
	assert.Empty(t, InvalidLevel.String())
	assert.Empty(t, Level(-1).String())
}

func extract(t *testing.T, line []byte) (string, string) {
	t.Helper()
	var entry struct {
		Level string `json:"level"`
		Msg   string `json:"msg"`
	}
	require.NoError(t, json.Unmarshal(line, &entry))
	return entry.Msg, entry.Level
}

func toAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
