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

package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/durable/errors"
)

// testStore runs the behavior every backend must share
func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("With missing key", func(t *testing.T) {
		value, found, err := store.Get(ctx, "missing")
		require.NoError(t, err)
		require.False(t, found)
		require.Nil(t, value)
	})
	t.Run("With put then get", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "key", []byte("value")))
		value, found, err := store.Get(ctx, "key")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "value", string(value))
	})
	t.Run("With overwrite", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "key", []byte("first")))
		require.NoError(t, store.Put(ctx, "key", []byte("second")))
		value, _, err := store.Get(ctx, "key")
		require.NoError(t, err)
		require.Equal(t, "second", string(value))
	})
	t.Run("With delete", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "gone", []byte("soon")))
		existed, err := store.Delete(ctx, "gone")
		require.NoError(t, err)
		require.True(t, existed)

		_, found, err := store.Get(ctx, "gone")
		require.NoError(t, err)
		require.False(t, found)

		existed, err = store.Delete(ctx, "gone")
		require.NoError(t, err)
		require.False(t, existed)
	})
	t.Run("With keys holding separators", func(t *testing.T) {
		key := "INSERTER/0123456789abcdef/user:42"
		require.NoError(t, store.Put(ctx, key, []byte{0x00, 0x01}))
		value, found, err := store.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, []byte{0x00, 0x01}, value)
	})
	t.Run("With prefixed views", func(t *testing.T) {
		first := WithPrefix(store, "a/")
		second := WithPrefix(store, "b/")
		require.NoError(t, first.Put(ctx, "shared", []byte("1")))
		require.NoError(t, second.Put(ctx, "shared", []byte("2")))

		value, _, err := first.Get(ctx, "shared")
		require.NoError(t, err)
		require.Equal(t, "1", string(value))

		value, found, err := store.Get(ctx, "b/shared")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "2", string(value))

		// closing a view keeps the store usable
		require.NoError(t, first.Close())
		_, _, err = store.Get(ctx, "a/shared")
		require.NoError(t, err)
	})
	t.Run("With empty key", func(t *testing.T) {
		_, _, err := store.Get(ctx, "")
		require.ErrorIs(t, err, errors.ErrInvalidKey)
		require.ErrorIs(t, store.Put(ctx, "", nil), errors.ErrInvalidKey)
		_, err = store.Delete(ctx, "")
		require.ErrorIs(t, err, errors.ErrInvalidKey)
	})
	t.Run("With concurrent writers", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := range 10 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, WithPrefix(store, "c/").Put(ctx, string(rune('a'+i)), []byte{byte(i)}))
			}(i)
		}
		wg.Wait()
		value, found, err := store.Get(ctx, "c/j")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, []byte{9}, value)
	})
	t.Run("With closed store", func(t *testing.T) {
		require.NoError(t, store.Close())
		require.NoError(t, store.Close())
		_, _, err := store.Get(ctx, "key")
		require.ErrorIs(t, err, errors.ErrStoreClosed)
		require.ErrorIs(t, store.Put(ctx, "key", nil), errors.ErrStoreClosed)
		_, err = store.Delete(ctx, "key")
		require.ErrorIs(t, err, errors.ErrStoreClosed)
	})
}

func TestMemory(t *testing.T) {
	testStore(t, NewMemory())

	t.Run("With values isolated from callers", func(t *testing.T) {
		ctx := context.Background()
		store := NewMemory()
		value := []byte("abc")
		require.NoError(t, store.Put(ctx, "k", value))
		value[0] = 'z'
		stored, _, err := store.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "abc", string(stored))
		require.Equal(t, 1, store.Len())
	})
	t.Run("With canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := NewMemory().Get(ctx, "k")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestBolt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "objects", "state.db")
	store, err := NewBolt(path)
	require.NoError(t, err)
	testStore(t, store)

	t.Run("With data surviving a reopen", func(t *testing.T) {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "state.db")
		store, err := NewBolt(path)
		require.NoError(t, err)
		require.NoError(t, store.Put(ctx, "durable", []byte("yes")))
		require.NoError(t, store.Close())

		reopened, err := NewBolt(path)
		require.NoError(t, err)
		t.Cleanup(func() { _ = reopened.Close() })
		value, found, err := reopened.Get(ctx, "durable")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "yes", string(value))
	})
}

func TestNATS(t *testing.T) {
	server := startNatsServer(t)
	t.Cleanup(server.Shutdown)

	store, err := NewNATS(server.ClientURL(), "objects", time.Second)
	require.NoError(t, err)
	testStore(t, store)

	t.Run("With an existing bucket", func(t *testing.T) {
		first, err := NewNATS(server.ClientURL(), "shared", time.Second)
		require.NoError(t, err)
		t.Cleanup(func() { _ = first.Close() })
		require.NoError(t, first.Put(context.Background(), "k", []byte("v")))

		second, err := NewNATS(server.ClientURL(), "shared", time.Second)
		require.NoError(t, err)
		t.Cleanup(func() { _ = second.Close() })
		value, found, err := second.Get(context.Background(), "k")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "v", string(value))
	})
	t.Run("With unreachable server", func(t *testing.T) {
		_, err := NewNATS("nats://127.0.0.1:1", "objects", 100*time.Millisecond)
		require.Error(t, err)
	})
}

func startNatsServer(t *testing.T) *natsserver.Server {
	t.Helper()

	serv, err := natsserver.NewServer(&natsserver.Options{
		Host:      "127.0.0.1",
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
	})
	require.NoError(t, err)

	go serv.Start()

	if !serv.ReadyForConnections(2 * time.Second) {
		t.Fatalf("nats-io server failed to start")
	}
	return serv
}
