package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.Equal(t, ":memory:", store.Path())

	seeded := NewConfigStore(map[string]any{"retrieval.top_k": 3}).WithPath("/etc/deskagent/config.toml")
	assert.Equal(t, 3, seeded.GetInt("retrieval.top_k"))
	assert.Equal(t, "/etc/deskagent/config.toml", seeded.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("key1", "original"))
	require.NoError(t, store.Set("key1", "updated"))

	val, ok := store.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, "updated", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"s":   "text",
		"i":   7,
		"i64": int64(8),
		"f":   2.5,
		"b":   true,
	})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("s"), "text"},
		{"string wrong type", store.GetString("i"), ""},
		{"int", store.GetInt("i"), 7},
		{"int64", store.GetInt("i64"), 8},
		{"int from float", store.GetInt("f"), 2},
		{"float", store.GetFloat("f"), 2.5},
		{"float from int", store.GetFloat("i"), 7.0},
		{"float wrong type", store.GetFloat("s"), 0.0},
		{"bool", store.GetBool("b"), true},
		{"bool missing", store.GetBool("nope"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_SaveLoadNoop(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
}

func TestConfigStore_Concurrent(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("k", n)
			_ = store.GetInt("k")
		}(i)
	}
	wg.Wait()
	_, ok := store.Get("k")
	assert.True(t, ok)
}
