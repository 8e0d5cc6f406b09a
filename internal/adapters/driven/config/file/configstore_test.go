package file

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, DefaultDirName, "config.toml"), store.Path())

	info, err := os.Stat(filepath.Join(home, DefaultDirName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.model", "mistral"))
	require.NoError(t, store.Set("retrieval.top_k", 4))
	require.NoError(t, store.Set("orders.exact_lookup", true))
	require.NoError(t, store.Set("llm.timeout_secs", 12.5))

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("llm.model"), "mistral"},
		{"int", store.GetInt("retrieval.top_k"), 4},
		{"bool", store.GetBool("orders.exact_lookup"), true},
		{"float", store.GetFloat("llm.timeout_secs"), 12.5},
		{"int as float", store.GetFloat("retrieval.top_k"), 4.0},
		{"missing string", store.GetString("nope"), ""},
		{"missing int", store.GetInt("nope"), 0},
		{"missing bool", store.GetBool("nope"), false},
		{"missing float", store.GetFloat("nope"), 0.0},
		{"wrong type", store.GetInt("llm.model"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("sources.faq", "data/faq.json"))
	require.NoError(t, store1.Set("retrieval.top_k", 3))
	require.NoError(t, store1.Set("orders.exact_lookup", true))
	require.NoError(t, store1.Set("llm.timeout_secs", 42.5))

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "data/faq.json", store2.GetString("sources.faq"))
	assert.Equal(t, 3, store2.GetInt("retrieval.top_k"))
	assert.True(t, store2.GetBool("orders.exact_lookup"))
	assert.InDelta(t, 42.5, store2.GetFloat("llm.timeout_secs"), 0.0001)
}

func TestConfigStore_SavesNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("vector_store.qdrant.url", "http://qdrant:6333"))
	require.NoError(t, store.Set("vector_store.backend", "qdrant"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "vector_store.qdrant.url")

	var raw map[string]any
	require.NoError(t, toml.Unmarshal(data, &raw))
	vs, ok := raw["vector_store"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "qdrant", vs["backend"])
	qdrant, ok := vs["qdrant"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "http://qdrant:6333", qdrant["url"])
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := strings.Join([]string{
		"[sources]",
		`returns = "docs/returns.pdf"`,
		"",
		"[chunker]",
		"max_tokens = 256",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "docs/returns.pdf", store.GetString("sources.returns"))
	assert.Equal(t, 256, store.GetInt("chunker.max_tokens"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.provider", "ollama"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("# nothing\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("invalid ][}{"), 0600))

	_, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("retrieval.top_k", i)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("retrieval.top_k")
		}()
	}
	wg.Wait()
}

func TestNestMap(t *testing.T) {
	flat := map[string]any{
		"a.b.c": 1,
		"a.d":   "x",
		"top":   true,
	}

	nested := nestMap(flat)

	assert.Equal(t, true, nested["top"])
	a, ok := nested["a"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "x", a["d"])
	b, ok := a["b"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1, b["c"])

	assert.Equal(t, flat, flattenMap(nested, ""))
}
