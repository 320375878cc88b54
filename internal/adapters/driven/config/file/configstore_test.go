package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".docshelf", "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "ollama"))

	val, ok := store.Get("llm.provider")
	assert.True(t, ok)
	assert.Equal(t, "ollama", val)
	assert.Equal(t, "ollama", store.GetString("llm.provider"))

	_, ok = store.Get("nonexistent")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("session.max_bytes", 42))
	require.NoError(t, store.Set("llm.model", "phi3"))

	assert.Equal(t, 42, store.GetInt("session.max_bytes"))
	assert.Equal(t, 0, store.GetInt("llm.model"))
	assert.Equal(t, "", store.GetString("session.max_bytes"))
	assert.Equal(t, 0, store.GetInt("nonexistent"))
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("llm.provider", "anthropic"))
	require.NoError(t, store1.Set("llm.model", "claude-test"))
	require.NoError(t, store1.Set("session.max_bytes", 1024))

	raw, err := os.ReadFile(store1.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[llm]")
	assert.Contains(t, string(raw), "[session]")

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", store2.GetString("llm.provider"))
	assert.Equal(t, "claude-test", store2.GetString("llm.model"))
	assert.Equal(t, 1024, store2.GetInt("session.max_bytes"))
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[llm]
provider = "ollama"
base_url = "http://gpu-box:11434"

[summary]
rate_per_minute = 6
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "ollama", store.GetString("llm.provider"))
	assert.Equal(t, "http://gpu-box:11434", store.GetString("llm.base_url"))
	assert.Equal(t, 6, store.GetInt("summary.rate_per_minute"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("# Just a comment\n\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("any_key")
	assert.False(t, ok)
	require.NoError(t, store.Set("after", "empty"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Set("summary.rate_per_minute", i)
			_ = store.GetInt("summary.rate_per_minute")
		}()
	}
	wg.Wait()

	_, ok := store.Get("summary.rate_per_minute")
	assert.True(t, ok)
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_SetWriteErrorRollsBack(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.model", "first"))

	// Replace the file with a directory to cause a write error.
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("llm.model", "second"))
	assert.Equal(t, "first", store.GetString("llm.model"))

	assert.Error(t, store.Set("llm.provider", "ollama"))
	_, ok := store.Get("llm.provider")
	assert.False(t, ok)
}

func TestConfigStore_SetUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	// Channels cannot be marshalled to TOML
	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"llm.provider": "ollama",
		"llm.model":    "phi3",
		"top":          true,
		"a.b.c":        int64(1),
	})

	assert.Equal(t, map[string]any{
		"llm": map[string]any{"provider": "ollama", "model": "phi3"},
		"top": true,
		"a":   map[string]any{"b": map[string]any{"c": int64(1)}},
	}, nested)

	assert.Equal(t, map[string]any{
		"llm.provider": "ollama",
		"llm.model":    "phi3",
		"top":          true,
		"a.b.c":        int64(1),
	}, flattenMap(nested, ""))
}

func TestConfigStore_UpdateWritesOnceAndDeletes(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.api_key", "sk-old"))

	require.NoError(t, store.Update(map[string]any{
		"llm.provider": "ollama",
		"llm.model":    "llama3.2",
		"llm.api_key":  nil,
	}))

	_, ok := store.Get("llm.api_key")
	assert.False(t, ok)

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "ollama", reopened.GetString("llm.provider"))
	assert.Equal(t, "llama3.2", reopened.GetString("llm.model"))
	_, ok = reopened.Get("llm.api_key")
	assert.False(t, ok)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "config.toml", entries[0].Name())
}

func TestConfigStore_UpdateFailureKeepsState(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.model", "first"))

	err = store.Update(map[string]any{
		"llm.model": "second",
		"bad":       make(chan int),
	})

	assert.Error(t, err)
	assert.Equal(t, "first", store.GetString("llm.model"))
	_, ok := store.Get("bad")
	assert.False(t, ok)
}
