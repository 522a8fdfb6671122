package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridian-labs/vlin/internal/token"
	"github.com/veridian-labs/vlin/internal/types"
)

func testIssues() []types.Issue {
	return []types.Issue{{
		Rule:     "explicit-begin",
		Message:  "if block constructs shall explicitly use begin/end. Expected begin, got x",
		Start:    token.Position{Filename: "m.sv", Line: 1, Column: 1},
		End:      token.Position{Filename: "m.sv", Line: 1, Column: 3, Offset: 2},
	}}
}

func TestCacheRoundTrip(t *testing.T) {
	cache, err := NewCache(filepath.Join(t.TempDir(), "cache"), time.Hour)
	require.NoError(t, err)

	content := []byte("if (a) x = 1;")
	require.NoError(t, cache.Set("m.sv", content, testIssues()))

	issues, ok := cache.Get("m.sv", content)
	require.True(t, ok)
	assert.Equal(t, testIssues(), issues)
}

func TestCacheMissOnChangedContent(t *testing.T) {
	cache, err := NewCache(filepath.Join(t.TempDir(), "cache"), time.Hour)
	require.NoError(t, err)

	require.NoError(t, cache.Set("m.sv", []byte("old"), testIssues()))

	_, ok := cache.Get("m.sv", []byte("new"))
	assert.False(t, ok)

	// the stale entry is evicted, so even the old content misses now
	_, ok = cache.Get("m.sv", []byte("old"))
	assert.False(t, ok)
}

func TestCachePersistsAcrossInstances(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	content := []byte("if (a) x = 1;")

	first, err := NewCache(dir, time.Hour)
	require.NoError(t, err)
	require.NoError(t, first.Set("m.sv", content, testIssues()))

	second, err := NewCache(dir, time.Hour)
	require.NoError(t, err)

	issues, ok := second.Get("m.sv", content)
	require.True(t, ok)
	assert.Equal(t, testIssues(), issues)
}

func TestCacheExpiry(t *testing.T) {
	cache, err := NewCache(filepath.Join(t.TempDir(), "cache"), time.Nanosecond)
	require.NoError(t, err)

	content := []byte("x")
	require.NoError(t, cache.Set("m.sv", content, testIssues()))
	time.Sleep(time.Millisecond)

	_, ok := cache.Get("m.sv", content)
	assert.False(t, ok)
}

func TestEngineUsesCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.sv")
	writeFile := func(content string) {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	writeFile("initial x = 1;")

	cache, err := NewCache(filepath.Join(dir, "cache"), time.Hour)
	require.NoError(t, err)

	engine, err := NewEngine(nil)
	require.NoError(t, err)
	engine.SetCache(cache)

	issues, err := engine.Run(path)
	require.NoError(t, err)
	require.Len(t, issues, 1)

	cached, ok := cache.Get(path, []byte("initial x = 1;"))
	require.True(t, ok)
	assert.Equal(t, issues, cached)

	// changed content invalidates the entry and produces fresh results
	writeFile("initial begin end")
	issues, err = engine.Run(path)
	require.NoError(t, err)
	assert.Empty(t, issues)
}
