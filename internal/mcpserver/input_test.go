package mcpserver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecInput_ResolveContent(t *testing.T) {
	docCache.reset()
	s := specInput{Content: validDoc}
	result, err := s.resolve()
	require.NoError(t, err)
	assert.Equal(t, "3.1.0", result.Version)
	assert.NotNil(t, result.Tree)
}

func TestSpecInput_ResolveFile(t *testing.T) {
	docCache.reset()
	dir := t.TempDir()
	path := filepath.Join(dir, "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o600))

	s := specInput{File: path}
	result, err := s.resolve()
	require.NoError(t, err)
	assert.Equal(t, "3.1.0", result.Version)
}

func TestSpecInput_ResolveRequiresExactlyOne(t *testing.T) {
	docCache.reset()
	_, err := specInput{}.resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one")

	_, err = specInput{File: "a.yaml", Content: validDoc}.resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one")
}

func TestSpecInput_InlineSizeLimit(t *testing.T) {
	docCache.reset()
	old := cfg.MaxInlineSize
	cfg.MaxInlineSize = 16
	defer func() { cfg.MaxInlineSize = old }()

	s := specInput{Content: strings.Repeat("a", 32)}
	_, err := s.resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestDocCache_ContentHit(t *testing.T) {
	docCache.reset()
	s := specInput{Content: validDoc}

	first, err := s.resolve()
	require.NoError(t, err)
	assert.Equal(t, 1, docCache.size())

	second, err := s.resolve()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestDocCache_FileKeyUsesModTime(t *testing.T) {
	docCache.reset()
	dir := t.TempDir()
	path := filepath.Join(dir, "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o600))

	key1 := makeCacheKey(specInput{File: path})
	require.NotEmpty(t, key1)

	// Bump the mtime so the key changes and the stale entry is bypassed.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	key2 := makeCacheKey(specInput{File: path})
	assert.NotEqual(t, key1, key2)
}

func TestDocCache_Eviction(t *testing.T) {
	docCache.reset()
	oldMax := docCache.maxSize
	docCache.maxSize = 2
	defer func() { docCache.maxSize = oldMax }()

	for _, doc := range []string{
		validDoc,
		strings.Replace(validDoc, "Test API", "Second API", 1),
		strings.Replace(validDoc, "Test API", "Third API", 1),
	} {
		_, err := specInput{Content: doc}.resolve()
		require.NoError(t, err)
	}
	assert.Equal(t, 2, docCache.size())
}

func TestDocCache_SweepRemovesExpired(t *testing.T) {
	docCache.reset()
	docCache.putWithTTL("k", nil, -time.Second)
	require.Equal(t, 1, docCache.size())
	docCache.sweep()
	assert.Equal(t, 0, docCache.size())
}
