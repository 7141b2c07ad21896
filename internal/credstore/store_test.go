package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	s := New(t.TempDir(), "")

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Empty(t, tok, "fresh store must read as signed out")

	require.NoError(t, s.Set("tok-abc"))

	tok, err = s.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", tok)

	require.NoError(t, s.Clear())

	tok, err = s.Token()
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestSetCreatesDirAndRestrictsMode(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", ".teller")
	s := New(dir, "")
	require.NoError(t, s.Set("tok"))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSetOverwrites(t *testing.T) {
	s := New(t.TempDir(), "")
	require.NoError(t, s.Set("old"))
	require.NoError(t, s.Set("new"))

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "new", tok)
}

func TestTokenTrimsWhitespace(t *testing.T) {
	s := New(t.TempDir(), "")
	require.NoError(t, os.WriteFile(s.Path(), []byte("  tok-x\n"), 0600))

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-x", tok)
}

func TestClearOnEmptySlotSucceeds(t *testing.T) {
	s := New(t.TempDir(), "")
	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
}

func TestOverrideTakesPrecedence(t *testing.T) {
	s := New(t.TempDir(), "env-token")
	require.NoError(t, s.Set("file-token"))

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "env-token", tok, "environment override wins over the file")

	// Clear removes the file but never touches the override.
	require.NoError(t, s.Clear())
	tok, err = s.Token()
	require.NoError(t, err)
	assert.Equal(t, "env-token", tok)
}
