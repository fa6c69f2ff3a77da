package credential

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(filepath.Join(t.TempDir(), "nested", "credentials.yaml")),
	}

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.Get(ctx, GitHubTokenKey)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, GitHubTokenKey, "ghp_one"))
			require.NoError(t, s.Set(ctx, "other", "x"))
			require.NoError(t, s.Set(ctx, GitHubTokenKey, "ghp_two"))

			got, err := s.Get(ctx, GitHubTokenKey)
			require.NoError(t, err)
			assert.Equal(t, "ghp_two", got)

			got, err = s.Get(ctx, "other")
			require.NoError(t, err)
			assert.Equal(t, "x", got)
		})
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	ctx := context.Background()

	require.NoError(t, NewFileStore(path).Set(ctx, GitHubTokenKey, "ghp_persisted"))

	got, err := NewFileStore(path).Get(ctx, GitHubTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "ghp_persisted", got)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestFileStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o600))

	_, err := NewFileStore(path).Get(context.Background(), GitHubTokenKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, NewMemoryStore().Set(ctx, "k", "v"), context.Canceled)
	_, err := NewFileStore(filepath.Join(t.TempDir(), "c.yaml")).Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
