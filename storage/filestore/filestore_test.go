package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-admin-session/storage"
	"github.com/jrsteele09/go-admin-session/storage/filestore"
)

func TestStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "client.json")
	keys := storage.NewKeys("")

	s, err := filestore.Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, map[string]string{
		keys.AccessToken():  "admin-access-aa",
		keys.RefreshToken(): "admin-refresh-bb",
	}))

	reopened, err := filestore.Open(path)
	require.NoError(t, err)

	v, found, err := reopened.Get(ctx, keys.RefreshToken())
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "admin-refresh-bb", v)

	require.NoError(t, reopened.Delete(ctx, keys.Session()...))

	again, err := filestore.Open(path)
	require.NoError(t, err)
	_, found, err = again.Get(ctx, keys.AccessToken())
	require.NoError(t, err)
	require.False(t, found)
}

func TestOpen_Errors(t *testing.T) {
	_, err := filestore.Open("")
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err = filestore.Open(path)
	require.Error(t, err)
}

func TestStore_InvalidKey(t *testing.T) {
	s, err := filestore.Open(filepath.Join(t.TempDir(), "s.json"))
	require.NoError(t, err)
	require.ErrorIs(t, s.Set(context.Background(), map[string]string{"": "x"}), storage.ErrInvalidKey)
}
