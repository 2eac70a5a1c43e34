package storage_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-admin-session/storage"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	k := storage.NewKeys("app:")
	require.Equal(t, "app:_access_token", k.AccessToken())
	require.Equal(t, "app:_refresh_token", k.RefreshToken())
	require.Equal(t, "app:_user_info", k.UserInfo())
	require.Equal(t, []string{"app:_access_token", "app:_refresh_token", "app:_user_info"}, k.Session())

	require.Equal(t, "admin-dashboard:_tabs", storage.NewKeys("").Tabs())
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := storage.NewMemory()

	_, found, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, m.Set(ctx, map[string]string{"a": "1", "b": "2"}))
	v, found, err := m.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "1", v)

	require.ErrorIs(t, m.Set(ctx, map[string]string{"": "x"}), storage.ErrInvalidKey)

	require.NoError(t, m.Delete(ctx, "a", "b", "never-set"))
	require.Equal(t, 0, m.Len())
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	m := storage.NewMemory()

	type payload struct {
		Name string `json:"name"`
	}

	require.NoError(t, storage.SetJSON(ctx, m, "p", payload{Name: "admin"}))

	var got payload
	found, err := storage.GetJSON(ctx, m, "p", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "admin", got.Name)

	require.NoError(t, m.Set(ctx, map[string]string{"broken": "{"}))
	_, err = storage.GetJSON(ctx, m, "broken", &got)
	require.Error(t, err)

	found, err = storage.GetJSON(ctx, m, "absent", &got)
	require.NoError(t, err)
	require.False(t, found)
}
