package apimodel_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jrsteele09/go-admin-session/apimodel"
	"github.com/stretchr/testify/require"
)

func TestCodeError_Is(t *testing.T) {
	tests := []struct {
		code   apimodel.Code
		target error
	}{
		{apimodel.CodeUnauthorized, apimodel.ErrUnauthorized},
		{apimodel.CodeTokenInvalid, apimodel.ErrTokenInvalid},
		{apimodel.CodeTokenExpired, apimodel.ErrTokenExpired},
		{apimodel.CodeInvalidCredentials, apimodel.ErrInvalidCredentials},
		{apimodel.CodeRefreshTokenInvalid, apimodel.ErrRefreshFailed},
		{apimodel.CodeRefreshTokenExpired, apimodel.ErrRefreshFailed},
		{apimodel.CodeMissingCredentials, apimodel.ErrMissingInput},
		{apimodel.CodeMissingRefreshToken, apimodel.ErrMissingInput},
		{apimodel.CodeTooManyAttempts, apimodel.ErrTooManyAttempts},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &apimodel.CodeError{Code: tt.code, Msg: "x"})
			require.ErrorIs(t, err, tt.target)
			require.Equal(t, tt.code, apimodel.CodeOf(err))
		})
	}

	t.Run("unknown code matches nothing", func(t *testing.T) {
		err := &apimodel.CodeError{Code: 4242, Msg: "custom"}
		require.False(t, errors.Is(err, apimodel.ErrTokenExpired))
		require.Equal(t, "custom", apimodel.MessageOf(err))
	})
}

func TestEnvelope_Err(t *testing.T) {
	env, err := apimodel.NewEnvelope(apimodel.CodeOK, apimodel.MsgUserInfoOK, map[string]int{"id": 1})
	require.NoError(t, err)
	require.NoError(t, env.Err())
	require.JSONEq(t, `{"id":1}`, string(env.Data))

	env, err = apimodel.NewEnvelope(apimodel.CodeTokenExpired, apimodel.MsgTokenExpired, nil)
	require.NoError(t, err)
	require.ErrorIs(t, env.Err(), apimodel.ErrTokenExpired)
	require.Equal(t, "null", string(env.Data))
}

func TestFlattenMenus(t *testing.T) {
	menus := []apimodel.Menu{
		{ID: 1, Name: "System", Children: []apimodel.Menu{
			{ID: 2, Name: "SystemUser"},
			{ID: 3, Name: "SystemRole", Children: []apimodel.Menu{{ID: 4, Name: "SystemRoleEdit"}}},
		}},
		{ID: 5, Name: "Dashboard"},
	}
	flat := apimodel.FlattenMenus(menus)
	names := make([]string, 0, len(flat))
	for _, m := range flat {
		names = append(names, m.Name)
	}
	require.Equal(t, []string{"System", "SystemUser", "SystemRole", "SystemRoleEdit", "Dashboard"}, names)
	require.Empty(t, apimodel.FlattenMenus(nil))
}
