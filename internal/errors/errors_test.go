package errors_test

import (
	"testing"

	apperrors "github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	require.Nil(t, apperrors.Wrapf(nil, "ignored"))

	err := apperrors.Wrapf(apperrors.ErrUserNotFound, "GetByUsername %s", "admin")
	require.EqualError(t, err, "GetByUsername admin: user not found")
	require.True(t, apperrors.Is(err, apperrors.ErrUserNotFound))
	require.False(t, apperrors.Is(err, apperrors.ErrInvalidToken))
}
