package errors_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/jrsteele09/go-viewer-session/internal/errors"
)

func TestWrapf(t *testing.T) {
	require.NoError(t, apperrors.Wrapf(nil, "nothing"))

	err := apperrors.Wrapf(apperrors.ErrShareExpired, "resolve %s", "abc")
	require.EqualError(t, err, "resolve abc: share expired")
	require.ErrorIs(t, err, apperrors.ErrShareExpired)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{apperrors.ErrUserBlocked, http.StatusUnauthorized, "invalid_credentials"},
		{apperrors.Wrapf(apperrors.ErrShareExpired, "share %s", "x"), http.StatusGone, "expired"},
		{apperrors.Wrapf(apperrors.ErrUnauthorizedTenant, "%v", apperrors.ErrTenantNotFound), http.StatusForbidden, "forbidden"},
		{apperrors.ErrTenantNotFound, http.StatusNotFound, "unknown_hospital"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			p := apperrors.Classify(tt.err)
			require.Equal(t, tt.status, p.Status)
			require.Equal(t, tt.code, p.Code)
		})
	}

	require.Equal(t, "invalid email or password", apperrors.Classify(apperrors.ErrUserBlocked).Description)
	require.Equal(t, "internal error", apperrors.Classify(errors.New("secret detail")).Description)
}
