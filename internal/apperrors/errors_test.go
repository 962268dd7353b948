package apperrors

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestKindOfWrappedChain(t *testing.T) {
	base := New(KindForbidden, "cannot operate on assets of another base")
	wrapped := errors.Wrap(base, "creating assignment")

	require.Equal(t, KindForbidden, KindOf(wrapped))
	require.Equal(t, "cannot operate on assets of another base", MessageOf(wrapped))
}

func TestKindOfPlainError(t *testing.T) {
	err := errors.New("connection refused")

	require.Equal(t, KindUnknown, KindOf(err))
	require.Equal(t, "internal server error", MessageOf(err))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(cause, KindUnavailable, "dashboard aggregation failed")

	require.Equal(t, KindUnavailable, KindOf(err))
	require.Equal(t, "dashboard aggregation failed", MessageOf(err))
	require.ErrorContains(t, err, "connection refused")
}

func TestHTTPStatusMapping(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, HTTPStatus(New(KindInvalidArgument, "quantity must be positive")))
	require.Equal(t, http.StatusUnauthorized, HTTPStatus(New(KindUnauthenticated, "invalid credentials")))
	require.Equal(t, http.StatusForbidden, HTTPStatus(New(KindForbidden, "commander has no assigned base")))
	require.Equal(t, http.StatusNotFound, HTTPStatus(New(KindNotFound, "base not found")))
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(New(KindUnavailable, "store unavailable")))
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}
