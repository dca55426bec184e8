package apierr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusCodeMapsKnownKinds(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrSignatureInvalid, http.StatusBadRequest},
		{ErrCommitmentMismatch, http.StatusBadRequest},
		{ErrNotFound, http.StatusNotFound},
		{ErrRoleMismatch, http.StatusForbidden},
		{ErrStorageIO, http.StatusInternalServerError},
	}
	for _, c := range cases {
		require.Equal(t, c.want, StatusCode(c.err))
	}
}

func TestStatusCodeUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("cluster abc123: %w", ErrNotFound)
	require.Equal(t, http.StatusNotFound, StatusCode(wrapped))
}

func TestStatusCodeDefaultsToInternalServerError(t *testing.T) {
	require.Equal(t, http.StatusInternalServerError, StatusCode(fmt.Errorf("unexpected")))
}
