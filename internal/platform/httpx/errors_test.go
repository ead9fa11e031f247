package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: sale 7", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: code taken", ErrDuplicate), http.StatusConflict},
		{fmt.Errorf("%w: already settled", ErrConflict), http.StatusConflict},
		{fmt.Errorf("%w: bad payload", ErrValidation), http.StatusBadRequest},
		{ErrForbidden, http.StatusForbidden},
		{ErrUnauthorized, http.StatusUnauthorized},
		{&pgconn.PgError{Code: "40001"}, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		RespondError(rr, tc.err)
		assert.Equal(t, tc.status, rr.Code, tc.err.Error())
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	}
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.True(t, IsTransient(context.DeadlineExceeded))
	assert.True(t, IsTransient(fmt.Errorf("tx: %w", context.DeadlineExceeded)))

	// Retry-safe transaction and connectivity failures.
	for _, code := range []string{"40001", "40P01", "57P03", "08006", "08000"} {
		assert.True(t, IsTransient(&pgconn.PgError{Code: code}), code)
	}

	// Constraint violations are terminal.
	assert.False(t, IsTransient(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsTransient(errors.New("boom")))
}
