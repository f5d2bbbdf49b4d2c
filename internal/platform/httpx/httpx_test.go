package httpx_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questlog/questlog/internal/platform/httpx"
)

func TestRespondErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("token: %w", httpx.ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("owner: %w", httpx.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("post: %w", httpx.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("email: %w", httpx.ErrDuplicate), http.StatusConflict},
		{fmt.Errorf("body: %w", httpx.ErrValidation), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		httpx.RespondError(rec, tc.err)
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		assert.Equal(t, tc.status, httpx.StatusFor(tc.err))
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.RespondError(rec, errors.New("pq: password authentication failed"))
	assert.NotContains(t, rec.Body.String(), "password")

	rec = httptest.NewRecorder()
	httpx.RespondError(rec, fmt.Errorf("auth: credential expired: %w", httpx.ErrUnauthorized))
	assert.NotContains(t, rec.Body.String(), "expired")
	assert.Equal(t, `Bearer realm="questlog"`, rec.Header().Get("WWW-Authenticate"))
}

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3"`
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	err := httpx.Validate(httpx.NewValidator(), signup{Email: "nope", Username: "ab"})
	require.Error(t, err)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	var verr *httpx.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be a valid email address", verr.Fields["email"])
	assert.Equal(t, "must be at least 3 characters", verr.Fields["username"])

	rec := httptest.NewRecorder()
	httpx.RespondError(rec, err)
	var problem httpx.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, http.StatusBadRequest, problem.Status)
	assert.Len(t, problem.Errors, 2)

	assert.NoError(t, httpx.Validate(httpx.NewValidator(), signup{Email: "a@example.com", Username: "abc"}))
}

func TestDecodeJSON(t *testing.T) {
	var dst signup
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@example.com","username":"ann"}`))
	require.NoError(t, httpx.DecodeJSON(req, &dst))
	assert.Equal(t, "ann", dst.Username)

	for _, body := range []string{"", "{", `{"unknown":1}`} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		assert.ErrorIs(t, httpx.DecodeJSON(req, &dst), httpx.ErrValidation, body)
	}
}

func TestIDParam(t *testing.T) {
	r := chi.NewRouter()
	var got int64
	var gotErr error
	r.Get("/items/{id}", func(w http.ResponseWriter, req *http.Request) {
		got, gotErr = httpx.IDParam(req, "id")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	require.NoError(t, gotErr)
	assert.Equal(t, int64(42), got)

	for _, raw := range []string{"0", "-3", "abc", "9999999999999999999"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/"+raw, nil))
		assert.ErrorIs(t, gotErr, httpx.ErrValidation, raw)
	}
}

func TestJSONAndNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.JSON(rec, http.StatusCreated, map[string]string{"ok": "yes"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"ok":"yes"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	httpx.NoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
