// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rowanfield/compostly/internal/platform/sec"
)

// newTestRouter mounts the auth routes the way the API server does, backed
// by the in-memory repository and a minimum-cost hasher.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	tokens, err := sec.NewTokenService("unit-test-signing-secret", time.Hour, 0)
	require.NoError(t, err)

	service := NewService(newMemoryUserRepository(), sec.NewPasswordHasher(bcrypt.MinCost), tokens)

	router := chi.NewRouter()
	router.Mount("/users", NewHandler(service).Routes())
	return router
}

func doJSON(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(method, target, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func doLogin(t *testing.T, handler http.Handler, username, password string) *httptest.ResponseRecorder {
	t.Helper()

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	request := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func registerViaHTTP(t *testing.T, handler http.Handler, username, email string) {
	t.Helper()

	recorder := doJSON(t, handler, http.MethodPost, "/users/register",
		`{"username":"`+username+`","email":"`+email+`","password":"correct horse battery"}`)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var payload map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	return payload
}

// # POST /users/register

func TestRegisterEndpoint(t *testing.T) {
	t.Run("returns 201 with the public profile", func(t *testing.T) {
		router := newTestRouter(t)

		recorder := doJSON(t, router, http.MethodPost, "/users/register",
			`{"username":"worm_farmer","email":"worm@example.com","password":"correct horse battery","country":"Portugal"}`)

		require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

		body := decodeBody(t, recorder)
		assert.Equal(t, "worm_farmer", body["username"])
		assert.Equal(t, "worm@example.com", body["email"])
		assert.Equal(t, "Portugal", body["country"])
		assert.NotContains(t, body, "password")
		assert.NotContains(t, body, "password_hash",
			"stored credential material must never appear on the wire")
	})

	t.Run("rejects malformed JSON with 400", func(t *testing.T) {
		router := newTestRouter(t)

		recorder := doJSON(t, router, http.MethodPost, "/users/register", `{"username": worm}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("rejects a short password with a field detail", func(t *testing.T) {
		router := newTestRouter(t)

		recorder := doJSON(t, router, http.MethodPost, "/users/register",
			`{"username":"worm_farmer","email":"worm@example.com","password":"short"}`)

		require.Equal(t, http.StatusBadRequest, recorder.Code)

		body := decodeBody(t, recorder)
		assert.Equal(t, "VALIDATION_ERROR", body["code"])
		assert.NotEmpty(t, body["details"])
	})

	t.Run("returns 400 ALREADY_REGISTERED on any duplicate", func(t *testing.T) {
		router := newTestRouter(t)
		registerViaHTTP(t, router, "worm_farmer", "worm@example.com")

		sameUsername := doJSON(t, router, http.MethodPost, "/users/register",
			`{"username":"worm_farmer","email":"fresh@example.com","password":"correct horse battery"}`)
		sameEmail := doJSON(t, router, http.MethodPost, "/users/register",
			`{"username":"leaf_collector","email":"worm@example.com","password":"correct horse battery"}`)

		require.Equal(t, http.StatusBadRequest, sameUsername.Code)
		require.Equal(t, http.StatusBadRequest, sameEmail.Code)
		assert.Equal(t, "ALREADY_REGISTERED", decodeBody(t, sameUsername)["code"])
		assert.JSONEq(t, sameUsername.Body.String(), sameEmail.Body.String(),
			"duplicate responses must not reveal which field collided")
	})
}

// # POST /users/login

func TestLoginEndpoint(t *testing.T) {
	t.Run("returns an access token for valid form credentials", func(t *testing.T) {
		router := newTestRouter(t)
		registerViaHTTP(t, router, "worm_farmer", "worm@example.com")

		recorder := doLogin(t, router, "worm_farmer", "correct horse battery")

		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

		body := decodeBody(t, recorder)
		assert.Equal(t, "bearer", body["token_type"])
		assert.NotEmpty(t, body["access_token"])
	})

	t.Run("returns identical 401 bodies for bad password and unknown user", func(t *testing.T) {
		router := newTestRouter(t)
		registerViaHTTP(t, router, "worm_farmer", "worm@example.com")

		wrongPassword := doLogin(t, router, "worm_farmer", "not the password")
		unknownUser := doLogin(t, router, "no_such_account", "correct horse battery")

		require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		require.Equal(t, http.StatusUnauthorized, unknownUser.Code)
		assert.JSONEq(t, wrongPassword.Body.String(), unknownUser.Body.String())
		assert.Equal(t, "Bearer", wrongPassword.Header().Get("WWW-Authenticate"))
	})

	t.Run("rejects empty credentials with 400", func(t *testing.T) {
		router := newTestRouter(t)

		recorder := doLogin(t, router, "", "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

// # GET /users/me

func TestMeEndpoint(t *testing.T) {
	login := func(t *testing.T, router http.Handler) string {
		t.Helper()
		recorder := doLogin(t, router, "worm_farmer", "correct horse battery")
		require.Equal(t, http.StatusOK, recorder.Code)
		return decodeBody(t, recorder)["access_token"].(string)
	}

	t.Run("returns the profile for a valid bearer token", func(t *testing.T) {
		router := newTestRouter(t)
		registerViaHTTP(t, router, "worm_farmer", "worm@example.com")
		token := login(t, router)

		request := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		request.Header.Set("Authorization", "Bearer "+token)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

		body := decodeBody(t, recorder)
		assert.Equal(t, "worm_farmer", body["username"])
		assert.NotContains(t, body, "password_hash")
	})

	t.Run("accepts a case-insensitive bearer scheme", func(t *testing.T) {
		router := newTestRouter(t)
		registerViaHTTP(t, router, "worm_farmer", "worm@example.com")
		token := login(t, router)

		request := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		request.Header.Set("Authorization", "bearer "+token)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("returns 401 with a bearer challenge when the header is absent", func(t *testing.T) {
		router := newTestRouter(t)

		request := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		require.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "Bearer", recorder.Header().Get("WWW-Authenticate"))
		assert.Equal(t, "Could not validate credentials", decodeBody(t, recorder)["error"])
	})

	t.Run("returns 401 for a garbage token", func(t *testing.T) {
		router := newTestRouter(t)

		request := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		request.Header.Set("Authorization", "Bearer not-a-real-token")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("returns 401 for a non-bearer scheme", func(t *testing.T) {
		router := newTestRouter(t)

		request := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		request.Header.Set("Authorization", "Basic d29ybTpmYXJtZXI=")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
