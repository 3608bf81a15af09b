package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refreshCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "refresh_token" {
			return c
		}
	}
	t.Fatal("refresh_token cookie not set")
	return nil
}

func TestAuthHandler_Login_Success(t *testing.T) {
	s := newTestServer(t, 0)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "Admin@AquaClean.com",
		"password": adminPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "User logged in successfully", env.Message)

	var tokens struct {
		AccessToken           string `json:"access_token"`
		AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
		RefreshToken          string `json:"refresh_token"`
		RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tokens))
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Greater(t, tokens.RefreshTokenExpiresIn, tokens.AccessTokenExpiresIn)

	cookie := refreshCookie(t, w)
	assert.Equal(t, tokens.RefreshToken, cookie.Value)
	assert.Equal(t, "/api/v1/auth", cookie.Path)
	assert.True(t, cookie.HttpOnly)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	s := newTestServer(t, 0)

	tests := []struct {
		name  string
		email string
	}{
		{name: "wrong password", email: adminEmail},
		{name: "unknown user", email: "nobody@aquaclean.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
				"email":    tt.email,
				"password": "wrong-password",
			})
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			env := decodeEnvelope(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
			assert.Equal(t, "Invalid email or password", env.Error.Message)
		})
	}
}

func TestAuthHandler_Login_Validation(t *testing.T) {
	s := newTestServer(t, 0)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "not-an-email"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	env := decodeEnvelope(t, w)
	assert.Equal(t, "email must be a valid email address", env.Error.Details["email"])
	assert.Equal(t, "password is required", env.Error.Details["password"])
}

func TestAuthHandler_Login_InvalidJSON(t *testing.T) {
	s := newTestServer(t, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{invalid json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request format", decodeEnvelope(t, w).Error.Message)
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	s := newTestServer(t, 0)
	login := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": adminEmail, "password": adminPassword})
	require.Equal(t, http.StatusCreated, login.Code)
	cookie := refreshCookie(t, login)

	t.Run("from cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: cookie.Value})
		w := httptest.NewRecorder()
		s.handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var tokens struct {
			AccessToken string `json:"access_token"`
		}
		decodeData(t, w, &tokens)
		assert.NotEmpty(t, tokens.AccessToken)
	})

	t.Run("from body", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": cookie.Value})
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("garbage token", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": "not.a.jwt"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		access := s.login(t, adminEmail, adminPassword)
		w := s.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": access})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestAuthHandler_Logout_RevokesRefreshToken(t *testing.T) {
	s := newTestServer(t, 0)
	login := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": adminEmail, "password": adminPassword})
	require.Equal(t, http.StatusCreated, login.Code)
	cookie := refreshCookie(t, login)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: cookie.Value})
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cleared := refreshCookie(t, w)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	refresh := s.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": cookie.Value})
	assert.Equal(t, http.StatusUnauthorized, refresh.Code)
	assert.Equal(t, "Refresh token revoked", decodeEnvelope(t, refresh).Error.Message)
}

func TestAuthHandler_Logout_NoCookie(t *testing.T) {
	s := newTestServer(t, 0)

	w := s.do(t, http.MethodPost, "/api/v1/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	s := newTestServer(t, 0)
	token := s.login(t, adminEmail, adminPassword)

	w := s.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var me map[string]interface{}
	decodeData(t, w, &me)
	assert.Equal(t, adminEmail, me["email"])
	assert.Equal(t, "admin", me["role"])
	assert.NotContains(t, me, "password_hash")

	w = s.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
