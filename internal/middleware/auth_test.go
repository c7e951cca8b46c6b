// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pakair-dev/pakair-api/internal/core"
)

type stubVerifier struct {
	claims *AccessTokenClaims
	err    error
}

func (s *stubVerifier) VerifyAccessToken(
	_ context.Context,
	_ string,
) (*AccessTokenClaims, error) {
	return s.claims, s.err
}

type stubResolver struct {
	user *AuthUser
	err  error
}

func (s *stubResolver) ResolveUser(
	_ context.Context,
	_ string,
) (*AuthUser, error) {
	return s.user, s.err
}

type stubRevocations struct {
	revoked bool
}

func (s *stubRevocations) IsAccessTokenRevoked(
	_ context.Context,
	_ string,
) (bool, error) {
	return s.revoked, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func echoUserHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(
			w,
			"%s:%s",
			GetUserID(r.Context()),
			GetUserRole(r.Context()),
		)
	})
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	code, _ := body["error"].(string)
	return code
}

func validAuthConfig() AuthConfig {
	return AuthConfig{
		Verifier: &stubVerifier{
			claims: &AccessTokenClaims{
				UserID:       "user-1",
				Role:         RoleCitizen,
				TokenVersion: 1,
				JTI:          "jti-1",
			},
		},
		Resolver: &stubResolver{
			user: &AuthUser{
				ID:           "user-1",
				Role:         RoleCitizen,
				Active:       true,
				TokenVersion: 1,
			},
		},
	}
}

func TestAuthenticatorAttachesUser(t *testing.T) {
	handler := Authenticator(validAuthConfig())(echoUserHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1:citizen", rec.Body.String())
}

func TestAuthenticatorRejectsMissingToken(t *testing.T) {
	handler := Authenticator(validAuthConfig())(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, rec))
}

func TestAuthenticatorRejectsExpiredToken(t *testing.T) {
	cfg := validAuthConfig()
	cfg.Verifier = &stubVerifier{err: core.ErrTokenExpired}

	handler := Authenticator(cfg)(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_EXPIRED", errorCode(t, rec))
}

// A structurally valid token for a deactivated account must not pass.
func TestAuthenticatorRejectsInactiveUser(t *testing.T) {
	cfg := validAuthConfig()
	cfg.Resolver = &stubResolver{
		user: &AuthUser{
			ID:     "user-1",
			Role:   RoleCitizen,
			Active: false,
		},
	}

	handler := Authenticator(cfg)(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, rec))
}

func TestAuthenticatorRejectsDeletedUser(t *testing.T) {
	cfg := validAuthConfig()
	cfg.Resolver = &stubResolver{err: core.ErrNotFound}

	handler := Authenticator(cfg)(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatorRejectsStaleTokenVersion(t *testing.T) {
	cfg := validAuthConfig()
	cfg.Resolver = &stubResolver{
		user: &AuthUser{
			ID:           "user-1",
			Role:         RoleCitizen,
			Active:       true,
			TokenVersion: 5,
		},
	}

	handler := Authenticator(cfg)(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer old-session-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_REVOKED", errorCode(t, rec))
}

func TestAuthenticatorRejectsBlacklistedToken(t *testing.T) {
	cfg := validAuthConfig()
	cfg.Revocations = &stubRevocations{revoked: true}

	handler := Authenticator(cfg)(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer blacklisted-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_REVOKED", errorCode(t, rec))
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		userRole string
		required string
		want     int
	}{
		{"citizen passes citizen gate", RoleCitizen, RoleCitizen, 200},
		{"official passes official gate", RoleOfficial, RoleOfficial, 200},
		{"citizen blocked from official gate", RoleCitizen, RoleOfficial, 403},
		{"official blocked from citizen gate", RoleOfficial, RoleCitizen, 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRole(tt.required)(okHandler())

			ctx := context.WithValue(
				context.Background(),
				UserRoleKey,
				tt.userRole,
			)
			req := httptest.NewRequest("GET", "/", nil).WithContext(ctx)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireRoleWithoutAuthentication(t *testing.T) {
	handler := RequireOfficial(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuthNeverRejects(t *testing.T) {
	cfg := validAuthConfig()
	cfg.Verifier = &stubVerifier{err: core.ErrTokenInvalid}

	handler := OptionalAuth(cfg)(echoUserHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ":", rec.Body.String())
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer token", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"no token", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			assert.Equal(t, tt.want, ExtractToken(req))
		})
	}
}
