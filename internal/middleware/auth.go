// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/pakair-dev/pakair-api/internal/core"
)

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
	ClaimsKey   contextKey = "jwt_claims"
)

const (
	RoleCitizen  = "citizen"
	RoleOfficial = "official"
)

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

type AccessTokenClaims struct {
	UserID       string
	Role         string
	TokenVersion int
	JTI          string
}

// AuthUser is the live user snapshot attached to authenticated requests.
// Resolving it on every request means deactivation and soft deletion take
// effect immediately, even for tokens that have not yet expired.
type AuthUser struct {
	ID           string
	Role         string
	Active       bool
	TokenVersion int
}

type UserResolver interface {
	ResolveUser(ctx context.Context, id string) (*AuthUser, error)
}

type RevocationChecker interface {
	IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error)
}

type AuthConfig struct {
	Verifier    TokenVerifier
	Resolver    UserResolver
	Revocations RevocationChecker
}

// Authenticator verifies the bearer token, checks revocation, and attaches
// the live user to the request context. Role middlewares must be mounted
// after it.
func Authenticator(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			user, claims, err := resolveRequestUser(r.Context(), cfg, token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(
				withAuthContext(r.Context(), user, claims),
			))
		})
	}
}

// OptionalAuth attaches a user when a valid token is present but never
// rejects the request.
func OptionalAuth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := ExtractToken(r); token != "" {
				user, claims, err := resolveRequestUser(
					r.Context(),
					cfg,
					token,
				)
				if err == nil {
					r = r.WithContext(
						withAuthContext(r.Context(), user, claims),
					)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func resolveRequestUser(
	ctx context.Context,
	cfg AuthConfig,
	token string,
) (*AuthUser, *AccessTokenClaims, error) {
	claims, err := cfg.Verifier.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Revocations != nil && claims.JTI != "" {
		revoked, revErr := cfg.Revocations.IsAccessTokenRevoked(
			ctx,
			claims.JTI,
		)
		if revErr == nil && revoked {
			return nil, nil, core.ErrTokenRevoked
		}
	}

	user, err := cfg.Resolver.ResolveUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil, core.UnauthorizedError(
				"user not found, token invalid",
			)
		}
		return nil, nil, err
	}

	if !user.Active {
		return nil, nil, core.UnauthorizedError("user account is inactive")
	}

	if claims.TokenVersion < user.TokenVersion {
		return nil, nil, core.ErrTokenRevoked
	}

	return user, claims, nil
}

func withAuthContext(
	ctx context.Context,
	user *AuthUser,
	claims *AccessTokenClaims,
) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, user.ID)
	ctx = context.WithValue(ctx, UserRoleKey, user.Role)
	ctx = context.WithValue(ctx, ClaimsKey, claims)
	return ctx
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole := GetUserRole(r.Context())

			if userRole == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			if _, ok := roleSet[userRole]; !ok {
				core.JSONError(
					w,
					core.ForbiddenError("insufficient permissions"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireOfficial(next http.Handler) http.Handler {
	return RequireRole(RoleOfficial)(next)
}

func RequireCitizen(next http.Handler) http.Handler {
	return RequireRole(RoleCitizen)(next)
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func GetUserRole(ctx context.Context) string {
	if role, ok := ctx.Value(UserRoleKey).(string); ok {
		return role
	}
	return ""
}

func GetClaims(ctx context.Context) *AccessTokenClaims {
	if claims, ok := ctx.Value(ClaimsKey).(*AccessTokenClaims); ok {
		return claims
	}
	return nil
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUserID(ctx) != ""
}
