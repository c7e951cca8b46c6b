// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pakair-dev/pakair-api/internal/core"
	"github.com/pakair-dev/pakair-api/internal/user"
)

// UserProvider is the slice of the user service that authentication needs.
type UserProvider interface {
	Create(ctx context.Context, params user.CreateUserParams) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id string) (*user.User, error)
	IncrementTokenVersion(ctx context.Context, id string) error
}

type Service struct {
	repo  Repository
	users UserProvider
	jwt   *JWTManager
	rdb   *redis.Client
}

func NewService(
	repo Repository,
	users UserProvider,
	jwtManager *JWTManager,
	rdb *redis.Client,
) *Service {
	return &Service{
		repo:  repo,
		users: users,
		jwt:   jwtManager,
		rdb:   rdb,
	}
}

type RequestMeta struct {
	UserAgent string
	IPAddress string
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
	meta RequestMeta,
) (*AuthResponse, error) {
	u, err := s.users.Create(ctx, user.CreateUserParams{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Password:     req.Password,
		Role:         user.RoleCitizen,
		AgreeToTerms: req.AgreeToTerms,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("An account with this email already exists")
		}
		return nil, err
	}

	return s.issueTokens(ctx, u, "", meta)
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	meta RequestMeta,
) (*AuthResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	// Verification runs against a dummy hash when the email is unknown so
	// the failure path costs the same either way.
	var storedHash *string
	if u != nil {
		storedHash = &u.PasswordHash
	}

	valid, _, err := core.VerifyPasswordTimingSafe(req.Password, storedHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if u == nil || !valid {
		return nil, core.UnauthorizedError("Invalid email or password")
	}

	if !u.IsActive {
		return nil, core.UnauthorizedError("Invalid email or password")
	}

	return s.issueTokens(ctx, u, "", meta)
}

func (s *Service) Refresh(
	ctx context.Context,
	refreshToken string,
	meta RequestMeta,
) (*AuthResponse, error) {
	stored, err := s.repo.GetRefreshTokenByHash(
		ctx,
		core.HashToken(refreshToken),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.TokenInvalidError()
		}
		return nil, err
	}

	// A revoked token showing up again means the opaque value leaked; kill
	// every descendant in the family.
	if stored.IsRevoked() {
		slog.Warn("refresh token reuse detected",
			"user_id", stored.UserID,
			"family_id", stored.FamilyID,
		)
		if revokeErr := s.repo.RevokeTokenFamily(ctx, stored.FamilyID); revokeErr != nil {
			slog.Error("failed to revoke token family",
				"error", revokeErr,
				"family_id", stored.FamilyID,
			)
		}
		return nil, core.TokenRevokedError()
	}

	if stored.IsExpired() {
		return nil, core.TokenExpiredError()
	}

	u, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, core.TokenInvalidError()
	}

	if !u.IsActive {
		return nil, core.UnauthorizedError("Account is deactivated")
	}

	accessToken, refreshData, record, err := s.mintTokens(u, stored.FamilyID, meta)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RotateRefreshToken(ctx, stored.ID, record); err != nil {
		return nil, err
	}

	return s.tokenResponse(u, accessToken, refreshData), nil
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	stored, err := s.repo.GetRefreshTokenByHash(
		ctx,
		core.HashToken(refreshToken),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Already gone; logout is idempotent.
			return nil
		}
		return err
	}

	return s.repo.RevokeTokenFamily(ctx, stored.FamilyID)
}

func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	if err := s.repo.RevokeAllUserTokens(ctx, userID); err != nil {
		return err
	}

	// Bumping the token version invalidates access tokens that are still in
	// flight without having to enumerate them.
	return s.users.IncrementTokenVersion(ctx, userID)
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

const blacklistPrefix = "auth:blacklist:jti:"

// RevokeAccessToken blacklists a single access token by jti for the rest of
// its lifetime.
func (s *Service) RevokeAccessToken(ctx context.Context, jti string) error {
	if jti == "" {
		return nil
	}

	err := s.rdb.Set(
		ctx,
		blacklistPrefix+jti,
		"1",
		s.jwt.AccessTokenTTL(),
	).Err()
	if err != nil {
		return fmt.Errorf("blacklist access token: %w", err)
	}

	return nil
}

// IsAccessTokenRevoked fails open on Redis errors; the token version check
// still applies downstream.
func (s *Service) IsAccessTokenRevoked(
	ctx context.Context,
	jti string,
) (bool, error) {
	if jti == "" {
		return false, nil
	}

	n, err := s.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		slog.Warn("blacklist check failed", "error", err)
		return false, nil
	}

	return n > 0, nil
}

func (s *Service) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredTokens(ctx)
}

func (s *Service) issueTokens(
	ctx context.Context,
	u *user.User,
	familyID string,
	meta RequestMeta,
) (*AuthResponse, error) {
	accessToken, refreshData, record, err := s.mintTokens(u, familyID, meta)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateRefreshToken(ctx, record); err != nil {
		return nil, err
	}

	return s.tokenResponse(u, accessToken, refreshData), nil
}

func (s *Service) mintTokens(
	u *user.User,
	familyID string,
	meta RequestMeta,
) (string, *RefreshTokenData, *RefreshToken, error) {
	accessToken, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID:       u.ID,
		Role:         u.Role.String(),
		TokenVersion: u.TokenVersion,
	})
	if err != nil {
		return "", nil, nil, fmt.Errorf("create access token: %w", err)
	}

	refreshData, err := s.jwt.CreateRefreshToken(u.ID, familyID)
	if err != nil {
		return "", nil, nil, err
	}

	record := &RefreshToken{
		UserID:    u.ID,
		TokenHash: refreshData.Hash,
		FamilyID:  refreshData.FamilyID,
		ExpiresAt: refreshData.ExpiresAt,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
	}

	return accessToken, refreshData, record, nil
}

func (s *Service) tokenResponse(
	u *user.User,
	accessToken string,
	refreshData *RefreshTokenData,
) *AuthResponse {
	return &AuthResponse{
		User: user.ToUserResponse(u),
		Tokens: TokenPairResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshData.Token,
			TokenType:    "Bearer",
			ExpiresIn:    int(s.jwt.AccessTokenTTL() / time.Second),
		},
	}
}
