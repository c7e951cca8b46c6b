// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pakair-dev/pakair-api/internal/core"
	"github.com/pakair-dev/pakair-api/internal/middleware"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateUserParams struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Password     string
	Role         Role
	AgreeToTerms bool
}

func (s *Service) Create(
	ctx context.Context,
	params CreateUserParams,
) (*User, error) {
	hash, err := core.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := params.Role
	if role == "" {
		role = RoleCitizen
	}

	u := &User{
		ID:           uuid.New().String(),
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Email:        strings.ToLower(strings.TrimSpace(params.Email)),
		Phone:        params.Phone,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		AgreeToTerms: params.AgreeToTerms,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get user: %w", core.ErrInvalidID)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	id, newPassword string,
) error {
	hash, err := core.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}

	// Password changes invalidate every outstanding access token.
	return s.repo.IncrementTokenVersion(ctx, id)
}

func (s *Service) IncrementTokenVersion(ctx context.Context, id string) error {
	return s.repo.IncrementTokenVersion(ctx, id)
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	u.IsActive = false
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}

	return s.repo.IncrementTokenVersion(ctx, id)
}

func (s *Service) SoftDelete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

// ResolveUser satisfies the authentication middleware's resolver contract.
func (s *Service) ResolveUser(
	ctx context.Context,
	id string,
) (*middleware.AuthUser, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &middleware.AuthUser{
		ID:           u.ID,
		Role:         u.Role.String(),
		Active:       u.IsActive,
		TokenVersion: u.TokenVersion,
	}, nil
}
