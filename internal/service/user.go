package service

import (
	"context"
	"fmt"

	"github.com/minbak/minbak-web/internal/core"
	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	"github.com/minbak/minbak-web/internal/domain/model"
)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Repo core.UserRepository // Required
}

// UserService exposes account lookups at the three visibility levels:
// the signed-in user, the public, and administrators.
type UserService struct {
	repo core.UserRepository
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	if opts.Repo == nil {
		panic("UserRepository is required")
	}
	return &UserService{repo: opts.Repo}
}

// Me returns the full account of the signed-in user.
func (s *UserService) Me(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// PublicProfile returns what any visitor may see about a user.
func (s *UserService) PublicProfile(ctx context.Context, id string) (model.PublicProfile, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.PublicProfile{}, fmt.Errorf("get user: %w", err)
	}
	return u.Profile(), nil
}

// AdminLookup returns the contact and role of a user for administrators.
func (s *UserService) AdminLookup(ctx context.Context, id string) (domainauth.UserRecord, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domainauth.UserRecord{}, fmt.Errorf("get user: %w", err)
	}
	return u.Record(), nil
}
