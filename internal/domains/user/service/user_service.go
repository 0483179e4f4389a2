package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"devlog-backend/internal/domains/user"
)

type userService struct {
	repo user.Repository
}

// NewUserService creates a new user service instance
func NewUserService(repo user.Repository) user.Service {
	return &userService{repo: repo}
}

func (s *userService) Register(ctx context.Context, req user.CreateUserRequest) (*user.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	entity := req.ToEntity()
	if !user.IsValidUsername(entity.Username) {
		return nil, user.ErrInvalidUsername
	}

	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", created.ID.String()).
		Str("username", created.Username).
		Msg("User registered")

	return created, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if id == uuid.Nil {
		return nil, user.ErrUserNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *userService) EnsureExist(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	found, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	known := make(map[uuid.UUID]struct{}, len(found))
	for _, u := range found {
		known[u.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: %s", user.ErrUserNotFound, id)
		}
	}
	return nil
}

func (s *userService) List(ctx context.Context) ([]user.User, error) {
	return s.repo.List(ctx)
}
