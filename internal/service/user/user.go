package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftsphere/marketplace/internal/models"
	"github.com/craftsphere/marketplace/internal/repo"
)

var ErrNotFound = errors.New("user not found")

type Service struct {
	Repo *repo.GormRepo
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Service) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	users, err := s.Repo.ListUsersByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return users, nil
}

// Delete removes the user and every record tied to them, including
// their products' presence in other users' carts.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Repo.GetUserByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}
	if err := s.Repo.DeleteUserCascade(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
