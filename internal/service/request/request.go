package request

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftsphere/marketplace/internal/models"
	"github.com/craftsphere/marketplace/internal/repo"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

type Service struct {
	Repo *repo.GormRepo
}

func (s *Service) Add(ctx context.Context, userID uuid.UUID, title, reqType, image, description string, budget float64, requiredBy string) (*models.CustomRequest, error) {
	if title == "" || reqType == "" || description == "" || requiredBy == "" {
		return nil, fmt.Errorf("%w: all required fields must be filled", ErrValidation)
	}
	if budget <= 0 {
		return nil, fmt.Errorf("%w: budget must be positive", ErrValidation)
	}

	req := &models.CustomRequest{
		UserID:      userID,
		Title:       title,
		Type:        reqType,
		Image:       image,
		Description: description,
		Budget:      budget,
		RequiredBy:  requiredBy,
	}
	if err := s.Repo.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("add custom request: %w", err)
	}
	return req, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.CustomRequest, error) {
	req, err := s.Repo.GetRequest(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("custom request: %w", ErrNotFound)
		}
		return nil, err
	}
	return req, nil
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CustomRequest, error) {
	return s.Repo.GetRequestsByUser(ctx, userID)
}

func (s *Service) ListOpen(ctx context.Context) ([]models.CustomRequest, error) {
	return s.Repo.GetOpenRequests(ctx)
}

func (s *Service) Approve(ctx context.Context, requestID, artisanID uuid.UUID) error {
	approved, err := s.Repo.ApproveRequest(ctx, requestID, artisanID)
	if err != nil {
		return fmt.Errorf("approve custom request: %w", err)
	}
	if !approved {
		return fmt.Errorf("%w: request already accepted or missing", ErrConflict)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, requestID uuid.UUID) error {
	if err := s.Repo.DeleteRequest(ctx, requestID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("custom request: %w", ErrNotFound)
		}
		return fmt.Errorf("delete custom request: %w", err)
	}
	return nil
}
