package workshop

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftsphere/marketplace/internal/logging"
	"github.com/craftsphere/marketplace/internal/mailer"
	"github.com/craftsphere/marketplace/internal/models"
	"github.com/craftsphere/marketplace/internal/repo"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

type Service struct {
	Repo   *repo.GormRepo
	Mailer *mailer.Mailer
}

func (s *Service) Book(ctx context.Context, userID uuid.UUID, title, desc, date, timeSlot string) (*models.Workshop, error) {
	if title == "" || desc == "" || date == "" || timeSlot == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}

	w := &models.Workshop{
		UserID: userID,
		Title:  title,
		Desc:   desc,
		Date:   date,
		Time:   timeSlot,
		Status: models.WorkshopRequested,
	}
	if err := s.Repo.CreateWorkshop(ctx, w); err != nil {
		return nil, fmt.Errorf("book workshop: %w", err)
	}
	return w, nil
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Workshop, error) {
	return s.Repo.GetWorkshopsByUser(ctx, userID)
}

func (s *Service) ListAvailable(ctx context.Context) ([]models.Workshop, error) {
	return s.Repo.GetAvailableWorkshops(ctx)
}

func (s *Service) ListAccepted(ctx context.Context, artisanID uuid.UUID) ([]models.Workshop, error) {
	return s.Repo.GetAcceptedWorkshops(ctx, artisanID)
}

// Accept claims a workshop request for an artisan and notifies the
// customer by email. A request already claimed by someone else is a
// conflict; a failed email delivery is logged, not returned.
func (s *Service) Accept(ctx context.Context, workshopID, artisanID uuid.UUID) (*models.Workshop, error) {
	claimed, err := s.Repo.ClaimWorkshop(ctx, workshopID, artisanID)
	if err != nil {
		return nil, fmt.Errorf("accept workshop: %w", err)
	}
	if !claimed {
		return nil, fmt.Errorf("%w: workshop already claimed or missing", ErrConflict)
	}

	w, err := s.Repo.GetWorkshop(ctx, workshopID)
	if err != nil {
		return nil, fmt.Errorf("accept workshop: %w", err)
	}

	if customer, err := s.Repo.GetUserByID(ctx, w.UserID); err == nil {
		body := fmt.Sprintf("Hi %s,\n\nYour workshop %q on %s at %s has been accepted by an artisan.\n",
			customer.Name, w.Title, w.Date, w.Time)
		if err := s.Mailer.Send(customer.Email, "Workshop accepted", body); err != nil {
			logging.FromContext(ctx).Warn("workshop_mail_failed", "workshop_id", workshopID, "error", err)
		}
	}

	return w, nil
}

func (s *Service) Remove(ctx context.Context, workshopID uuid.UUID) error {
	if err := s.Repo.DeleteWorkshop(ctx, workshopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("workshop: %w", ErrNotFound)
		}
		return fmt.Errorf("remove workshop: %w", err)
	}
	return nil
}
