package ticket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftsphere/marketplace/internal/models"
	"github.com/craftsphere/marketplace/internal/repo"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

// TicketView is a support ticket with its reporter resolved. Tickets
// outlive their users; a deleted reporter shows up as a placeholder.
type TicketView struct {
	models.SupportTicket
	User ReporterInfo `json:"user"`
}

type ReporterInfo struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

var deletedReporter = ReporterInfo{
	Username: "Deleted User",
	Name:     "N/A",
	Email:    "N/A",
	Role:     "N/A",
}

type Service struct {
	Repo *repo.GormRepo
}

func (s *Service) Add(ctx context.Context, userID uuid.UUID, subject, category, description string) (*models.SupportTicket, error) {
	if subject == "" || category == "" || description == "" {
		return nil, fmt.Errorf("%w: subject, category and description required", ErrValidation)
	}

	t := &models.SupportTicket{
		UserID:      userID,
		Subject:     subject,
		Category:    category,
		Description: description,
		Status:      models.TicketOpen,
		CreatedAt:   time.Now().UTC().Unix(),
	}
	if err := s.Repo.CreateTicket(ctx, t); err != nil {
		return nil, fmt.Errorf("add ticket: %w", err)
	}
	return t, nil
}

func (s *Service) List(ctx context.Context) ([]TicketView, error) {
	tickets, err := s.Repo.GetTickets(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch tickets: %w", err)
	}

	views := make([]TicketView, 0, len(tickets))
	for _, t := range tickets {
		view := TicketView{SupportTicket: t, User: deletedReporter}
		if user, err := s.Repo.GetUserByID(ctx, t.UserID); err == nil {
			view.User = ReporterInfo{
				Username: user.Username,
				Name:     user.Name,
				Email:    user.Email,
				Role:     user.Role,
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Service) UpdateStatus(ctx context.Context, ticketID uuid.UUID, status string) error {
	if status != models.TicketOpen && status != models.TicketResolved {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	if err := s.Repo.UpdateTicketStatus(ctx, ticketID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("ticket: %w", ErrNotFound)
		}
		return fmt.Errorf("update ticket status: %w", err)
	}
	return nil
}

func (s *Service) Remove(ctx context.Context, ticketID uuid.UUID) error {
	if err := s.Repo.DeleteTicket(ctx, ticketID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("ticket: %w", ErrNotFound)
		}
		return fmt.Errorf("delete ticket: %w", err)
	}
	return nil
}
