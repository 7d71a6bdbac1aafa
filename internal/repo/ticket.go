package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftsphere/marketplace/internal/models"
)

func (r *GormRepo) CreateTicket(ctx context.Context, ticket *models.SupportTicket) error {
	return r.DB.WithContext(ctx).Create(ticket).Error
}

func (r *GormRepo) GetTickets(ctx context.Context) ([]models.SupportTicket, error) {
	var tickets []models.SupportTicket
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *GormRepo) GetTicket(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *GormRepo) UpdateTicketStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.DB.WithContext(ctx).Model(&models.SupportTicket{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteTicket(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.SupportTicket{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
