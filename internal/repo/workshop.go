package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftsphere/marketplace/internal/models"
)

func (r *GormRepo) CreateWorkshop(ctx context.Context, w *models.Workshop) error {
	return r.DB.WithContext(ctx).Create(w).Error
}

func (r *GormRepo) GetWorkshop(ctx context.Context, id uuid.UUID) (*models.Workshop, error) {
	var w models.Workshop
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *GormRepo) GetWorkshopsByUser(ctx context.Context, userID uuid.UUID) ([]models.Workshop, error) {
	var ws []models.Workshop
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&ws).Error; err != nil {
		return nil, err
	}
	return ws, nil
}

// GetAvailableWorkshops lists booking requests no artisan has claimed yet.
func (r *GormRepo) GetAvailableWorkshops(ctx context.Context) ([]models.Workshop, error) {
	var ws []models.Workshop
	if err := r.DB.WithContext(ctx).Where("artisan_id IS NULL AND status = ?", models.WorkshopRequested).
		Order("id ASC").Find(&ws).Error; err != nil {
		return nil, err
	}
	return ws, nil
}

func (r *GormRepo) GetAcceptedWorkshops(ctx context.Context, artisanID uuid.UUID) ([]models.Workshop, error) {
	var ws []models.Workshop
	if err := r.DB.WithContext(ctx).Where("artisan_id = ? AND status = ?", artisanID, models.WorkshopAccepted).
		Order("id ASC").Find(&ws).Error; err != nil {
		return nil, err
	}
	return ws, nil
}

// ClaimWorkshop assigns an artisan to a still-unclaimed workshop; the
// guard in the predicate makes a concurrent double-accept lose.
func (r *GormRepo) ClaimWorkshop(ctx context.Context, id, artisanID uuid.UUID) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Workshop{}).
		Where("id = ? AND artisan_id IS NULL", id).
		Updates(map[string]any{"artisan_id": artisanID, "status": models.WorkshopAccepted})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) DeleteWorkshop(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.Workshop{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
