package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftsphere/marketplace/internal/models"
)

func (r *GormRepo) CreateRequest(ctx context.Context, req *models.CustomRequest) error {
	return r.DB.WithContext(ctx).Create(req).Error
}

func (r *GormRepo) GetRequest(ctx context.Context, id uuid.UUID) (*models.CustomRequest, error) {
	var req models.CustomRequest
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *GormRepo) GetRequestsByUser(ctx context.Context, userID uuid.UUID) ([]models.CustomRequest, error) {
	var reqs []models.CustomRequest
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *GormRepo) GetOpenRequests(ctx context.Context) ([]models.CustomRequest, error) {
	var reqs []models.CustomRequest
	if err := r.DB.WithContext(ctx).Where("is_accepted = ?", false).Order("id ASC").Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *GormRepo) ApproveRequest(ctx context.Context, id, artisanID uuid.UUID) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.CustomRequest{}).
		Where("id = ? AND is_accepted = ?", id, false).
		Updates(map[string]any{"artisan_id": artisanID, "is_accepted": true})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.CustomRequest{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
