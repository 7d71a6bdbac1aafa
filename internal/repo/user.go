package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftsphere/marketplace/internal/models"
)

var ErrUserAlreadyExists = errors.New("user already exists")

func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("username = ?", u.Username).FirstOrCreate(u)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrUserAlreadyExists
	}
	return nil
}

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) ListUsersByRole(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).Where("role = ?", role).Order("username ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormRepo) SaveRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

func (r *GormRepo) RefreshTokenByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("token_hash = ? AND revoked = ?", tokenHash, false).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteUserCascade removes a user and everything keyed to them inside
// one transaction: their products are first pulled from every cart, then
// products, cart, tickets, workshops, requests and orders go. Workshops
// and requests an artisan had claimed are released back, not deleted.
func (r *GormRepo) DeleteUserCascade(ctx context.Context, userID uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}

		var products []models.Product
		if err := tx.Where("artisan_id = ?", userID).Find(&products).Error; err != nil {
			return err
		}
		for _, p := range products {
			if _, err := r.DeleteCartItemsByProduct(tx, p.ID); err != nil {
				return err
			}
		}
		if err := tx.Where("artisan_id = ?", userID).Delete(&models.Product{}).Error; err != nil {
			return err
		}
		if err := r.DeleteEmptyCarts(tx); err != nil {
			return err
		}

		if _, err := r.DeleteCart(tx, userID); err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.SupportTicket{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.Workshop{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Workshop{}).Where("artisan_id = ?", userID).
			Updates(map[string]any{"artisan_id": nil, "status": models.WorkshopRequested}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.CustomRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.CustomRequest{}).Where("artisan_id = ?", userID).
			Updates(map[string]any{"artisan_id": nil, "is_accepted": false}).Error; err != nil {
			return err
		}

		var orders []models.Order
		if err := tx.Where("user_id = ?", userID).Find(&orders).Error; err != nil {
			return err
		}
		for _, o := range orders {
			if err := tx.Where("order_id = ?", o.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Order{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}

		return tx.Delete(&user).Error
	})
}
