package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftsphere/marketplace/internal/models"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductQuantity is the stock oracle: the authoritative available count
// for a product at call time. Inside a transaction the product row is
// locked so a concurrent stock change cannot interleave. A product that
// no longer exists counts as zero stock.
func (r *GormRepo) ProductQuantity(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (uint, error) {
	q := r.conn(ctx, tx)
	if tx != nil {
		q = lockForUpdate(q)
	}

	var product models.Product
	if err := q.Select("id", "quantity").Where("id = ?", productID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return product.Quantity, nil
}

func (r *GormRepo) GetProductsByArtisan(ctx context.Context, artisanID uuid.UUID) ([]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).Where("artisan_id = ?", artisanID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetProductsByStatus(ctx context.Context, status string, offset, limit int) (int64, []models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{}).Where("status = ?", status)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Create(product).Error
}

func (r *GormRepo) UpdateProduct(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Save(product).Error
}

func (r *GormRepo) SetProductStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	res := r.conn(ctx, tx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementProductQuantity reserves stock at order placement. It fails
// the guarding predicate, not a constraint, when stock is short.
func (r *GormRepo) DecrementProductQuantity(tx *gorm.DB, productID uuid.UUID, by uint) (bool, error) {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", productID, by).
		Update("quantity", gorm.Expr("quantity - ?", by))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
