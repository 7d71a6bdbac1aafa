package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftsphere/marketplace/internal/models"
)

// CartLine is one cart line item with its product resolved.
type CartLine struct {
	Product  models.Product `json:"product"`
	Quantity uint           `json:"quantity"`
}

// CartByUser returns the user's cart record without its items, or
// gorm.ErrRecordNotFound. Inside a transaction the row is locked.
func (r *GormRepo) CartByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	q := r.conn(ctx, tx)
	if tx != nil {
		q = lockForUpdate(q)
	}

	var cart models.Cart
	if err := q.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetCartLines resolves the user's cart into line items joined with
// product rows. A missing cart is an empty slice, not an error.
func (r *GormRepo) GetCartLines(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]CartLine, error) {
	cart, err := r.CartByUser(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []CartLine{}, nil
		}
		return nil, err
	}

	var items []models.CartItem
	if err := r.conn(ctx, tx).Where("cart_id = ?", cart.ID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}

	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		var product models.Product
		if err := r.conn(ctx, tx).Where("id = ?", item.ProductID).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		lines = append(lines, CartLine{Product: product, Quantity: item.Quantity})
	}
	return lines, nil
}

// CartProductQuantity returns the quantity of one product in the user's
// cart, 0 when the cart or the line item is absent.
func (r *GormRepo) CartProductQuantity(ctx context.Context, tx *gorm.DB, userID, productID uuid.UUID) (uint, error) {
	q := r.conn(ctx, tx).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.user_id = ? AND cart_items.product_id = ?", userID, productID)
	if tx != nil {
		q = lockForUpdate(q)
	}

	var item models.CartItem
	if err := q.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return item.Quantity, nil
}

// CartItemCount is the number of distinct line items in the user's cart.
func (r *GormRepo) CartItemCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.conn(ctx, tx).Model(&models.CartItem{}).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// AddCartItem inserts a new line item with quantity 1, creating the cart
// record first when the user has none yet.
func (r *GormRepo) AddCartItem(tx *gorm.DB, userID, productID uuid.UUID) error {
	var cart models.Cart
	err := lockForUpdate(tx).Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		err = tx.Create(&cart).Error
	}
	if err != nil {
		return err
	}

	item := models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: 1}
	return tx.Create(&item).Error
}

// IncrementCartItem applies a relative quantity change to an existing
// line item as a single atomic update.
func (r *GormRepo) IncrementCartItem(tx *gorm.DB, userID, productID uuid.UUID, delta int) error {
	return tx.Model(&models.CartItem{}).
		Where("product_id = ? AND cart_id = (?)", productID,
			tx.Session(&gorm.Session{NewDB: true}).Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

// SetCartItemQuantity sets an existing line item to an absolute quantity.
// A missing line item is a no-op, mirroring a positional update that
// matches nothing.
func (r *GormRepo) SetCartItemQuantity(tx *gorm.DB, userID, productID uuid.UUID, quantity uint) error {
	return tx.Model(&models.CartItem{}).
		Where("product_id = ? AND cart_id = (?)", productID,
			tx.Session(&gorm.Session{NewDB: true}).Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)).
		Update("quantity", quantity).Error
}

// DeleteCartItem pulls one product's line item out of the user's cart.
func (r *GormRepo) DeleteCartItem(tx *gorm.DB, userID, productID uuid.UUID) error {
	return tx.
		Where("product_id = ? AND cart_id = (?)", productID,
			tx.Session(&gorm.Session{NewDB: true}).Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)).
		Delete(&models.CartItem{}).Error
}

// DeleteCart removes the user's cart record and its line items. Reports
// whether a cart actually existed.
func (r *GormRepo) DeleteCart(tx *gorm.DB, userID uuid.UUID) (bool, error) {
	var cart models.Cart
	if err := lockForUpdate(tx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return false, err
	}
	if err := tx.Delete(&cart).Error; err != nil {
		return false, err
	}
	return true, nil
}

// DeleteCartItemsByProduct pulls the product's line item out of every
// cart referencing it in one bulk update.
func (r *GormRepo) DeleteCartItemsByProduct(tx *gorm.DB, productID uuid.UUID) (int64, error) {
	res := tx.Where("product_id = ?", productID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// DeleteEmptyCarts removes cart records left without a single line item.
func (r *GormRepo) DeleteEmptyCarts(tx *gorm.DB) error {
	return tx.
		Where("NOT EXISTS (SELECT 1 FROM cart_items WHERE cart_items.cart_id = carts.id)").
		Delete(&models.Cart{}).Error
}
