package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

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

// Fixed-formula checkout estimate: flat shipping plus a 5% tax on the
// item subtotal.
const (
	ShippingFee = 50.0
	TaxRate     = 0.05
)

type Estimate struct {
	Lines    []repo.CartLine `json:"cart"`
	Subtotal float64         `json:"amount"`
	Shipping float64         `json:"shipping"`
	Tax      float64         `json:"tax"`
	Total    float64         `json:"total"`
}

type Service struct {
	Repo *repo.GormRepo
}

func estimateFromLines(lines []repo.CartLine) *Estimate {
	var subtotal float64
	for _, line := range lines {
		subtotal += line.Product.NewPrice * float64(line.Quantity)
	}
	tax := math.Round(subtotal*TaxRate*100) / 100
	return &Estimate{
		Lines:    lines,
		Subtotal: subtotal,
		Shipping: ShippingFee,
		Tax:      tax,
		Total:    subtotal + ShippingFee + tax,
	}
}

// CheckoutEstimate prices the current cart without touching it.
func (s *Service) CheckoutEstimate(ctx context.Context, userID uuid.UUID) (*Estimate, error) {
	lines, err := s.Repo.GetCartLines(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("checkout estimate: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}
	return estimateFromLines(lines), nil
}

// PlaceOrder turns the cart into an order inside one transaction: stock
// is decremented per line with a guarded update (this is the point where
// stock is actually reserved, not at cart-add time), the order and its
// items are written, and the cart record goes away.
func (s *Service) PlaceOrder(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	var placed *models.Order
	err := s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines, err := s.Repo.GetCartLines(ctx, tx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return fmt.Errorf("%w: cart is empty", ErrValidation)
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			ok, err := s.Repo.DecrementProductQuantity(tx, line.Product.ID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: insufficient stock for %q", ErrConflict, line.Product.Name)
			}
			items = append(items, models.OrderItem{
				ProductID: line.Product.ID,
				Quantity:  line.Quantity,
				UnitPrice: line.Product.NewPrice,
				LineTotal: line.Product.NewPrice * float64(line.Quantity),
			})
		}

		est := estimateFromLines(lines)
		order := &models.Order{
			UserID:    userID,
			CreatedAt: time.Now().UTC().Unix(),
			Subtotal:  est.Subtotal,
			Shipping:  est.Shipping,
			Tax:       est.Tax,
			Total:     est.Total,
			Status:    models.OrderStatusPlaced,
			Items:     items,
		}
		if err := s.Repo.CreateOrder(tx, order); err != nil {
			return err
		}

		if _, err := s.Repo.DeleteCart(tx, userID); err != nil {
			return err
		}

		placed = order
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("place order: %w", err)
	}
	return placed, nil
}

func (s *Service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order: %w", ErrNotFound)
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order: %w", ErrNotFound)
	}
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, userID, offset, limit)
}
