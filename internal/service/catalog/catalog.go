package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftsphere/marketplace/internal/es"
	"github.com/craftsphere/marketplace/internal/logging"
	"github.com/craftsphere/marketplace/internal/models"
	"github.com/craftsphere/marketplace/internal/repo"
	"github.com/craftsphere/marketplace/internal/service/cart"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

type Service struct {
	Repo  *repo.GormRepo
	Carts *cart.Service
	ES    *elasticsearch.Client
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product: %w", ErrNotFound)
	}
	return product, err
}

func (s *Service) GetApprovedProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProductsByStatus(ctx, models.ProductApproved, offset, limit)
}

func (s *Service) GetProductsByStatus(ctx context.Context, status string, offset, limit int) (int64, []models.Product, error) {
	switch status {
	case models.ProductPending, models.ProductApproved, models.ProductDisapproved:
	default:
		return 0, nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	return s.Repo.GetProductsByStatus(ctx, status, offset, limit)
}

func (s *Service) GetArtisanProducts(ctx context.Context, artisanID uuid.UUID) ([]models.Product, error) {
	return s.Repo.GetProductsByArtisan(ctx, artisanID)
}

func (s *Service) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.Name == "" || product.Category == "" || product.Description == "" {
		return fmt.Errorf("%w: name, category and description required", ErrValidation)
	}
	if product.NewPrice < 0 || product.OldPrice < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	product.Status = models.ProductPending
	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return err
	}
	s.index(ctx, product)
	return nil
}

func (s *Service) UpdateProduct(ctx context.Context, artisanID uuid.UUID, updated *models.Product) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, updated.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product: %w", ErrNotFound)
		}
		return nil, err
	}
	if product.ArtisanID != artisanID {
		return nil, fmt.Errorf("%w: product belongs to another artisan", ErrValidation)
	}

	product.Name = updated.Name
	product.Category = updated.Category
	product.Material = updated.Material
	product.Image = updated.Image
	product.OldPrice = updated.OldPrice
	product.NewPrice = updated.NewPrice
	product.Quantity = updated.Quantity
	product.Description = updated.Description

	if err := s.Repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	s.index(ctx, product)
	return product, nil
}

// ApproveProduct moves a listing through the moderation workflow. A
// disapproval also pulls the product out of every customer's cart and
// out of the search index, same as a deletion.
func (s *Service) ApproveProduct(ctx context.Context, id uuid.UUID, approve bool) error {
	if approve {
		if err := s.Repo.SetProductStatus(ctx, id, models.ProductApproved); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product: %w", ErrNotFound)
			}
			return err
		}
		if product, err := s.Repo.GetProduct(ctx, id); err == nil {
			s.index(ctx, product)
		}
		return nil
	}

	if err := s.Repo.SetProductStatus(ctx, id, models.ProductDisapproved); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product: %w", ErrNotFound)
		}
		return err
	}
	s.evict(ctx, id)
	return nil
}

// DeleteProduct removes a listing and everything referencing it: line
// items in every cart, and the search document.
func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteProduct(ctx, nil, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product: %w", ErrNotFound)
		}
		return err
	}
	s.evict(ctx, id)
	return nil
}

func (s *Service) index(ctx context.Context, product *models.Product) {
	if err := es.IndexProduct(ctx, s.ES, product); err != nil {
		logging.FromContext(ctx).Warn("product_index_failed", "product_id", product.ID, "error", err)
	}
}

func (s *Service) evict(ctx context.Context, id uuid.UUID) {
	if _, err := s.Carts.RemoveProductFromAllCarts(ctx, id.String()); err != nil && !errors.Is(err, cart.ErrNotFound) {
		logging.FromContext(ctx).Warn("cart_evict_failed", "product_id", id, "error", err)
	}
	if err := es.DeleteProduct(ctx, s.ES, id); err != nil {
		logging.FromContext(ctx).Warn("product_deindex_failed", "product_id", id, "error", err)
	}
}
