package order

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/craftsphere/marketplace/internal/models"
	"github.com/craftsphere/marketplace/internal/repo"
	"github.com/craftsphere/marketplace/internal/service/cart"
)

func newTestService(t *testing.T) (*Service, *cart.Service) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	gormRepo := &repo.GormRepo{DB: db}
	return &Service{Repo: gormRepo}, &cart.Service{Repo: gormRepo}
}

func seedProduct(t *testing.T, svc *Service, price float64, stock uint) *models.Product {
	t.Helper()

	product := &models.Product{
		ArtisanID:   uuid.New(),
		Name:        gofakeit.ProductName(),
		Category:    gofakeit.ProductCategory(),
		Description: gofakeit.Sentence(6),
		OldPrice:    price,
		NewPrice:    price,
		Quantity:    stock,
		Status:      models.ProductApproved,
	}
	require.NoError(t, svc.Repo.DB.Create(product).Error)
	return product
}

func fillCart(t *testing.T, carts *cart.Service, userID uuid.UUID, productID uuid.UUID, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		res, err := carts.AddItem(context.Background(), userID.String(), productID.String())
		require.NoError(t, err)
		require.True(t, res.Success)
	}
}

func TestCheckoutEstimate(t *testing.T) {
	t.Parallel()

	svc, carts := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	product := seedProduct(t, svc, 100, 10)
	fillCart(t, carts, userID, product.ID, 2)

	estimate, err := svc.CheckoutEstimate(ctx, userID)
	require.NoError(t, err)

	require.Len(t, estimate.Lines, 1)
	assert.Equal(t, 200.0, estimate.Subtotal)
	assert.Equal(t, ShippingFee, estimate.Shipping)
	assert.Equal(t, 10.0, estimate.Tax)
	assert.Equal(t, 260.0, estimate.Total)
}

func TestCheckoutEstimate_TaxRounding(t *testing.T) {
	t.Parallel()

	svc, carts := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	product := seedProduct(t, svc, 33.33, 10)
	fillCart(t, carts, userID, product.ID, 1)

	estimate, err := svc.CheckoutEstimate(ctx, userID)
	require.NoError(t, err)

	// 5% of 33.33 is 1.6665, rounded to cents
	assert.Equal(t, 1.67, estimate.Tax)
}

func TestCheckoutEstimate_EmptyCart(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.CheckoutEstimate(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrValidation)
}

func TestPlaceOrder(t *testing.T) {
	t.Parallel()

	svc, carts := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	product := seedProduct(t, svc, 50, 10)
	fillCart(t, carts, userID, product.ID, 3)

	placed, err := svc.PlaceOrder(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPlaced, placed.Status)
	assert.Equal(t, 150.0, placed.Subtotal)
	assert.Equal(t, 150.0+ShippingFee+7.5, placed.Total)
	require.Len(t, placed.Items, 1)
	assert.Equal(t, product.ID, placed.Items[0].ProductID)
	assert.Equal(t, uint(3), placed.Items[0].Quantity)

	// stock is captured at placement
	var after models.Product
	require.NoError(t, svc.Repo.DB.First(&after, "id = ?", product.ID).Error)
	assert.Equal(t, uint(7), after.Quantity)

	// the cart is gone once the order exists
	lines, err := carts.GetCart(ctx, userID.String())
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	t.Parallel()

	svc, carts := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	product := seedProduct(t, svc, 50, 3)
	fillCart(t, carts, userID, product.ID, 3)

	// stock drains between carting and checkout
	require.NoError(t, svc.Repo.DB.Model(&models.Product{}).
		Where("id = ?", product.ID).Update("quantity", 1).Error)

	_, err := svc.PlaceOrder(ctx, userID)
	require.ErrorIs(t, err, ErrConflict)

	// nothing was decremented and the cart survived
	var after models.Product
	require.NoError(t, svc.Repo.DB.First(&after, "id = ?", product.ID).Error)
	assert.Equal(t, uint(1), after.Quantity)

	lines, err := carts.GetCart(ctx, userID.String())
	require.NoError(t, err)
	require.Len(t, lines, 1)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.PlaceOrder(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrValidation)
}

func TestGetOrder_OwnershipHidesForeignOrders(t *testing.T) {
	t.Parallel()

	svc, carts := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	product := seedProduct(t, svc, 25, 5)
	fillCart(t, carts, userID, product.ID, 1)

	placed, err := svc.PlaceOrder(ctx, userID)
	require.NoError(t, err)

	found, err := svc.GetOrder(ctx, userID, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, found.ID)

	_, err = svc.GetOrder(ctx, uuid.New(), placed.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListOrders(t *testing.T) {
	t.Parallel()

	svc, carts := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	product := seedProduct(t, svc, 10, 20)
	for i := 0; i < 3; i++ {
		fillCart(t, carts, userID, product.ID, 1)
		_, err := svc.PlaceOrder(ctx, userID)
		require.NoError(t, err)
	}

	orders, err := svc.ListOrders(ctx, userID, 0, 10)
	require.NoError(t, err)
	assert.Len(t, orders, 3)
}
