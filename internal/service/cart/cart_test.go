package cart

import (
	"context"
	"errors"
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
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
	))

	return &Service{Repo: &repo.GormRepo{DB: db}}
}

func seedProduct(t *testing.T, svc *Service, stock uint) *models.Product {
	t.Helper()

	product := &models.Product{
		ArtisanID:   uuid.New(),
		Name:        gofakeit.ProductName(),
		Category:    gofakeit.ProductCategory(),
		Description: gofakeit.Sentence(6),
		OldPrice:    120,
		NewPrice:    100,
		Quantity:    stock,
		Status:      models.ProductApproved,
	}
	require.NoError(t, svc.Repo.DB.Create(product).Error)
	return product
}

func cartQuantity(t *testing.T, svc *Service, userID uuid.UUID, productID uuid.UUID) uint {
	t.Helper()

	qty, err := svc.Repo.CartProductQuantity(context.Background(), nil, userID, productID)
	require.NoError(t, err)
	return qty
}

func cartExists(t *testing.T, svc *Service, userID uuid.UUID) bool {
	t.Helper()

	_, err := svc.Repo.CartByUser(context.Background(), nil, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestAddItem_NewProduct(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedProduct(t, svc, 3)

	res, err := svc.AddItem(ctx, userID.String(), product.ID.String())
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "Product added to cart!", res.Message)
	assert.Equal(t, uint(1), res.Quantity)
	assert.Equal(t, uint(1), cartQuantity(t, svc, userID, product.ID))
}

func TestAddItem_IncrementsExistingLine(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedProduct(t, svc, 3)

	_, err := svc.AddItem(ctx, userID.String(), product.ID.String())
	require.NoError(t, err)

	res, err := svc.AddItem(ctx, userID.String(), product.ID.String())
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "Cart updated!", res.Message)
	assert.Equal(t, uint(2), res.Quantity)
	assert.Equal(t, uint(2), cartQuantity(t, svc, userID, product.ID))
}

func TestAddItem_StocksOut(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedProduct(t, svc, 5)

	for i := 1; i <= 5; i++ {
		res, err := svc.AddItem(ctx, userID.String(), product.ID.String())
		require.NoError(t, err)
		require.True(t, res.Success, "add %d should succeed", i)
		require.Equal(t, uint(i), res.Quantity)
	}

	res, err := svc.AddItem(ctx, userID.String(), product.ID.String())
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, "Stock limit reached", res.Message)
	assert.Equal(t, uint(5), res.Quantity)
	assert.Equal(t, uint(5), cartQuantity(t, svc, userID, product.ID))
}

func TestAddItem_UnknownProductHasNoStock(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	userID := uuid.New()

	res, err := svc.AddItem(context.Background(), userID.String(), uuid.NewString())
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, "Stock limit reached", res.Message)
	assert.False(t, cartExists(t, svc, userID))
}

func TestAddItem_ArgumentErrors(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		userID    string
		productID string
		want      error
	}{
		{name: "missing user", userID: "", productID: uuid.NewString(), want: ErrMissingArgument},
		{name: "missing product", userID: uuid.NewString(), productID: "", want: ErrMissingArgument},
		{name: "malformed user", userID: "not-a-uuid", productID: uuid.NewString(), want: ErrInvalidInput},
		{name: "malformed product", userID: uuid.NewString(), productID: "42", want: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.AddItem(ctx, tt.userID, tt.productID)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, res)
		})
	}
}

func TestDeleteItem_DecrementsQuantity(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedProduct(t, svc, 10)

	for i := 0; i < 3; i++ {
		_, err := svc.AddItem(ctx, userID.String(), product.ID.String())
		require.NoError(t, err)
	}

	res, err := svc.DeleteItem(ctx, userID.String(), product.ID.String())
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "Cart updated!", res.Message)
	assert.Equal(t, uint(2), res.Quantity)
	assert.Equal(t, uint(2), cartQuantity(t, svc, userID, product.ID))
}

func TestDeleteItem_LastUnitRemovesLine(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	first := seedProduct(t, svc, 5)
	second := seedProduct(t, svc, 5)

	_, err := svc.AddItem(ctx, userID.String(), first.ID.String())
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, userID.String(), second.ID.String())
	require.NoError(t, err)

	res, err := svc.DeleteItem(ctx, userID.String(), first.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Product removed from cart!", res.Message)
	assert.Equal(t, uint(0), cartQuantity(t, svc, userID, first.ID))
	assert.True(t, cartExists(t, svc, userID), "cart still holds the second product")
}

func TestDeleteItem_LastLineDeletesCart(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedProduct(t, svc, 5)

	_, err := svc.AddItem(ctx, userID.String(), product.ID.String())
	require.NoError(t, err)

	res, err := svc.DeleteItem(ctx, userID.String(), product.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Cart deleted!", res.Message)
	assert.False(t, cartExists(t, svc, userID))
}

func TestChangeProductAmount_NilAmountIsMissing(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	userID := uuid.New()
	product := seedProduct(t, svc, 5)

	res, err := svc.ChangeProductAmount(context.Background(), userID.String(), product.ID.String(), nil)
	require.ErrorIs(t, err, ErrMissingArgument)
	assert.Nil(t, res)
}

func TestChangeProductAmount_ZeroRemovesLine(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedProduct(t, svc, 5)

	_, err := svc.AddItem(ctx, userID.String(), product.ID.String())
	require.NoError(t, err)

	// zero is a present amount, not a missing one
	zero := 0
	res, err := svc.ChangeProductAmount(ctx, userID.String(), product.ID.String(), &zero)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "Product removed from cart!", res.Message)
	assert.False(t, cartExists(t, svc, userID))
}

func TestChangeProductAmount_SetsAbsoluteQuantity(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedProduct(t, svc, 10)

	_, err := svc.AddItem(ctx, userID.String(), product.ID.String())
	require.NoError(t, err)

	amount := 7
	res, err := svc.ChangeProductAmount(ctx, userID.String(), product.ID.String(), &amount)
	require.NoError(t, err)

	assert.Equal(t, "Cart updated!", res.Message)
	assert.Equal(t, uint(7), res.Quantity)
	assert.Equal(t, uint(7), cartQuantity(t, svc, userID, product.ID))
}

func TestChangeProductAmount_ClampsToStock(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedProduct(t, svc, 4)

	_, err := svc.AddItem(ctx, userID.String(), product.ID.String())
	require.NoError(t, err)

	amount := 9
	res, err := svc.ChangeProductAmount(ctx, userID.String(), product.ID.String(), &amount)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "Inventory limit reached!", res.Message)
	assert.Equal(t, uint(4), res.Quantity)
	assert.Equal(t, uint(4), cartQuantity(t, svc, userID, product.ID))
}

func TestChangeProductAmount_ZeroStockRemovesLine(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedProduct(t, svc, 3)

	_, err := svc.AddItem(ctx, userID.String(), product.ID.String())
	require.NoError(t, err)

	// product sells out elsewhere before the cart update lands
	require.NoError(t, svc.Repo.DB.Model(&models.Product{}).
		Where("id = ?", product.ID).Update("quantity", 0).Error)

	amount := 2
	res, err := svc.ChangeProductAmount(ctx, userID.String(), product.ID.String(), &amount)
	require.NoError(t, err)

	assert.Equal(t, "Inventory limit reached!", res.Message)
	assert.Equal(t, uint(0), res.Quantity)
	assert.False(t, cartExists(t, svc, userID))
}

func TestRemoveCompleteItem_RemovesWholeLine(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	first := seedProduct(t, svc, 10)
	second := seedProduct(t, svc, 10)

	for i := 0; i < 4; i++ {
		_, err := svc.AddItem(ctx, userID.String(), first.ID.String())
		require.NoError(t, err)
	}
	_, err := svc.AddItem(ctx, userID.String(), second.ID.String())
	require.NoError(t, err)

	res, err := svc.RemoveCompleteItem(ctx, userID.String(), first.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Product removed from cart!", res.Message)
	assert.Equal(t, uint(0), cartQuantity(t, svc, userID, first.ID))
	assert.Equal(t, uint(1), cartQuantity(t, svc, userID, second.ID))
	assert.True(t, cartExists(t, svc, userID))
}

func TestRemoveCompleteItem_LastLineClearsCart(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedProduct(t, svc, 10)

	for i := 0; i < 4; i++ {
		_, err := svc.AddItem(ctx, userID.String(), product.ID.String())
		require.NoError(t, err)
	}

	res, err := svc.RemoveCompleteItem(ctx, userID.String(), product.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Cart cleared!", res.Message)
	assert.False(t, cartExists(t, svc, userID))
}

func TestRemoveCart(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedProduct(t, svc, 5)

	_, err := svc.AddItem(ctx, userID.String(), product.ID.String())
	require.NoError(t, err)

	res, err := svc.RemoveCart(ctx, userID.String())
	require.NoError(t, err)
	assert.Equal(t, "Cart removed successfully.", res.Message)
	assert.False(t, cartExists(t, svc, userID))

	// a second removal has nothing to delete
	_, err = svc.RemoveCart(ctx, userID.String())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveProductFromAllCarts(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	product := seedProduct(t, svc, 100)
	other := seedProduct(t, svc, 100)

	// three carts hold the product; one of them holds nothing else
	var users []uuid.UUID
	for i := 0; i < 3; i++ {
		userID := uuid.New()
		users = append(users, userID)
		_, err := svc.AddItem(ctx, userID.String(), product.ID.String())
		require.NoError(t, err)
		if i > 0 {
			_, err = svc.AddItem(ctx, userID.String(), other.ID.String())
			require.NoError(t, err)
		}
	}

	res, err := svc.RemoveProductFromAllCarts(ctx, product.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Product removed from all carts.", res.Message)

	for _, userID := range users {
		assert.Equal(t, uint(0), cartQuantity(t, svc, userID, product.ID))
	}

	// the single-line cart disappears, the others stay
	assert.False(t, cartExists(t, svc, users[0]))
	assert.True(t, cartExists(t, svc, users[1]))
	assert.True(t, cartExists(t, svc, users[2]))
}

func TestRemoveProductFromAllCarts_NotInAnyCart(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	product := seedProduct(t, svc, 5)

	res, err := svc.RemoveProductFromAllCarts(context.Background(), product.ID.String())
	require.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, res)
}

func TestGetCart_EmptyForUnknownUser(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	lines, err := svc.GetCart(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestGetCart_ResolvesProducts(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedProduct(t, svc, 5)

	_, err := svc.AddItem(ctx, userID.String(), product.ID.String())
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, userID.String(), product.ID.String())
	require.NoError(t, err)

	lines, err := svc.GetCart(ctx, userID.String())
	require.NoError(t, err)
	require.Len(t, lines, 1)

	assert.Equal(t, product.ID, lines[0].Product.ID)
	assert.Equal(t, product.Name, lines[0].Product.Name)
	assert.Equal(t, uint(2), lines[0].Quantity)
}

func TestGetCartProductQuantity(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedProduct(t, svc, 5)

	qty, err := svc.GetCartProductQuantity(ctx, userID.String(), product.ID.String())
	require.NoError(t, err)
	assert.Equal(t, uint(0), qty, "no cart yet")

	_, err = svc.AddItem(ctx, userID.String(), product.ID.String())
	require.NoError(t, err)

	qty, err = svc.GetCartProductQuantity(ctx, userID.String(), product.ID.String())
	require.NoError(t, err)
	assert.Equal(t, uint(1), qty)
}

func TestCartsAreIndependent(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	product := seedProduct(t, svc, 2)

	alice := uuid.New()
	bob := uuid.New()

	// both carts can reserve up to the full stock independently
	for i := 0; i < 2; i++ {
		res, err := svc.AddItem(ctx, alice.String(), product.ID.String())
		require.NoError(t, err)
		require.True(t, res.Success)

		res, err = svc.AddItem(ctx, bob.String(), product.ID.String())
		require.NoError(t, err)
		require.True(t, res.Success)
	}

	res, err := svc.AddItem(ctx, alice.String(), product.ID.String())
	require.NoError(t, err)
	assert.False(t, res.Success)
}
