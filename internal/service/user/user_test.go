package user

import (
	"context"
	"fmt"
	"testing"

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
		&models.User{},
		&models.RefreshToken{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Workshop{},
		&models.CustomRequest{},
		&models.SupportTicket{},
	))

	gormRepo := &repo.GormRepo{DB: db}
	return &Service{Repo: gormRepo}, &cart.Service{Repo: gormRepo}
}

func seedUser(t *testing.T, svc *Service, role string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     "u-" + uuid.NewString()[:8],
		Name:         "Test User",
		Email:        uuid.NewString() + "@example.com",
		MobileNo:     "5550002222",
		PasswordHash: "irrelevant",
		Role:         role,
	}
	require.NoError(t, svc.Repo.DB.Create(user).Error)
	return user
}

func TestGetByID(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	user := seedUser(t, svc, models.RoleCustomer)

	found, err := svc.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, found.Username)

	_, err = svc.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListByRole(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	seedUser(t, svc, models.RoleArtisan)
	seedUser(t, svc, models.RoleArtisan)
	seedUser(t, svc, models.RoleCustomer)

	artisans, err := svc.ListByRole(context.Background(), models.RoleArtisan)
	require.NoError(t, err)
	assert.Len(t, artisans, 2)
}

func TestDelete_MissingUser(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	err := svc.Delete(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

// Deleting an artisan has the widest blast radius: their products must
// vanish from every customer's cart, and carts left empty by that go too.
func TestDelete_ArtisanCascade(t *testing.T) {
	t.Parallel()

	svc, carts := newTestService(t)
	ctx := context.Background()

	artisan := seedUser(t, svc, models.RoleArtisan)
	customer := seedUser(t, svc, models.RoleCustomer)

	product := &models.Product{
		ArtisanID:   artisan.ID,
		Name:        "Hand-thrown vase",
		Category:    "ceramics",
		Description: "Stoneware",
		OldPrice:    80,
		NewPrice:    70,
		Quantity:    5,
		Status:      models.ProductApproved,
	}
	require.NoError(t, svc.Repo.DB.Create(product).Error)

	res, err := carts.AddItem(ctx, customer.ID.String(), product.ID.String())
	require.NoError(t, err)
	require.True(t, res.Success)

	require.NoError(t, svc.Delete(ctx, artisan.ID))

	_, err = svc.GetByID(ctx, artisan.ID)
	require.ErrorIs(t, err, ErrNotFound)

	var productCount int64
	require.NoError(t, svc.Repo.DB.Model(&models.Product{}).Where("artisan_id = ?", artisan.ID).Count(&productCount).Error)
	assert.Zero(t, productCount)

	// the customer's cart held only that product, so it is gone entirely
	lines, err := carts.GetCart(ctx, customer.ID.String())
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = svc.Repo.CartByUser(ctx, nil, customer.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDelete_ReleasesClaimedWork(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	artisan := seedUser(t, svc, models.RoleArtisan)
	customer := seedUser(t, svc, models.RoleCustomer)

	workshop := &models.Workshop{
		UserID:    customer.ID,
		ArtisanID: &artisan.ID,
		Title:     "Pottery basics",
		Desc:      "Wheel work",
		Date:      "2026-09-20",
		Time:      "10:00",
		Status:    models.WorkshopAccepted,
	}
	require.NoError(t, svc.Repo.DB.Create(workshop).Error)

	request := &models.CustomRequest{
		UserID:      customer.ID,
		ArtisanID:   &artisan.ID,
		Title:       "Custom dinner set",
		Type:        "ceramics",
		Description: "Eight plates",
		Budget:      400,
		RequiredBy:  "2026-11-01",
		IsAccepted:  true,
	}
	require.NoError(t, svc.Repo.DB.Create(request).Error)

	require.NoError(t, svc.Delete(ctx, artisan.ID))

	// the customer's bookings survive, released back to the pool
	var w models.Workshop
	require.NoError(t, svc.Repo.DB.First(&w, "id = ?", workshop.ID).Error)
	assert.Nil(t, w.ArtisanID)
	assert.Equal(t, models.WorkshopRequested, w.Status)

	var r models.CustomRequest
	require.NoError(t, svc.Repo.DB.First(&r, "id = ?", request.ID).Error)
	assert.Nil(t, r.ArtisanID)
	assert.False(t, r.IsAccepted)
}

func TestDelete_CustomerOwnedRecordsGo(t *testing.T) {
	t.Parallel()

	svc, carts := newTestService(t)
	ctx := context.Background()

	artisan := seedUser(t, svc, models.RoleArtisan)
	customer := seedUser(t, svc, models.RoleCustomer)

	product := &models.Product{
		ArtisanID:   artisan.ID,
		Name:        "Walnut board",
		Category:    "woodwork",
		Description: "End grain",
		OldPrice:    60,
		NewPrice:    55,
		Quantity:    3,
		Status:      models.ProductApproved,
	}
	require.NoError(t, svc.Repo.DB.Create(product).Error)

	_, err := carts.AddItem(ctx, customer.ID.String(), product.ID.String())
	require.NoError(t, err)

	ticket := &models.SupportTicket{
		UserID:      customer.ID,
		Subject:     "Where is my order",
		Category:    "delivery",
		Description: "It has been a while",
	}
	require.NoError(t, svc.Repo.DB.Create(ticket).Error)

	require.NoError(t, svc.Delete(ctx, customer.ID))

	_, err = svc.Repo.CartByUser(ctx, nil, customer.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var ticketCount int64
	require.NoError(t, svc.Repo.DB.Model(&models.SupportTicket{}).Where("user_id = ?", customer.ID).Count(&ticketCount).Error)
	assert.Zero(t, ticketCount)

	// the artisan's product is untouched
	var after models.Product
	require.NoError(t, svc.Repo.DB.First(&after, "id = ?", product.ID).Error)
	assert.Equal(t, uint(3), after.Quantity)
}
