package workshop

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
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Workshop{}))

	// no Mailer: delivery is skipped when mail is not configured
	return &Service{Repo: &repo.GormRepo{DB: db}}
}

func TestBook(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	userID := uuid.New()

	booked, err := svc.Book(context.Background(), userID, "Pottery basics", "Throwing on the wheel", "2026-09-12", "14:00")
	require.NoError(t, err)

	assert.Equal(t, models.WorkshopRequested, booked.Status)
	assert.Nil(t, booked.ArtisanID)
	assert.Equal(t, userID, booked.UserID)
}

func TestBook_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name                   string
		title, desc, date, slot string
	}{
		{name: "empty title", title: "", desc: "d", date: "2026-09-12", slot: "14:00"},
		{name: "empty description", title: "t", desc: "", date: "2026-09-12", slot: "14:00"},
		{name: "empty date", title: "t", desc: "d", date: "", slot: "14:00"},
		{name: "empty time", title: "t", desc: "d", date: "2026-09-12", slot: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Book(ctx, userID, tt.title, tt.desc, tt.date, tt.slot)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAccept(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	artisanID := uuid.New()

	booked, err := svc.Book(ctx, uuid.New(), "Woodcarving", "Spoons and bowls", "2026-10-01", "10:00")
	require.NoError(t, err)

	accepted, err := svc.Accept(ctx, booked.ID, artisanID)
	require.NoError(t, err)

	assert.Equal(t, models.WorkshopAccepted, accepted.Status)
	require.NotNil(t, accepted.ArtisanID)
	assert.Equal(t, artisanID, *accepted.ArtisanID)
}

func TestAccept_AlreadyClaimed(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	booked, err := svc.Book(ctx, uuid.New(), "Weaving", "Intro loom work", "2026-10-02", "11:00")
	require.NoError(t, err)

	_, err = svc.Accept(ctx, booked.ID, uuid.New())
	require.NoError(t, err)

	// the second artisan loses the claim
	_, err = svc.Accept(ctx, booked.ID, uuid.New())
	require.ErrorIs(t, err, ErrConflict)
}

func TestAccept_MissingWorkshop(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	_, err := svc.Accept(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, ErrConflict)
}

func TestListAvailable_ExcludesClaimed(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	artisanID := uuid.New()

	first, err := svc.Book(ctx, uuid.New(), "Glassblowing", "Beginner session", "2026-10-03", "09:00")
	require.NoError(t, err)
	second, err := svc.Book(ctx, uuid.New(), "Leatherwork", "Wallet class", "2026-10-04", "15:00")
	require.NoError(t, err)

	_, err = svc.Accept(ctx, first.ID, artisanID)
	require.NoError(t, err)

	available, err := svc.ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, second.ID, available[0].ID)

	mine, err := svc.ListAccepted(ctx, artisanID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)
}

func TestRemove(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	booked, err := svc.Book(ctx, uuid.New(), "Ceramics", "Glazing day", "2026-10-05", "13:00")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, booked.ID))
	require.ErrorIs(t, svc.Remove(ctx, booked.ID), ErrNotFound)
}
