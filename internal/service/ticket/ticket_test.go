package ticket

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

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.SupportTicket{}))

	return &Service{Repo: &repo.GormRepo{DB: db}}
}

func seedUser(t *testing.T, svc *Service) *models.User {
	t.Helper()

	user := &models.User{
		Username:     "reporter-" + uuid.NewString()[:8],
		Name:         "Test Reporter",
		Email:        uuid.NewString() + "@example.com",
		MobileNo:     "5550001111",
		PasswordHash: "irrelevant",
		Role:         models.RoleCustomer,
	}
	require.NoError(t, svc.Repo.DB.Create(user).Error)
	return user
}

func TestAdd(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	user := seedUser(t, svc)

	created, err := svc.Add(context.Background(), user.ID, "Broken mug", "delivery", "Arrived in pieces")
	require.NoError(t, err)

	assert.Equal(t, models.TicketOpen, created.Status)
	assert.NotZero(t, created.CreatedAt)
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestAdd_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name        string
		subject     string
		category    string
		description string
	}{
		{name: "empty subject", subject: "", category: "delivery", description: "text"},
		{name: "empty category", subject: "subj", category: "", description: "text"},
		{name: "empty description", subject: "subj", category: "delivery", description: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(ctx, userID, tt.subject, tt.category, tt.description)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestList_ResolvesReporter(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, svc)

	_, err := svc.Add(ctx, user.ID, "Late parcel", "delivery", "Two weeks now")
	require.NoError(t, err)

	views, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)

	assert.Equal(t, user.Username, views[0].User.Username)
	assert.Equal(t, user.Email, views[0].User.Email)
}

func TestList_DeletedReporterPlaceholder(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, svc)

	_, err := svc.Add(ctx, user.ID, "Refund status", "billing", "No answer yet")
	require.NoError(t, err)

	// the ticket outlives the account
	require.NoError(t, svc.Repo.DB.Delete(user).Error)

	views, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)

	assert.Equal(t, "Deleted User", views[0].User.Username)
	assert.Equal(t, "N/A", views[0].User.Email)
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, svc)

	created, err := svc.Add(ctx, user.ID, "Question", "general", "How do I track my order?")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, created.ID, models.TicketResolved))

	var after models.SupportTicket
	require.NoError(t, svc.Repo.DB.First(&after, "id = ?", created.ID).Error)
	assert.Equal(t, models.TicketResolved, after.Status)
}

func TestUpdateStatus_Errors(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	err := svc.UpdateStatus(ctx, uuid.New(), "escalated")
	require.ErrorIs(t, err, ErrValidation)

	err = svc.UpdateStatus(ctx, uuid.New(), models.TicketResolved)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, svc)

	created, err := svc.Add(ctx, user.ID, "Spam", "general", "delete me")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, created.ID))
	require.ErrorIs(t, svc.Remove(ctx, created.ID), ErrNotFound)
}
