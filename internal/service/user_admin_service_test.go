package service

import (
	"context"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserAdminTestService() (UserAdminService, *MockUserRepository, *MockOrderRepository) {
	userRepo := new(MockUserRepository)
	orderRepo := new(MockOrderRepository)
	service := NewUserAdminService(userRepo, orderRepo, newTestRecorder(), zerolog.Nop())
	return service, userRepo, orderRepo
}

func TestUserAdminService_List(t *testing.T) {
	ctx := context.Background()

	users := []model.User{
		{ID: uuid.New(), Username: "alice", Email: "alice@example.com", Role: model.RoleUser},
	}

	t.Run("Defaults applied", func(t *testing.T) {
		service, userRepo, _ := newUserAdminTestService()

		userRepo.On("List", ctx, "", 20, 0).Return(users, 45, nil)

		page, err := service.List(ctx, "", 0, 0)

		require.NoError(t, err)
		require.NotNil(t, page)
		assert.Equal(t, 45, page.TotalItems)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 20, page.PageSize)
		assert.Equal(t, users, page.Data)
	})

	t.Run("Keyword trimmed, offset computed", func(t *testing.T) {
		service, userRepo, _ := newUserAdminTestService()

		userRepo.On("List", ctx, "ali", 10, 10).Return(users, 11, nil)

		page, err := service.List(ctx, "  ali ", 2, 10)

		require.NoError(t, err)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 2, page.TotalPages)
	})

	t.Run("Page size capped", func(t *testing.T) {
		service, userRepo, _ := newUserAdminTestService()

		userRepo.On("List", ctx, "", 100, 0).Return(users, 1, nil)

		_, err := service.List(ctx, "", 1, 500)

		require.NoError(t, err)
		userRepo.AssertExpectations(t)
	})
}

func TestUserAdminService_GetByID(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Found", func(t *testing.T) {
		service, userRepo, _ := newUserAdminTestService()

		userRepo.On("GetByID", ctx, userID).Return(&model.User{ID: userID, Username: "alice"}, nil)

		user, err := service.GetByID(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
	})

	t.Run("Absent", func(t *testing.T) {
		service, userRepo, _ := newUserAdminTestService()

		userRepo.On("GetByID", ctx, userID).Return(nil, nil)

		user, err := service.GetByID(ctx, userID)

		require.Error(t, err)
		assert.Equal(t, model.ErrUserNotFound, err)
		assert.Nil(t, user)
	})
}

func TestUserAdminService_Create(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("Success with admin role", func(t *testing.T) {
		service, userRepo, _ := newUserAdminTestService()

		userRepo.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(nil)

		user, err := service.Create(ctx, &actor, &model.AdminUserRequest{
			Username: " bob ",
			Email:    "Bob@Example.com",
			Password: "s3cretpass",
			Role:     "Admin",
		})

		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "bob", user.Username)
		assert.Equal(t, "bob@example.com", user.Email)
		assert.Equal(t, model.RoleAdmin, user.Role)
		assert.True(t, user.IsActive)
		assert.NotEqual(t, "s3cretpass", user.PasswordHash)

		userRepo.AssertExpectations(t)
	})

	t.Run("Role defaults to customer", func(t *testing.T) {
		service, userRepo, _ := newUserAdminTestService()

		userRepo.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(nil)

		user, err := service.Create(ctx, &actor, &model.AdminUserRequest{
			Username: "bob",
			Email:    "bob@example.com",
			Password: "s3cretpass",
		})

		require.NoError(t, err)
		assert.Equal(t, model.RoleUser, user.Role)
	})

	t.Run("Unknown role rejected", func(t *testing.T) {
		service, userRepo, _ := newUserAdminTestService()

		user, err := service.Create(ctx, &actor, &model.AdminUserRequest{
			Username: "bob",
			Email:    "bob@example.com",
			Password: "s3cretpass",
			Role:     "superuser",
		})

		require.Error(t, err)
		assert.Nil(t, user)
		userRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Inactive on request", func(t *testing.T) {
		service, userRepo, _ := newUserAdminTestService()

		userRepo.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(nil)

		inactive := false
		user, err := service.Create(ctx, &actor, &model.AdminUserRequest{
			Username: "bob",
			Email:    "bob@example.com",
			Password: "s3cretpass",
			IsActive: &inactive,
		})

		require.NoError(t, err)
		assert.False(t, user.IsActive)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		service, userRepo, _ := newUserAdminTestService()

		userRepo.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(model.ErrEmailTaken)

		user, err := service.Create(ctx, &actor, &model.AdminUserRequest{
			Username: "bob",
			Email:    "bob@example.com",
			Password: "s3cretpass",
		})

		require.Error(t, err)
		assert.Equal(t, model.ErrEmailTaken, err)
		assert.Nil(t, user)
	})

	t.Run("Short password", func(t *testing.T) {
		service, userRepo, _ := newUserAdminTestService()

		user, err := service.Create(ctx, &actor, &model.AdminUserRequest{
			Username: "bob",
			Email:    "bob@example.com",
			Password: "short",
		})

		require.Error(t, err)
		assert.Nil(t, user)
		userRepo.AssertNotCalled(t, "Create")
	})
}

func TestUserAdminService_Update(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()
	userID := uuid.New()

	existing := func() *model.User {
		hash, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.MinCost)
		return &model.User{
			ID:           userID,
			Username:     "bob",
			Email:        "bob@example.com",
			PasswordHash: string(hash),
			Role:         model.RoleUser,
			IsActive:     true,
			CreatedAt:    time.Now().Add(-time.Hour),
			UpdatedAt:    time.Now().Add(-time.Hour),
		}
	}

	t.Run("Fields updated, password kept", func(t *testing.T) {
		service, userRepo, _ := newUserAdminTestService()

		before := existing()
		userRepo.On("GetByID", ctx, userID).Return(before, nil)
		userRepo.On("Update", ctx, mock.AnythingOfType("*model.User")).Return(nil)

		user, err := service.Update(ctx, &actor, userID, &model.AdminUserRequest{
			Username: "robert",
			Email:    "Robert@Example.com",
		})

		require.NoError(t, err)
		assert.Equal(t, "robert", user.Username)
		assert.Equal(t, "robert@example.com", user.Email)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("oldpassword")))
	})

	t.Run("New password rehashed", func(t *testing.T) {
		service, userRepo, _ := newUserAdminTestService()

		userRepo.On("GetByID", ctx, userID).Return(existing(), nil)
		userRepo.On("Update", ctx, mock.AnythingOfType("*model.User")).Return(nil)

		user, err := service.Update(ctx, &actor, userID, &model.AdminUserRequest{
			Password: "newpassword",
		})

		require.NoError(t, err)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("newpassword")))
	})

	t.Run("Absent user", func(t *testing.T) {
		service, userRepo, _ := newUserAdminTestService()

		userRepo.On("GetByID", ctx, userID).Return(nil, nil)

		user, err := service.Update(ctx, &actor, userID, &model.AdminUserRequest{Username: "x"})

		require.Error(t, err)
		assert.Equal(t, model.ErrUserNotFound, err)
		assert.Nil(t, user)
		userRepo.AssertNotCalled(t, "Update")
	})

	t.Run("Email taken by another account", func(t *testing.T) {
		service, userRepo, _ := newUserAdminTestService()

		userRepo.On("GetByID", ctx, userID).Return(existing(), nil)
		userRepo.On("Update", ctx, mock.AnythingOfType("*model.User")).Return(model.ErrEmailTaken)

		user, err := service.Update(ctx, &actor, userID, &model.AdminUserRequest{
			Email: "taken@example.com",
		})

		require.Error(t, err)
		assert.Equal(t, model.ErrEmailTaken, err)
		assert.Nil(t, user)
	})

	t.Run("Deactivation", func(t *testing.T) {
		service, userRepo, _ := newUserAdminTestService()

		userRepo.On("GetByID", ctx, userID).Return(existing(), nil)
		userRepo.On("Update", ctx, mock.AnythingOfType("*model.User")).Return(nil)

		inactive := false
		user, err := service.Update(ctx, &actor, userID, &model.AdminUserRequest{IsActive: &inactive})

		require.NoError(t, err)
		assert.False(t, user.IsActive)
	})
}

func TestUserAdminService_Delete(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()
	userID := uuid.New()

	existing := &model.User{ID: userID, Username: "bob", Email: "bob@example.com", Role: model.RoleUser}

	t.Run("No orders deletes", func(t *testing.T) {
		service, userRepo, orderRepo := newUserAdminTestService()

		userRepo.On("GetByID", ctx, userID).Return(existing, nil)
		orderRepo.On("ExistsForUser", ctx, userID).Return(false, nil)
		userRepo.On("Delete", ctx, userID).Return(nil)

		require.NoError(t, service.Delete(ctx, &actor, userID))
		userRepo.AssertExpectations(t)
	})

	t.Run("Order history blocks deletion", func(t *testing.T) {
		service, userRepo, orderRepo := newUserAdminTestService()

		userRepo.On("GetByID", ctx, userID).Return(existing, nil)
		orderRepo.On("ExistsForUser", ctx, userID).Return(true, nil)

		err := service.Delete(ctx, &actor, userID)

		require.Error(t, err)
		var domainErr *model.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, model.ErrCodeValidationFailed, domainErr.Code)
		userRepo.AssertNotCalled(t, "Delete")
	})

	t.Run("Absent user", func(t *testing.T) {
		service, userRepo, orderRepo := newUserAdminTestService()

		userRepo.On("GetByID", ctx, userID).Return(nil, nil)

		err := service.Delete(ctx, &actor, userID)

		require.Error(t, err)
		assert.Equal(t, model.ErrUserNotFound, err)
		orderRepo.AssertNotCalled(t, "ExistsForUser")
	})
}

func TestUserAdminService_SetActiveBatch(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("Deactivates several accounts", func(t *testing.T) {
		service, userRepo, _ := newUserAdminTestService()

		ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
		userRepo.On("SetActiveBatch", ctx, ids, false).Return(3, nil)

		updated, err := service.SetActiveBatch(ctx, &actor, ids, false)

		require.NoError(t, err)
		assert.Equal(t, 3, updated)
	})

	t.Run("Unknown ids are skipped in the count", func(t *testing.T) {
		service, userRepo, _ := newUserAdminTestService()

		ids := []uuid.UUID{uuid.New(), uuid.New()}
		userRepo.On("SetActiveBatch", ctx, ids, true).Return(1, nil)

		updated, err := service.SetActiveBatch(ctx, &actor, ids, true)

		require.NoError(t, err)
		assert.Equal(t, 1, updated)
	})

	t.Run("Empty id list rejected", func(t *testing.T) {
		service, userRepo, _ := newUserAdminTestService()

		updated, err := service.SetActiveBatch(ctx, &actor, nil, true)

		require.Error(t, err)
		assert.Zero(t, updated)
		userRepo.AssertNotCalled(t, "SetActiveBatch")
	})
}
