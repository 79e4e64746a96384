package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Enejivk/cleary-chat-Backend/internal/index"
	"github.com/Enejivk/cleary-chat-Backend/internal/model"
	"github.com/Enejivk/cleary-chat-Backend/internal/pkg/jwt"
	"github.com/Enejivk/cleary-chat-Backend/internal/repository"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Document{},
		&model.ChatBot{},
		&model.ChatMessage{},
	))
	return db
}

type deleteRecordingIndex struct {
	fakeIndex
	deletedUsers []uuid.UUID
}

func (f *deleteRecordingIndex) DeleteByUser(ctx context.Context, collection string, userID uuid.UUID) error {
	f.deletedUsers = append(f.deletedUsers, userID)
	return nil
}

func newTestAuthService(t *testing.T) (*AuthService, *deleteRecordingIndex, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t)
	idx := &deleteRecordingIndex{}
	svc := NewAuthService(
		repository.NewUserRepository(db),
		jwt.NewManager("test-secret", 30),
		idx,
		"documents",
	)
	return svc, idx, db
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Email:           "ada@example.com",
		Password:        "correct horse",
		ConfirmPassword: "correct horse",
		Name:            "Ada",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegisterInput())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "correct horse", user.PasswordHash, "password must be stored hashed")

	resp, err := svc.Login(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 30*60, resp.ExpiresIn)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	input := validRegisterInput()
	input.ConfirmPassword = "something else"
	_, err := svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	_, err = svc.Register(ctx, validRegisterInput())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ada@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "unknown@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, user.ID, "Ada Lovelace", "first programmer")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.Name)
	assert.Equal(t, "first programmer", updated.Bio)

	// Empty fields leave the current values alone.
	updated, err = svc.UpdateProfile(ctx, user.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.Name)
	assert.Equal(t, "first programmer", updated.Bio)
}

func TestDeleteAccountPurgesIndex(t *testing.T) {
	svc, idx, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, user.ID))
	assert.Equal(t, []uuid.UUID{user.ID}, idx.deletedUsers)

	_, err = svc.GetCurrentUser(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.DeleteAccount(ctx, user.ID), ErrNotFound)
}

func TestReregisterAfterDelete(t *testing.T) {
	svc, _, db := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegisterInput())
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAccount(ctx, user.ID))

	// The email is free again: account rows are gone, not hidden behind a
	// soft-delete marker that would keep the unique index entry alive.
	again, err := svc.Register(ctx, validRegisterInput())
	require.NoError(t, err)
	assert.NotEqual(t, user.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Where("email = ?", again.Email).Count(&count).Error)
	assert.Equal(t, int64(1), count, "exactly one physical row for the email")
}

var _ index.Index = (*deleteRecordingIndex)(nil)
