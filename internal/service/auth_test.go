package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shenikar/ambulance_dispatch_system/internal/models"
	"github.com/shenikar/ambulance_dispatch_system/internal/service"
	"github.com/shenikar/ambulance_dispatch_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSessionTTL = 12 * time.Hour

// newTestAuthService - вспомогательная функция для создания сервиса с моками
func newTestAuthService(t *testing.T) (service.AuthService, *mocks.MockUserRepository, *mocks.MockSessionStore) {
	ctrl := gomock.NewController(t)
	usersMock := mocks.NewMockUserRepository(ctrl)
	sessionsMock := mocks.NewMockSessionStore(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	svc := service.NewAuthService(usersMock, sessionsMock, testSessionTTL, logger)
	return svc, usersMock, sessionsMock
}

func TestLogin_Success(t *testing.T) {
	// Подготовка
	svc, usersMock, sessionsMock := newTestAuthService(t)
	ctx := context.Background()

	stored := &models.User{
		ID:       "u-regulator-1",
		Email:    "regulateur@resq.ma",
		Name:     "Régulateur",
		Role:     models.RoleRegulator,
		Password: "regulateur123",
	}

	// Ожидания
	usersMock.EXPECT().
		FindByCredentials(ctx, "regulateur@resq.ma", "regulateur123").
		Return([]*models.User{stored}, nil).
		Times(1)

	var savedUser models.User
	sessionsMock.EXPECT().
		Save(ctx, gomock.Any(), gomock.Any(), testSessionTTL).
		DoAndReturn(func(_ context.Context, token string, user models.User, _ time.Duration) error {
			assert.NotEmpty(t, token)
			savedUser = user
			return nil
		}).
		Times(1)

	// Действие
	user, token, err := svc.Login(ctx, "regulateur@resq.ma", "regulateur123")

	// Проверки
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "u-regulator-1", user.ID)
	assert.Equal(t, models.RoleRegulator, user.Role)

	// Пароль удален и из ответа, и из сохраненной сессии
	assert.Empty(t, user.Password)
	assert.Empty(t, savedUser.Password)
}

func TestLogin_WrongPassword(t *testing.T) {
	// Неверный пароль и неизвестный email неразличимы: хранилище возвращает
	// пустой список совпадений
	svc, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()

	usersMock.EXPECT().
		FindByCredentials(ctx, "regulateur@resq.ma", "wrong").
		Return([]*models.User{}, nil).
		Times(1)

	user, token, err := svc.Login(ctx, "regulateur@resq.ma", "wrong")

	require.ErrorIs(t, err, service.ErrInvalidCredentials)
	assert.Nil(t, user)
	assert.Empty(t, token)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()

	usersMock.EXPECT().
		FindByCredentials(ctx, "nobody@resq.ma", "whatever").
		Return(nil, nil).
		Times(1)

	user, token, err := svc.Login(ctx, "nobody@resq.ma", "whatever")

	require.ErrorIs(t, err, service.ErrInvalidCredentials)
	assert.Nil(t, user)
	assert.Empty(t, token)
}

func TestLogin_RepositoryError(t *testing.T) {
	svc, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()
	repoErr := errors.New("db down")

	usersMock.EXPECT().
		FindByCredentials(ctx, "regulateur@resq.ma", "regulateur123").
		Return(nil, repoErr).
		Times(1)

	_, _, err := svc.Login(ctx, "regulateur@resq.ma", "regulateur123")

	require.Error(t, err)
	assert.ErrorIs(t, err, repoErr)
	assert.NotErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogout_DeletesSession(t *testing.T) {
	svc, _, sessionsMock := newTestAuthService(t)
	ctx := context.Background()

	sessionsMock.EXPECT().
		Delete(ctx, "token-1").
		Return(nil).
		Times(1)

	require.NoError(t, svc.Logout(ctx, "token-1"))
}

func TestAuthenticate_SessionNotFound(t *testing.T) {
	svc, _, sessionsMock := newTestAuthService(t)
	ctx := context.Background()

	sessionsMock.EXPECT().
		Get(ctx, "expired").
		Return(nil, service.ErrSessionNotFound).
		Times(1)

	user, err := svc.Authenticate(ctx, "expired")

	require.ErrorIs(t, err, service.ErrSessionNotFound)
	assert.Nil(t, user)
}

func TestLookupUsers_StripsPasswords(t *testing.T) {
	// Подготовка
	svc, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()

	usersMock.EXPECT().
		FindByCredentials(ctx, "parc@resq.ma", "parc123").
		Return([]*models.User{
			{ID: "u-fleet-1", Email: "parc@resq.ma", Role: models.RoleFleetManager, Password: "parc123"},
		}, nil).
		Times(1)

	// Действие
	users, err := svc.LookupUsers(ctx, "parc@resq.ma", "parc123")

	// Проверки
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u-fleet-1", users[0].ID)
	assert.Empty(t, users[0].Password)
}

func TestLookupUsers_NoMatchReturnsEmptyList(t *testing.T) {
	svc, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()

	usersMock.EXPECT().
		FindByCredentials(ctx, "parc@resq.ma", "wrong").
		Return(nil, nil).
		Times(1)

	users, err := svc.LookupUsers(ctx, "parc@resq.ma", "wrong")

	require.NoError(t, err)
	assert.Empty(t, users)
}
