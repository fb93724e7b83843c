package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/shenikar/ambulance_dispatch_system/internal/models"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=auth.go -destination=mocks/mock_auth.go -package=mocks

// UserRepository определяет контракт для работы с хранилищем пользователей
type UserRepository interface {
	// FindByCredentials возвращает пользователей с совпавшей парой
	// email/пароль: пустой срез при отсутствии совпадений. Сравнение
	// паролей открытым текстом - унаследованный контракт хранилища,
	// безопасность вне рамок системы.
	FindByCredentials(ctx context.Context, email, password string) ([]*models.User, error)
}

// SessionStore определяет контракт для хранилища сессий
type SessionStore interface {
	Save(ctx context.Context, token string, user models.User, ttl time.Duration) error
	Get(ctx context.Context, token string) (*models.User, error)
	Delete(ctx context.Context, token string) error
}

// AuthService определяет контракт аутентификации и сессий
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*models.User, error)
	LookupUsers(ctx context.Context, email, password string) ([]*models.User, error)
}

type authService struct {
	users      UserRepository
	sessions   SessionStore
	sessionTTL time.Duration
	logger     *logrus.Logger
}

func NewAuthService(users UserRepository, sessions SessionStore, sessionTTL time.Duration, logger *logrus.Logger) AuthService {
	return &authService{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Login проверяет учетные данные и открывает сессию. В сессии сохраняется
// пользователь с уже удаленным паролем.
func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "Login",
		"email":   email,
	})

	matches, err := s.users.FindByCredentials(ctx, email, password)
	if err != nil {
		log.WithError(err).Error("Failed to look up user credentials")
		return nil, "", fmt.Errorf("service: could not check credentials: %w", err)
	}
	if len(matches) == 0 {
		log.Warn("Login failed: no matching user")
		return nil, "", ErrInvalidCredentials
	}

	user := matches[0].Sanitized()

	token, err := newSessionToken()
	if err != nil {
		log.WithError(err).Error("Failed to generate session token")
		return nil, "", fmt.Errorf("service: could not create session: %w", err)
	}

	if err := s.sessions.Save(ctx, token, user, s.sessionTTL); err != nil {
		log.WithError(err).Error("Failed to save session")
		return nil, "", fmt.Errorf("service: could not save session: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User logged in")
	return &user, token, nil
}

// Logout закрывает сессию
func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "auth",
			"method":  "Logout",
		}).WithError(err).Error("Failed to delete session")
		return fmt.Errorf("service: could not delete session: %w", err)
	}
	return nil
}

// Authenticate возвращает пользователя активной сессии по токену
func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	user, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// LookupUsers обслуживает унаследованный эндпоинт проверки учетных данных
// GET /users?email=&password=: список без паролей, пустой при несовпадении
func (s *authService) LookupUsers(ctx context.Context, email, password string) ([]*models.User, error) {
	matches, err := s.users.FindByCredentials(ctx, email, password)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "auth",
			"method":  "LookupUsers",
			"email":   email,
		}).WithError(err).Error("Failed to look up users")
		return nil, fmt.Errorf("service: could not look up users: %w", err)
	}

	sanitized := make([]*models.User, len(matches))
	for i, u := range matches {
		clean := u.Sanitized()
		sanitized[i] = &clean
	}
	return sanitized, nil
}

// newSessionToken генерирует криптографически случайный токен сессии
func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
