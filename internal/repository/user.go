package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/ambulance_dispatch_system/internal/models"
	"github.com/shenikar/ambulance_dispatch_system/internal/service"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) service.UserRepository {
	return &UserRepository{
		db: db,
	}
}

// FindByCredentials возвращает пользователей с совпавшей парой email/пароль.
// Сравнение открытым текстом повторяет контракт унаследованного хранилища,
// ожидается ноль или одно совпадение.
func (r *UserRepository) FindByCredentials(ctx context.Context, email, password string) ([]*models.User, error) {
	query := `
		SELECT id, email, name, role, password
		FROM users
		WHERE email = $1 AND password = $2;
	`
	rows, err := r.db.Query(ctx, query, email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by credentials: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Name,
			&user.Role,
			&user.Password,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return users, nil
}
