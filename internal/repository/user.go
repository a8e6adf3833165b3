package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/zhilfond/housing-registry/internal/domain/model"
)

// UserRepository — доступ к таблице учётных записей users.
type UserRepository interface {
	// Create создаёт учётную запись.
	Create(ctx context.Context, user *model.User) error
	// GetByID возвращает учётную запись по id.
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetByUsername возвращает учётную запись по имени пользователя.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// ExistsForTenant проверяет, привязана ли к жильцу учётная запись.
	ExistsForTenant(ctx context.Context, tenantID int64) (bool, error)
}

// userRepo — реализация UserRepository.
type userRepo struct {
	db DBTX
}

// NewUserRepository создаёт репозиторий учётных записей.
func NewUserRepository(db DBTX) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, role, tenant_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		user.Username, user.PasswordHash, user.Role, user.TenantID,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: имя пользователя или жилец уже заняты", ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: жилец не найден", ErrNotFound)
		}
		return fmt.Errorf("ошибка создания учётной записи: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRow(ctx,
		`SELECT id, username, password_hash, role, tenant_id
		 FROM users
		 WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.TenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения учётной записи: %w", err)
	}
	return user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRow(ctx,
		`SELECT id, username, password_hash, role, tenant_id
		 FROM users
		 WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.TenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения учётной записи: %w", err)
	}
	return user, nil
}

func (r *userRepo) ExistsForTenant(ctx context.Context, tenantID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE tenant_id = $1)`,
		tenantID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки привязки жильца: %w", err)
	}
	return exists, nil
}
