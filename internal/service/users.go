package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zhilfond/housing-registry/internal/domain/model"
	"github.com/zhilfond/housing-registry/internal/domain/rbac"
	"github.com/zhilfond/housing-registry/internal/repository"
	"github.com/zhilfond/housing-registry/internal/ui/auth"
)

// RegisterForm — данные формы самостоятельной регистрации.
type RegisterForm struct {
	Username string
	Password string
	FullName string
}

// UserService — учётные записи: регистрация и аутентификация.
type UserService struct {
	users   repository.UserRepository
	tenants repository.TenantRepository
	logger  *slog.Logger
}

// NewUserService создаёт сервис учётных записей.
func NewUserService(
	users repository.UserRepository,
	tenants repository.TenantRepository,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:   users,
		tenants: tenants,
		logger:  logger.With(slog.String("component", "user_service")),
	}
}

// Register создаёт учётную запись обычного пользователя, привязанную
// к жильцу реестра. Проверки идут по порядку: формат имени, свободно ли
// имя пользователя, есть ли такой жилец, не занят ли он другой учётной
// записью. Первая провалившаяся проверка и есть ошибка пользователю.
func (s *UserService) Register(ctx context.Context, form RegisterForm) (*model.User, error) {
	username := strings.TrimSpace(form.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: не указано имя пользователя", ErrValidation)
	}
	if form.Password == "" {
		return nil, fmt.Errorf("%w: не указан пароль", ErrValidation)
	}

	firstName, lastName, err := ParseFullName(form.FullName)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: имя пользователя %q занято", ErrConflict, username)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, s.storageError("проверка имени пользователя", err)
	}

	tenant, err := s.tenants.FindByName(ctx, firstName, lastName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: жилец %s %s не найден в реестре", ErrValidation, firstName, lastName)
		}
		return nil, s.storageError("поиск жильца", err)
	}

	taken, err := s.users.ExistsForTenant(ctx, tenant.ID)
	if err != nil {
		return nil, s.storageError("проверка привязки жильца", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: жилец уже привязан к другой учётной записи", ErrConflict)
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		return nil, fmt.Errorf("хеширование пароля: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         rbac.RoleUser,
		TenantID:     &tenant.ID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: имя пользователя %q занято", ErrConflict, username)
		}
		return nil, s.storageError("создание учётной записи", err)
	}

	s.logger.Info("Пользователь зарегистрирован",
		slog.String("username", username),
		slog.Int64("tenant_id", tenant.ID),
	)
	return user, nil
}

// Authenticate проверяет имя пользователя и пароль. Неверные данные
// не различаются: та же ошибка и для неизвестного имени, и для
// неверного пароля.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, s.storageError("поиск учётной записи", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("Пользователь вошёл", slog.String("username", user.Username))
	return user, nil
}

// CreateAdmin создаёт учётную запись администратора без привязки
// к жильцу. Используется служебной утилитой create-admin.
func (s *UserService) CreateAdmin(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: не указано имя пользователя", ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: не указан пароль", ErrValidation)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("хеширование пароля: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         rbac.RoleAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: имя пользователя %q занято", ErrConflict, username)
		}
		return nil, s.storageError("создание администратора", err)
	}

	s.logger.Info("Администратор создан", slog.String("username", username))
	return user, nil
}

func (s *UserService) storageError(op string, err error) error {
	s.logger.Error("Ошибка хранилища",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("%w: %s", ErrStorageUnavailable, op)
}
