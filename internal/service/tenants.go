package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/zhilfond/housing-registry/internal/domain/model"
	"github.com/zhilfond/housing-registry/internal/domain/rbac"
	"github.com/zhilfond/housing-registry/internal/repository"
)

// registrationDateLayout — формат даты регистрации из HTML-формы
// (input type="date").
const registrationDateLayout = "2006-01-02"

// TenantForm — данные формы добавления/редактирования жильца.
type TenantForm struct {
	FullName         string
	ApartmentID      int64
	PassportSeries   string
	PassportNumber   string
	Phone            string
	RegistrationDate string
}

// TenantService — операции над жильцами с учётом прав доступа.
type TenantService struct {
	tenants repository.TenantRepository
	logger  *slog.Logger
}

// NewTenantService создаёт сервис жильцов.
func NewTenantService(tenants repository.TenantRepository, logger *slog.Logger) *TenantService {
	return &TenantService{
		tenants: tenants,
		logger:  logger.With(slog.String("component", "tenant_service")),
	}
}

// ParseFullName разбивает полное имя на имя и фамилию по первому пробелу.
// Имя из одного слова — ошибка валидации: для связи с учётной записью
// нужны обе части.
func ParseFullName(fullName string) (firstName, lastName string, err error) {
	trimmed := strings.TrimSpace(fullName)
	if trimmed == "" {
		return "", "", fmt.Errorf("%w: не указано имя жильца", ErrValidation)
	}
	first, rest, found := strings.Cut(trimmed, " ")
	if !found || strings.TrimSpace(rest) == "" {
		return "", "", fmt.Errorf("%w: укажите имя и фамилию через пробел", ErrValidation)
	}
	return first, strings.TrimSpace(rest), nil
}

// parseTenantForm валидирует форму жильца.
func parseTenantForm(form TenantForm) (*model.Tenant, error) {
	firstName, lastName, err := ParseFullName(form.FullName)
	if err != nil {
		return nil, err
	}

	if form.ApartmentID <= 0 {
		return nil, fmt.Errorf("%w: не выбрана квартира", ErrValidation)
	}

	passportNumber := strings.TrimSpace(form.PassportNumber)
	if passportNumber == "" {
		return nil, fmt.Errorf("%w: не указан номер паспорта", ErrValidation)
	}

	regDate, err := time.Parse(registrationDateLayout, strings.TrimSpace(form.RegistrationDate))
	if err != nil {
		return nil, fmt.Errorf("%w: неверный формат даты регистрации", ErrValidation)
	}

	tenant := &model.Tenant{
		ApartmentID:      form.ApartmentID,
		FirstName:        firstName,
		LastName:         lastName,
		PassportNumber:   passportNumber,
		RegistrationDate: regDate,
	}
	if series := strings.TrimSpace(form.PassportSeries); series != "" {
		tenant.PassportSeries = &series
	}
	if phone := strings.TrimSpace(form.Phone); phone != "" {
		tenant.Phone = &phone
	}
	return tenant, nil
}

// List возвращает жильцов, видимых пользователю: администратор видит всех,
// обычный пользователь — только связанного с собой жильца.
func (s *TenantService) List(ctx context.Context, role string, linkedTenantID *int64) ([]model.TenantWithAddress, error) {
	scope, tenantID := rbac.VisibleTenants(role, linkedTenantID)
	switch scope {
	case rbac.ScopeAll:
		tenants, err := s.tenants.ListAll(ctx)
		if err != nil {
			return nil, s.storageError("получение списка жильцов", err)
		}
		return tenants, nil
	case rbac.ScopeOwn:
		tenant, err := s.tenants.GetWithAddress(ctx, tenantID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Связанный жилец удалён — показываем пустой список.
				return nil, nil
			}
			return nil, s.storageError("получение жильца", err)
		}
		return []model.TenantWithAddress{*tenant}, nil
	default:
		return nil, nil
	}
}

// Get возвращает жильца по id.
func (s *TenantService) Get(ctx context.Context, tenantID int64) (*model.Tenant, error) {
	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: жилец %d", ErrNotFound, tenantID)
		}
		return nil, s.storageError("получение жильца", err)
	}
	return tenant, nil
}

// Create регистрирует нового жильца в квартире.
func (s *TenantService) Create(ctx context.Context, form TenantForm) (*model.Tenant, error) {
	tenant, err := parseTenantForm(form)
	if err != nil {
		return nil, err
	}

	if err := s.tenants.Create(ctx, tenant); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: указанная квартира не найдена", ErrValidation)
		}
		return nil, s.storageError("создание жильца", err)
	}

	s.logger.Info("Жилец зарегистрирован",
		slog.Int64("tenant_id", tenant.ID),
		slog.Int64("apartment_id", tenant.ApartmentID),
	)
	return tenant, nil
}

// Update обновляет данные жильца, включая перенос в другую квартиру.
func (s *TenantService) Update(ctx context.Context, tenantID int64, form TenantForm) error {
	tenant, err := parseTenantForm(form)
	if err != nil {
		return err
	}
	tenant.ID = tenantID

	if err := s.tenants.Update(ctx, tenant); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: жилец %d", ErrNotFound, tenantID)
		}
		return s.storageError("обновление жильца", err)
	}

	s.logger.Info("Жилец обновлён", slog.Int64("tenant_id", tenantID))
	return nil
}

// Delete снимает жильца с регистрации. Жилец, связанный с учётной
// записью, не удаляется.
func (s *TenantService) Delete(ctx context.Context, tenantID int64) error {
	if err := s.tenants.Delete(ctx, tenantID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("%w: жилец %d", ErrNotFound, tenantID)
		case errors.Is(err, repository.ErrReferenced):
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return s.storageError("удаление жильца", err)
	}

	s.logger.Info("Жилец снят с регистрации", slog.Int64("tenant_id", tenantID))
	return nil
}

func (s *TenantService) storageError(op string, err error) error {
	s.logger.Error("Ошибка хранилища",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("%w: %s", ErrStorageUnavailable, op)
}
