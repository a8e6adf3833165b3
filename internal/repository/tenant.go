package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/zhilfond/housing-registry/internal/domain/model"
)

// TenantRepository — CRUD для таблицы tenants.
type TenantRepository interface {
	// Create создаёт жильца в существующей квартире.
	Create(ctx context.Context, tenant *model.Tenant) error
	// GetByID возвращает жильца по id.
	GetByID(ctx context.Context, id int64) (*model.Tenant, error)
	// GetWithAddress возвращает жильца с полной адресной цепочкой
	// квартира → дом → улица. Жилец без разрешимой цепочки — нарушение
	// ссылочной целостности, не штатный случай.
	GetWithAddress(ctx context.Context, id int64) (*model.TenantWithAddress, error)
	// ListAll возвращает всех жильцов с адресными цепочками.
	ListAll(ctx context.Context) ([]model.TenantWithAddress, error)
	// FindByName ищет жильца по имени и фамилии.
	FindByName(ctx context.Context, firstName, lastName string) (*model.Tenant, error)
	// Update обновляет атрибуты жильца.
	Update(ctx context.Context, tenant *model.Tenant) error
	// Delete удаляет жильца.
	Delete(ctx context.Context, id int64) error
}

// tenantRepo — реализация TenantRepository.
type tenantRepo struct {
	db DBTX
}

// NewTenantRepository создаёт репозиторий жильцов.
func NewTenantRepository(db DBTX) TenantRepository {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) Create(ctx context.Context, tenant *model.Tenant) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO tenants (apartment_id, first_name, last_name,
			passport_series, passport_number, phone, registration_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		tenant.ApartmentID, tenant.FirstName, tenant.LastName,
		tenant.PassportSeries, tenant.PassportNumber, tenant.Phone, tenant.RegistrationDate,
	).Scan(&tenant.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: квартира не найдена", ErrNotFound)
		}
		return fmt.Errorf("ошибка создания жильца: %w", err)
	}
	return nil
}

func (r *tenantRepo) GetByID(ctx context.Context, id int64) (*model.Tenant, error) {
	tenant := &model.Tenant{}
	err := r.db.QueryRow(ctx,
		`SELECT id, apartment_id, first_name, last_name,
		        passport_series, passport_number, phone, registration_date
		 FROM tenants
		 WHERE id = $1`,
		id,
	).Scan(
		&tenant.ID, &tenant.ApartmentID, &tenant.FirstName, &tenant.LastName,
		&tenant.PassportSeries, &tenant.PassportNumber, &tenant.Phone, &tenant.RegistrationDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения жильца: %w", err)
	}
	return tenant, nil
}

// tenantWithAddressColumns — общий список колонок для выборок с JOIN по адресу.
const tenantWithAddressColumns = `
	t.id, t.apartment_id, t.first_name, t.last_name,
	t.passport_series, t.passport_number, t.phone, t.registration_date,
	a.id, a.building_id, a.number, a.area, a.rooms, a.ownership_type,
	b.id, b.street_id, b.number,
	s.id, s.name`

// scanTenantWithAddress читает одну строку выборки с tenantWithAddressColumns.
func scanTenantWithAddress(row pgx.Row) (*model.TenantWithAddress, error) {
	tw := &model.TenantWithAddress{}
	err := row.Scan(
		&tw.ID, &tw.Tenant.ApartmentID, &tw.FirstName, &tw.LastName,
		&tw.PassportSeries, &tw.PassportNumber, &tw.Phone, &tw.RegistrationDate,
		&tw.Apartment.ID, &tw.Apartment.BuildingID, &tw.Apartment.Number,
		&tw.Apartment.Area, &tw.Apartment.Rooms, &tw.Apartment.OwnershipType,
		&tw.Building.ID, &tw.Building.StreetID, &tw.Building.Number,
		&tw.Street.ID, &tw.Street.Name,
	)
	if err != nil {
		return nil, err
	}
	return tw, nil
}

func (r *tenantRepo) GetWithAddress(ctx context.Context, id int64) (*model.TenantWithAddress, error) {
	row := r.db.QueryRow(ctx,
		`SELECT`+tenantWithAddressColumns+`
		 FROM tenants t
		 JOIN apartments a ON a.id = t.apartment_id
		 JOIN buildings b ON b.id = a.building_id
		 JOIN streets s ON s.id = b.street_id
		 WHERE t.id = $1`,
		id,
	)
	tw, err := scanTenantWithAddress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения жильца с адресом: %w", err)
	}
	return tw, nil
}

func (r *tenantRepo) ListAll(ctx context.Context) ([]model.TenantWithAddress, error) {
	rows, err := r.db.Query(ctx,
		`SELECT`+tenantWithAddressColumns+`
		 FROM tenants t
		 JOIN apartments a ON a.id = t.apartment_id
		 JOIN buildings b ON b.id = a.building_id
		 JOIN streets s ON s.id = b.street_id
		 ORDER BY t.last_name, t.first_name, t.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка жильцов: %w", err)
	}
	defer rows.Close()

	var tenants []model.TenantWithAddress
	for rows.Next() {
		tw, err := scanTenantWithAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения жильца: %w", err)
		}
		tenants = append(tenants, *tw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обхода жильцов: %w", err)
	}
	return tenants, nil
}

func (r *tenantRepo) FindByName(ctx context.Context, firstName, lastName string) (*model.Tenant, error) {
	tenant := &model.Tenant{}
	err := r.db.QueryRow(ctx,
		`SELECT id, apartment_id, first_name, last_name,
		        passport_series, passport_number, phone, registration_date
		 FROM tenants
		 WHERE first_name = $1 AND last_name = $2
		 ORDER BY id
		 LIMIT 1`,
		firstName, lastName,
	).Scan(
		&tenant.ID, &tenant.ApartmentID, &tenant.FirstName, &tenant.LastName,
		&tenant.PassportSeries, &tenant.PassportNumber, &tenant.Phone, &tenant.RegistrationDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска жильца по имени: %w", err)
	}
	return tenant, nil
}

func (r *tenantRepo) Update(ctx context.Context, tenant *model.Tenant) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE tenants
		 SET apartment_id = $1, first_name = $2, last_name = $3,
		     passport_series = $4, passport_number = $5, phone = $6, registration_date = $7
		 WHERE id = $8`,
		tenant.ApartmentID, tenant.FirstName, tenant.LastName,
		tenant.PassportSeries, tenant.PassportNumber, tenant.Phone, tenant.RegistrationDate,
		tenant.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: квартира не найдена", ErrNotFound)
		}
		return fmt.Errorf("ошибка обновления жильца: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tenantRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: на жильца ссылается учётная запись", ErrReferenced)
		}
		return fmt.Errorf("ошибка удаления жильца: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
