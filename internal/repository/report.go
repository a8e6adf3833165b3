package repository

import (
	"context"
	"fmt"

	"github.com/zhilfond/housing-registry/internal/domain/model"
)

// ReportRepository — агрегирующие выборки для сводного отчёта по району.
type ReportRepository interface {
	// ListStreetTotals возвращает улицы с транзитивными счётчиками
	// (дома, квартиры, жильцы) в порядке, заданном ключом сортировки.
	// Ключ должен быть нормализован заранее (model.NormalizeSortKey).
	ListStreetTotals(ctx context.Context, sortKey string) ([]model.StreetTotals, error)
	// ListBuildingsOrdered возвращает все дома, отсортированные по улице
	// и лексикографически по номеру.
	ListBuildingsOrdered(ctx context.Context) ([]model.Building, error)
	// ListApartmentsOrdered возвращает все квартиры, отсортированные по дому
	// и лексикографически по номеру.
	ListApartmentsOrdered(ctx context.Context) ([]model.Apartment, error)
	// ListTenantsOrdered возвращает всех жильцов, сгруппированных по квартире
	// и отсортированных по фамилии/имени.
	ListTenantsOrdered(ctx context.Context) ([]model.Tenant, error)
}

// reportRepo — реализация ReportRepository.
type reportRepo struct {
	db DBTX
}

// NewReportRepository создаёт репозиторий сводного отчёта.
func NewReportRepository(db DBTX) ReportRepository {
	return &reportRepo{db: db}
}

// streetOrderBy — белый список ORDER BY для каждого ключа сортировки.
// Счётные сортировки детерминированы: при равных счётчиках порядок по id улицы.
var streetOrderBy = map[string]string{
	model.SortNameAsc:        "s.name ASC",
	model.SortNameDesc:       "s.name DESC",
	model.SortTenantsAsc:     "tenant_count ASC, s.id ASC",
	model.SortTenantsDesc:    "tenant_count DESC, s.id ASC",
	model.SortApartmentsAsc:  "apartment_count ASC, s.id ASC",
	model.SortApartmentsDesc: "apartment_count DESC, s.id ASC",
	model.SortBuildingsAsc:   "building_count ASC, s.id ASC",
	model.SortBuildingsDesc:  "building_count DESC, s.id ASC",
}

func (r *reportRepo) ListStreetTotals(ctx context.Context, sortKey string) ([]model.StreetTotals, error) {
	orderBy, ok := streetOrderBy[sortKey]
	if !ok {
		return nil, fmt.Errorf("неизвестный ключ сортировки: %q", sortKey)
	}

	// Транзитивные счётчики через LEFT JOIN: улицы без домов тоже попадают
	// в отчёт с нулевыми значениями
	query := `
		SELECT s.id, s.name,
		       COUNT(DISTINCT b.id) AS building_count,
		       COUNT(DISTINCT a.id) AS apartment_count,
		       COUNT(t.id) AS tenant_count
		FROM streets s
		LEFT JOIN buildings b ON b.street_id = s.id
		LEFT JOIN apartments a ON a.building_id = b.id
		LEFT JOIN tenants t ON t.apartment_id = a.id
		GROUP BY s.id, s.name
		ORDER BY ` + orderBy

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка агрегирующего запроса по улицам: %w", err)
	}
	defer rows.Close()

	var totals []model.StreetTotals
	for rows.Next() {
		var st model.StreetTotals
		if err := rows.Scan(&st.Street.ID, &st.Street.Name,
			&st.BuildingCount, &st.ApartmentCount, &st.TenantCount); err != nil {
			return nil, fmt.Errorf("ошибка чтения счётчиков улицы: %w", err)
		}
		totals = append(totals, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обхода улиц: %w", err)
	}
	return totals, nil
}

func (r *reportRepo) ListBuildingsOrdered(ctx context.Context) ([]model.Building, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, street_id, number
		 FROM buildings
		 ORDER BY street_id, number`,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения домов: %w", err)
	}
	defer rows.Close()

	var buildings []model.Building
	for rows.Next() {
		var b model.Building
		if err := rows.Scan(&b.ID, &b.StreetID, &b.Number); err != nil {
			return nil, fmt.Errorf("ошибка чтения дома: %w", err)
		}
		buildings = append(buildings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обхода домов: %w", err)
	}
	return buildings, nil
}

func (r *reportRepo) ListApartmentsOrdered(ctx context.Context) ([]model.Apartment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, building_id, number, area, rooms, ownership_type
		 FROM apartments
		 ORDER BY building_id, number`,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения квартир: %w", err)
	}
	defer rows.Close()

	var apartments []model.Apartment
	for rows.Next() {
		var a model.Apartment
		if err := rows.Scan(&a.ID, &a.BuildingID, &a.Number, &a.Area, &a.Rooms, &a.OwnershipType); err != nil {
			return nil, fmt.Errorf("ошибка чтения квартиры: %w", err)
		}
		apartments = append(apartments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обхода квартир: %w", err)
	}
	return apartments, nil
}

func (r *reportRepo) ListTenantsOrdered(ctx context.Context) ([]model.Tenant, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, apartment_id, first_name, last_name,
		        passport_series, passport_number, phone, registration_date
		 FROM tenants
		 ORDER BY apartment_id, last_name, first_name, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения жильцов: %w", err)
	}
	defer rows.Close()

	var tenants []model.Tenant
	for rows.Next() {
		var t model.Tenant
		if err := rows.Scan(&t.ID, &t.ApartmentID, &t.FirstName, &t.LastName,
			&t.PassportSeries, &t.PassportNumber, &t.Phone, &t.RegistrationDate); err != nil {
			return nil, fmt.Errorf("ошибка чтения жильца: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обхода жильцов: %w", err)
	}
	return tenants, nil
}
