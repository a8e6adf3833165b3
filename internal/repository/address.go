package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/zhilfond/housing-registry/internal/domain/model"
)

// AddressRepository — доступ к адресной иерархии улица → дом → квартира.
// Улицы и дома создаются лениво (find-or-create по натуральному ключу),
// квартиры — явно. Удаление квартиры каскадно подчищает опустевшие
// дома и улицы снизу вверх.
type AddressRepository interface {
	// GetOrCreateStreet возвращает улицу по имени, создавая её при отсутствии.
	GetOrCreateStreet(ctx context.Context, name string) (*model.Street, error)
	// GetOrCreateBuilding возвращает дом по (улица, номер), создавая при отсутствии.
	GetOrCreateBuilding(ctx context.Context, streetID int64, number string) (*model.Building, error)
	// CreateApartment создаёт квартиру в доме.
	CreateApartment(ctx context.Context, apt *model.Apartment) error
	// GetApartment возвращает квартиру с разрешёнными домом и улицей.
	GetApartment(ctx context.Context, id int64) (*model.Apartment, *model.Building, *model.Street, error)
	// UpdateAddress обновляет имя улицы, номер дома и атрибуты квартиры.
	UpdateAddress(ctx context.Context, street *model.Street, building *model.Building, apt *model.Apartment) error
	// DeleteApartmentCascade удаляет квартиру; опустевший дом и затем
	// опустевшая улица удаляются в той же операции.
	DeleteApartmentCascade(ctx context.Context, apartmentID int64) error
	// ListApartmentOptions возвращает все квартиры с адресными подписями
	// для выбора в формах (отсортированы по улице, дому, квартире).
	ListApartmentOptions(ctx context.Context) ([]model.ApartmentOption, error)
}

// addressRepo — реализация AddressRepository.
type addressRepo struct {
	db DBTX
}

// NewAddressRepository создаёт репозиторий адресной иерархии.
// db — пул подключений или транзакция (для операций в рамках одной транзакции).
func NewAddressRepository(db DBTX) AddressRepository {
	return &addressRepo{db: db}
}

func (r *addressRepo) GetOrCreateStreet(ctx context.Context, name string) (*model.Street, error) {
	// Конфликтоустойчивая вставка: два одинаковых конкурентных запроса
	// не создадут дубликат благодаря уникальному ограничению на name.
	street := &model.Street{Name: name}
	err := r.db.QueryRow(ctx,
		`INSERT INTO streets (name) VALUES ($1)
		 ON CONFLICT (name) DO NOTHING
		 RETURNING id`,
		name,
	).Scan(&street.ID)
	if err == nil {
		return street, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("ошибка создания улицы: %w", err)
	}

	// Вставка не вернула строку — улица уже существует
	err = r.db.QueryRow(ctx, `SELECT id FROM streets WHERE name = $1`, name).Scan(&street.ID)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска улицы: %w", err)
	}
	return street, nil
}

func (r *addressRepo) GetOrCreateBuilding(ctx context.Context, streetID int64, number string) (*model.Building, error) {
	building := &model.Building{StreetID: streetID, Number: number}
	err := r.db.QueryRow(ctx,
		`INSERT INTO buildings (street_id, number) VALUES ($1, $2)
		 ON CONFLICT (street_id, number) DO NOTHING
		 RETURNING id`,
		streetID, number,
	).Scan(&building.ID)
	if err == nil {
		return building, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("ошибка создания дома: %w", err)
	}

	err = r.db.QueryRow(ctx,
		`SELECT id FROM buildings WHERE street_id = $1 AND number = $2`,
		streetID, number,
	).Scan(&building.ID)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска дома: %w", err)
	}
	return building, nil
}

func (r *addressRepo) CreateApartment(ctx context.Context, apt *model.Apartment) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO apartments (building_id, number, area, rooms, ownership_type)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		apt.BuildingID, apt.Number, apt.Area, apt.Rooms, apt.OwnershipType,
	).Scan(&apt.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: квартира %s уже есть в этом доме", ErrConflict, apt.Number)
		}
		return fmt.Errorf("ошибка создания квартиры: %w", err)
	}
	return nil
}

func (r *addressRepo) GetApartment(ctx context.Context, id int64) (*model.Apartment, *model.Building, *model.Street, error) {
	apt := &model.Apartment{}
	building := &model.Building{}
	street := &model.Street{}

	err := r.db.QueryRow(ctx,
		`SELECT a.id, a.building_id, a.number, a.area, a.rooms, a.ownership_type,
		        b.id, b.street_id, b.number,
		        s.id, s.name
		 FROM apartments a
		 JOIN buildings b ON b.id = a.building_id
		 JOIN streets s ON s.id = b.street_id
		 WHERE a.id = $1`,
		id,
	).Scan(
		&apt.ID, &apt.BuildingID, &apt.Number, &apt.Area, &apt.Rooms, &apt.OwnershipType,
		&building.ID, &building.StreetID, &building.Number,
		&street.ID, &street.Name,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil, ErrNotFound
		}
		return nil, nil, nil, fmt.Errorf("ошибка получения квартиры: %w", err)
	}
	return apt, building, street, nil
}

func (r *addressRepo) UpdateAddress(ctx context.Context, street *model.Street, building *model.Building, apt *model.Apartment) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE streets SET name = $1 WHERE id = $2`,
		street.Name, street.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: улица %q уже существует", ErrConflict, street.Name)
		}
		return fmt.Errorf("ошибка обновления улицы: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	tag, err = r.db.Exec(ctx,
		`UPDATE buildings SET number = $1 WHERE id = $2`,
		building.Number, building.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: дом %s уже есть на этой улице", ErrConflict, building.Number)
		}
		return fmt.Errorf("ошибка обновления дома: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	tag, err = r.db.Exec(ctx,
		`UPDATE apartments SET number = $1, area = $2, rooms = $3, ownership_type = $4
		 WHERE id = $5`,
		apt.Number, apt.Area, apt.Rooms, apt.OwnershipType, apt.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: квартира %s уже есть в этом доме", ErrConflict, apt.Number)
		}
		return fmt.Errorf("ошибка обновления квартиры: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *addressRepo) DeleteApartmentCascade(ctx context.Context, apartmentID int64) error {
	// Определяем дом и улицу до удаления
	var buildingID, streetID int64
	err := r.db.QueryRow(ctx,
		`SELECT b.id, b.street_id
		 FROM apartments a
		 JOIN buildings b ON b.id = a.building_id
		 WHERE a.id = $1`,
		apartmentID,
	).Scan(&buildingID, &streetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка поиска квартиры: %w", err)
	}

	// Удаляем квартиру; жильцы в квартире блокируют удаление (FK)
	if _, err := r.db.Exec(ctx, `DELETE FROM apartments WHERE id = $1`, apartmentID); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: в квартире зарегистрированы жильцы", ErrReferenced)
		}
		return fmt.Errorf("ошибка удаления квартиры: %w", err)
	}

	// Каскад строго снизу вверх и только при опустении:
	// дом без квартир удаляется, затем улица без домов
	var remaining int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM apartments WHERE building_id = $1`, buildingID,
	).Scan(&remaining); err != nil {
		return fmt.Errorf("ошибка подсчёта квартир: %w", err)
	}
	if remaining > 0 {
		return nil
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM buildings WHERE id = $1`, buildingID); err != nil {
		return fmt.Errorf("ошибка удаления дома: %w", err)
	}

	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM buildings WHERE street_id = $1`, streetID,
	).Scan(&remaining); err != nil {
		return fmt.Errorf("ошибка подсчёта домов: %w", err)
	}
	if remaining > 0 {
		return nil
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM streets WHERE id = $1`, streetID); err != nil {
		return fmt.Errorf("ошибка удаления улицы: %w", err)
	}

	return nil
}

func (r *addressRepo) ListApartmentOptions(ctx context.Context) ([]model.ApartmentOption, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.number, b.number, s.name
		 FROM apartments a
		 JOIN buildings b ON b.id = a.building_id
		 JOIN streets s ON s.id = b.street_id
		 ORDER BY s.name, b.number, a.number`,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка квартир: %w", err)
	}
	defer rows.Close()

	var options []model.ApartmentOption
	for rows.Next() {
		var o model.ApartmentOption
		if err := rows.Scan(&o.ID, &o.ApartmentNumber, &o.BuildingNumber, &o.StreetName); err != nil {
			return nil, fmt.Errorf("ошибка чтения квартиры: %w", err)
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обхода квартир: %w", err)
	}
	return options, nil
}
