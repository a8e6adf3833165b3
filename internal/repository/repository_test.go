package repository

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zhilfond/housing-registry/internal/config"
	"github.com/zhilfond/housing-registry/internal/database"
	"github.com/zhilfond/housing-registry/internal/domain/model"
)

// setupTestDB запускает PostgreSQL контейнер, применяет миграции.
// Возвращает pgxpool.Pool; контейнер и пул закрываются через t.Cleanup.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("housing_test"),
		postgres.WithUsername("housing"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}

	// Настраиваем env для config.Load()
	t.Setenv("HR_DB_HOST", host)
	t.Setenv("HR_DB_PORT", port.Port())
	t.Setenv("HR_DB_NAME", "housing_test")
	t.Setenv("HR_DB_USER", "housing")
	t.Setenv("HR_DB_PASSWORD", "test-password")
	t.Setenv("HR_DB_SSL_MODE", "disable")
	t.Setenv("HR_COUCHDB_URL", "http://localhost:5984")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// Применяем миграции
	if err := database.Migrate(cfg, logger); err != nil {
		t.Fatalf("Ошибка миграций: %v", err)
	}

	// Подключаемся
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Ошибка подключения: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	return pool
}

// mustAddAddress добавляет улицу/дом/квартиру и возвращает квартиру.
func mustAddAddress(t *testing.T, pool *pgxpool.Pool, street, building, apartment string) *model.Apartment {
	t.Helper()
	ctx := context.Background()
	repo := NewAddressRepository(pool)

	s, err := repo.GetOrCreateStreet(ctx, street)
	if err != nil {
		t.Fatalf("GetOrCreateStreet: %v", err)
	}
	b, err := repo.GetOrCreateBuilding(ctx, s.ID, building)
	if err != nil {
		t.Fatalf("GetOrCreateBuilding: %v", err)
	}
	rooms := 2
	apt := &model.Apartment{
		BuildingID:    b.ID,
		Number:        apartment,
		Area:          45.50,
		Rooms:         &rooms,
		OwnershipType: "Private",
	}
	if err := repo.CreateApartment(ctx, apt); err != nil {
		t.Fatalf("CreateApartment: %v", err)
	}
	return apt
}

// mustAddTenant регистрирует жильца в квартире.
func mustAddTenant(t *testing.T, pool *pgxpool.Pool, apartmentID int64, first, last string) *model.Tenant {
	t.Helper()
	tenant := &model.Tenant{
		ApartmentID:      apartmentID,
		FirstName:        first,
		LastName:         last,
		PassportNumber:   "123456",
		RegistrationDate: time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC),
	}
	if err := NewTenantRepository(pool).Create(context.Background(), tenant); err != nil {
		t.Fatalf("Create tenant: %v", err)
	}
	return tenant
}

func TestGetOrCreateStreet_Idempotent(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewAddressRepository(pool)

	first, err := repo.GetOrCreateStreet(ctx, "Shevchenka")
	if err != nil {
		t.Fatalf("первый вызов: %v", err)
	}
	second, err := repo.GetOrCreateStreet(ctx, "Shevchenka")
	if err != nil {
		t.Fatalf("второй вызов: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("повторный GetOrCreateStreet создал дубликат: %d != %d", first.ID, second.ID)
	}
}

func TestDeleteApartmentCascade_LastApartment(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewAddressRepository(pool)

	apt := mustAddAddress(t, pool, "Cascade Street", "7", "1")

	if err := repo.DeleteApartmentCascade(ctx, apt.ID); err != nil {
		t.Fatalf("DeleteApartmentCascade: %v", err)
	}

	// Дом и улица должны быть удалены — они опустели
	var count int
	if err := pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM streets WHERE name = $1`, "Cascade Street",
	).Scan(&count); err != nil {
		t.Fatalf("подсчёт улиц: %v", err)
	}
	if count != 0 {
		t.Error("опустевшая улица не удалена каскадом")
	}
}

func TestDeleteApartmentCascade_NotLastApartment(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewAddressRepository(pool)

	apt1 := mustAddAddress(t, pool, "Busy Street", "3", "1")
	_ = mustAddAddress(t, pool, "Busy Street", "3", "2")

	if err := repo.DeleteApartmentCascade(ctx, apt1.ID); err != nil {
		t.Fatalf("DeleteApartmentCascade: %v", err)
	}

	// Дом с оставшейся квартирой и улица должны остаться нетронутыми
	var count int
	if err := pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM buildings b JOIN streets s ON s.id = b.street_id
		 WHERE s.name = $1 AND b.number = $2`, "Busy Street", "3",
	).Scan(&count); err != nil {
		t.Fatalf("подсчёт домов: %v", err)
	}
	if count != 1 {
		t.Errorf("дом с оставшейся квартирой удалён, count = %d", count)
	}
}

func TestDeleteApartmentCascade_TenantsBlock(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewAddressRepository(pool)

	apt := mustAddAddress(t, pool, "Occupied Street", "1", "1")
	mustAddTenant(t, pool, apt.ID, "Ivan", "Petrenko")

	err := repo.DeleteApartmentCascade(ctx, apt.ID)
	if err == nil {
		t.Fatal("удаление квартиры с жильцами должно вернуть ошибку")
	}

	// Квартира осталась на месте
	if _, _, _, err := repo.GetApartment(ctx, apt.ID); err != nil {
		t.Errorf("квартира с жильцами не должна быть удалена: %v", err)
	}
}

func TestReport_StreetTotals(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewReportRepository(pool)

	aptA1 := mustAddAddress(t, pool, "Alpha", "1", "1")
	_ = mustAddAddress(t, pool, "Alpha", "1", "2")
	aptB1 := mustAddAddress(t, pool, "Beta", "5", "1")

	mustAddTenant(t, pool, aptA1.ID, "Olena", "Koval")
	mustAddTenant(t, pool, aptB1.ID, "Taras", "Bondar")
	mustAddTenant(t, pool, aptB1.ID, "Maria", "Bondar")

	totals, err := repo.ListStreetTotals(ctx, model.SortTenantsDesc)
	if err != nil {
		t.Fatalf("ListStreetTotals: %v", err)
	}

	// Порядок по количеству жильцов должен быть монотонно невозрастающим
	for i := 1; i < len(totals); i++ {
		if totals[i].TenantCount > totals[i-1].TenantCount {
			t.Errorf("нарушен порядок tenants_desc: %d после %d",
				totals[i].TenantCount, totals[i-1].TenantCount)
		}
	}

	// Счётчики не должны задваиваться из-за JOIN
	for _, st := range totals {
		switch st.Street.Name {
		case "Alpha":
			if st.BuildingCount != 1 || st.ApartmentCount != 2 || st.TenantCount != 1 {
				t.Errorf("Alpha: counts = (%d, %d, %d), ожидается (1, 2, 1)",
					st.BuildingCount, st.ApartmentCount, st.TenantCount)
			}
		case "Beta":
			if st.BuildingCount != 1 || st.ApartmentCount != 1 || st.TenantCount != 2 {
				t.Errorf("Beta: counts = (%d, %d, %d), ожидается (1, 1, 2)",
					st.BuildingCount, st.ApartmentCount, st.TenantCount)
			}
		}
	}
}

func TestTenantCRUD(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewTenantRepository(pool)

	apt := mustAddAddress(t, pool, "CRUD Street", "9", "4")
	tenant := mustAddTenant(t, pool, apt.ID, "Petro", "Melnyk")

	// GetWithAddress — полная адресная цепочка
	tw, err := repo.GetWithAddress(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("GetWithAddress: %v", err)
	}
	if tw.Street.Name != "CRUD Street" || tw.Building.Number != "9" || tw.Apartment.Number != "4" {
		t.Errorf("адресная цепочка не совпала: %s", tw.AddressLabel())
	}
	if tw.FullName() != "Petro Melnyk" {
		t.Errorf("FullName() = %q, ожидается %q", tw.FullName(), "Petro Melnyk")
	}

	// Update
	tenant.FirstName = "Pavlo"
	if err := repo.Update(ctx, tenant); err != nil {
		t.Fatalf("Update: %v", err)
	}
	updated, err := repo.GetByID(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.FirstName != "Pavlo" {
		t.Errorf("FirstName = %q, ожидается Pavlo", updated.FirstName)
	}

	// Delete
	if err := repo.Delete(ctx, tenant.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, tenant.ID); err != ErrNotFound {
		t.Errorf("после удаления ожидается ErrNotFound, получено: %v", err)
	}
}

func TestUserRepository_UniqueLink(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(pool)

	apt := mustAddAddress(t, pool, "User Street", "2", "8")
	tenant := mustAddTenant(t, pool, apt.ID, "Oksana", "Savchenko")

	u1 := &model.User{Username: "oksana", PasswordHash: "x", Role: "user", TenantID: &tenant.ID}
	if err := users.Create(ctx, u1); err != nil {
		t.Fatalf("Create: %v", err)
	}

	linked, err := users.ExistsForTenant(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("ExistsForTenant: %v", err)
	}
	if !linked {
		t.Error("ExistsForTenant должен вернуть true для привязанного жильца")
	}

	// Второй аккаунт на того же жильца — конфликт уникальности
	u2 := &model.User{Username: "oksana2", PasswordHash: "x", Role: "user", TenantID: &tenant.ID}
	if err := users.Create(ctx, u2); err == nil {
		t.Error("повторная привязка жильца должна вернуть ошибку")
	}
}
