// Точка входа реестра жилого фонда.
// Загружает конфигурацию, подключается к PostgreSQL, применяет миграции,
// инициализирует архив справок (CouchDB), создаёт сервисный слой и UI handlers,
// запускает topologymetrics и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/zhilfond/housing-registry/internal/config"
	"github.com/zhilfond/housing-registry/internal/couchdb"
	"github.com/zhilfond/housing-registry/internal/database"
	"github.com/zhilfond/housing-registry/internal/repository"
	"github.com/zhilfond/housing-registry/internal/server"
	"github.com/zhilfond/housing-registry/internal/service"
	"github.com/zhilfond/housing-registry/internal/ui/auth"
	uihandlers "github.com/zhilfond/housing-registry/internal/ui/handlers"
	uimiddleware "github.com/zhilfond/housing-registry/internal/ui/middleware"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Реестр жилого фонда запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// Предупреждения о дефолтных значениях topologymetrics
	if os.Getenv("HR_DEPHEALTH_GROUP") == "" {
		logger.Warn("HR_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode).
	// Проверка здоровья PostgreSQL будет идти через существующий пул соединений,
	// что позволяет обнаружить его исчерпание.
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Архив справок (CouchDB)
	archive := couchdb.New(cfg, logger)
	if err := archive.EnsureDatabase(ctx); err != nil {
		// Архив нужен только для выдачи справок — запускаемся и без него,
		// операции со справками будут возвращать ошибку доступности.
		logger.Warn("CouchDB недоступен при старте, архив справок будет проверяться при обращении",
			slog.String("error", err.Error()),
		)
	} else {
		logger.Info("Архив справок готов", slog.String("db", cfg.CouchDBName))
	}

	// 6. Repositories
	txRunner := repository.NewTxRunner(pool)
	addressRepo := repository.NewAddressRepository(pool)
	tenantRepo := repository.NewTenantRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	reportRepo := repository.NewReportRepository(pool)

	// 7. Services
	addressSvc := service.NewAddressService(txRunner, addressRepo, logger)
	tenantSvc := service.NewTenantService(tenantRepo, logger)
	userSvc := service.NewUserService(userRepo, tenantRepo, logger)
	reportSvc := service.NewReportService(reportRepo, logger)
	certificateSvc := service.NewCertificateService(tenantRepo, archive, logger)

	// 8. topologymetrics — мониторинг зависимостей (PostgreSQL + CouchDB)
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"housing-registry",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.CouchDBURL,
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 9. Session Manager — шифрование/дешифрование сессий (AES-256-GCM)
	sessionMgr, err := auth.NewSessionManager(cfg.SessionSecret, cfg.SecureCookie)
	if err != nil {
		logger.Error("Ошибка создания Session Manager", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.SessionSecret == "" {
		logger.Warn("HR_SESSION_SECRET не задан, сессии не сохраняются между рестартами")
	}

	// 10. Readiness checkers (PostgreSQL + CouchDB)
	pgChecker := database.NewReadinessChecker(pool)
	healthHandler := uihandlers.NewHealthHandler(pgChecker, archive)

	// 11. UI handlers
	h := server.Handlers{
		Auth:      uihandlers.NewAuthHandler(userSvc, sessionMgr, logger),
		Tenants:   uihandlers.NewTenantsHandler(tenantSvc, addressSvc, logger),
		Addresses: uihandlers.NewAddressesHandler(addressSvc, logger),
		Documents: uihandlers.NewDocumentsHandler(certificateSvc, logger),
		Report:    uihandlers.NewReportHandler(reportSvc, logger),
		Health:    healthHandler,
	}
	sessionAuth := uimiddleware.NewSessionAuth(sessionMgr, logger)

	// 12. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, h, sessionAuth)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 13. Graceful shutdown фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Реестр жилого фонда остановлен")
}
