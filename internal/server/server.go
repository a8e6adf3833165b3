// Пакет server — HTTP-сервер реестра с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на ingress.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhilfond/housing-registry/internal/config"
	"github.com/zhilfond/housing-registry/internal/server/middleware"
	"github.com/zhilfond/housing-registry/internal/ui/handlers"
	uimiddleware "github.com/zhilfond/housing-registry/internal/ui/middleware"
	"github.com/zhilfond/housing-registry/internal/ui/static"
)

// Handlers — набор обработчиков, монтируемых на маршруты сервера.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Tenants   *handlers.TenantsHandler
	Addresses *handlers.AddressesHandler
	Documents *handlers.DocumentsHandler
	Report    *handlers.ReportHandler
	Health    *handlers.HealthHandler
}

// Server — HTTP-сервер реестра.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
// sessionAuth защищает все маршруты реестра; вход, регистрация,
// health и метрики остаются публичными.
func New(cfg *config.Config, logger *slog.Logger, h Handlers, sessionAuth *uimiddleware.SessionAuth) *Server {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// Публичные маршруты
	router.Get("/login", h.Auth.HandleLoginPage)
	router.Post("/login", h.Auth.HandleLogin)
	router.Get("/register", h.Auth.HandleRegisterPage)
	router.Post("/register", h.Auth.HandleRegister)
	router.Get("/logout", h.Auth.HandleLogout)

	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Get("/metrics", h.Health.GetMetrics)

	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static.FileSystem())))

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusFound)
	})

	// Маршруты реестра — только с валидной сессией
	router.Group(func(r chi.Router) {
		r.Use(sessionAuth.Middleware())

		r.Get("/tenants", h.Tenants.HandleList)
		r.Get("/tenant/add", h.Tenants.HandleAddPage)
		r.Post("/tenant/add", h.Tenants.HandleAdd)
		r.Get("/tenant/edit/{id}", h.Tenants.HandleEditPage)
		r.Post("/tenant/edit/{id}", h.Tenants.HandleEdit)
		r.Post("/tenant/delete/{id}", h.Tenants.HandleDelete)

		r.Get("/address/add", h.Addresses.HandleAddPage)
		r.Post("/address/add", h.Addresses.HandleAdd)
		r.Get("/address/edit/{id}", h.Addresses.HandleEditPage)
		r.Post("/address/edit/{id}", h.Addresses.HandleEdit)
		r.Post("/address/delete/{id}", h.Addresses.HandleDelete)

		r.Get("/tenant/{id}/certificate", h.Documents.HandleIssue)
		r.Get("/certificates", h.Documents.HandleList)
		r.Get("/certificates/{docID}", h.Documents.HandleDownload)

		r.Get("/district_report", h.Report.HandleReport)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
