// Утилита создания администратора реестра.
// Используется при первичном развёртывании: учётные записи администраторов
// не создаются через веб-форму регистрации.
//
// Пример:
//
//	create-admin -username admin -password 'секрет'
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/zhilfond/housing-registry/internal/config"
	"github.com/zhilfond/housing-registry/internal/database"
	"github.com/zhilfond/housing-registry/internal/repository"
	"github.com/zhilfond/housing-registry/internal/service"
)

func main() {
	username := flag.String("username", "", "имя пользователя администратора")
	password := flag.String("password", "", "пароль администратора")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := config.SetupLogger(cfg)

	if *username == "" || *password == "" {
		logger.Error("Необходимо указать -username и -password")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	users := service.NewUserService(
		repository.NewUserRepository(pool),
		repository.NewTenantRepository(pool),
		logger,
	)

	user, err := users.CreateAdmin(ctx, *username, *password)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			// Повторный запуск с тем же именем — не ошибка развёртывания.
			logger.Info("Администратор уже существует", slog.String("username", *username))
			return
		}
		logger.Error("Ошибка создания администратора", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Администратор создан",
		slog.Int64("id", user.ID),
		slog.String("username", user.Username),
	)
}
