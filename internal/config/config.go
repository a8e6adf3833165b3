// Пакет config — загрузка и валидация конфигурации реестра жилого фонда
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации приложения.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL (реестр) ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- CouchDB (архив справок) ---

	// Базовый URL CouchDB (например, http://localhost:5984)
	CouchDBURL string
	// Имя пользователя CouchDB
	CouchDBUser string
	// Пароль пользователя CouchDB
	CouchDBPassword string
	// Имя базы документов с архивом справок
	CouchDBName string

	// --- UI-сессии ---

	// Секрет для шифрования session cookie (AES-256-GCM).
	// Пустое значение — случайный ключ, сессии не переживают рестарт.
	SessionSecret string
	// Устанавливать Secure flag на cookie (true за HTTPS)
	SecureCookie bool

	// --- Мониторинг зависимостей ---

	// Имя группы topologymetrics
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// HR_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("HR_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("HR_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("HR_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// HR_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("HR_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("HR_LOG_LEVEL: %w", err)
	}

	// HR_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("HR_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("HR_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	// HR_DB_HOST — хост PostgreSQL (обязательная)
	cfg.DBHost, err = getEnvRequired("HR_DB_HOST")
	if err != nil {
		return nil, err
	}

	// HR_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("HR_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("HR_DB_PORT: %w", err)
	}

	// HR_DB_NAME — имя базы данных (обязательная)
	cfg.DBName, err = getEnvRequired("HR_DB_NAME")
	if err != nil {
		return nil, err
	}

	// HR_DB_USER — пользователь PostgreSQL (обязательная)
	cfg.DBUser, err = getEnvRequired("HR_DB_USER")
	if err != nil {
		return nil, err
	}

	// HR_DB_PASSWORD — пароль PostgreSQL (обязательная)
	cfg.DBPassword, err = getEnvRequired("HR_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// HR_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("HR_DB_SSL_MODE", "disable")
	switch cfg.DBSSLMode {
	case "disable", "require", "verify-ca", "verify-full":
	default:
		return nil, fmt.Errorf("HR_DB_SSL_MODE: недопустимое значение %q", cfg.DBSSLMode)
	}

	// --- CouchDB ---

	// HR_COUCHDB_URL — базовый URL CouchDB (обязательная)
	cfg.CouchDBURL, err = getEnvRequired("HR_COUCHDB_URL")
	if err != nil {
		return nil, err
	}
	if _, parseErr := url.Parse(cfg.CouchDBURL); parseErr != nil {
		return nil, fmt.Errorf("HR_COUCHDB_URL: некорректный URL: %w", parseErr)
	}
	cfg.CouchDBURL = strings.TrimRight(cfg.CouchDBURL, "/")

	// HR_COUCHDB_USER / HR_COUCHDB_PASSWORD — учётные данные CouchDB (опциональные)
	cfg.CouchDBUser = os.Getenv("HR_COUCHDB_USER")
	cfg.CouchDBPassword = os.Getenv("HR_COUCHDB_PASSWORD")

	// HR_COUCHDB_DB — имя базы документов (по умолчанию certificates)
	cfg.CouchDBName = getEnvDefault("HR_COUCHDB_DB", "certificates")

	// --- UI-сессии ---

	// HR_SESSION_SECRET — секрет session cookie (опциональная)
	cfg.SessionSecret = os.Getenv("HR_SESSION_SECRET")

	// HR_SECURE_COOKIE — Secure flag для cookie (по умолчанию false)
	cfg.SecureCookie, err = getEnvBool("HR_SECURE_COOKIE", false)
	if err != nil {
		return nil, fmt.Errorf("HR_SECURE_COOKIE: %w", err)
	}

	// --- Мониторинг зависимостей ---

	// HR_DEPHEALTH_GROUP — имя группы topologymetrics (по умолчанию housing-registry)
	cfg.DephealthGroup = getEnvDefault("HR_DEPHEALTH_GROUP", "housing-registry")

	// HR_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 30s)
	cfg.DephealthCheckInterval, err = getEnvDuration("HR_DEPHEALTH_CHECK_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("HR_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	// HR_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("HR_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("HR_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL подключения к PostgreSQL (для лейблов метрик,
// не для подключения — без пароля).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q", val)
	}
	return b, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
