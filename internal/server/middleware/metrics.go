// metrics.go — Prometheus HTTP метрики реестра.
// Регистрирует метрики: hr_http_requests_total, hr_http_request_duration_seconds.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hr_http_requests_total",
			Help: "Общее количество HTTP-запросов к реестру",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hr_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к реестру в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
// Записывает количество запросов и длительность для каждого endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Нормализуем путь для лейблов метрик
			// (заменяем числовые id на {id} для предотвращения кардинальности)
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newMetricsResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// metricsResponseWriter — обёртка для перехвата статус-кода.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap позволяет http.ResponseController получить доступ к оригинальному ResponseWriter.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// normalizePath заменяет динамические сегменты пути на плейсхолдеры
// для предотвращения взрывного роста кардинальности метрик.
// /tenant/edit/42 → /tenant/edit/{id}, /certificates/<uuid> → /certificates/{docID}
func normalizePath(path string) string {
	// Статические пути — возвращаем как есть
	switch path {
	case "/", "/login", "/register", "/logout",
		"/health/live", "/health/ready", "/metrics",
		"/tenants", "/tenant/add", "/address/add",
		"/district_report", "/certificates":
		return path
	}

	if strings.HasPrefix(path, "/static/") {
		return "/static/*"
	}

	// Динамические пути с числовым id
	prefixes := []struct {
		prefix string
		result string
	}{
		{"/tenant/edit/", "/tenant/edit/{id}"},
		{"/tenant/delete/", "/tenant/delete/{id}"},
		{"/address/edit/", "/address/edit/{id}"},
		{"/address/delete/", "/address/delete/{id}"},
	}
	for _, p := range prefixes {
		if strings.HasPrefix(path, p.prefix) {
			return p.result
		}
	}

	// /tenant/{id}/certificate
	if strings.HasPrefix(path, "/tenant/") && strings.HasSuffix(path, "/certificate") {
		return "/tenant/{id}/certificate"
	}

	if strings.HasPrefix(path, "/certificates/") {
		return "/certificates/{docID}"
	}

	return path
}
