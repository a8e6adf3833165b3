package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestRequestLoggerLevels проверяет выбор уровня логирования по статус-коду
// и состав записи о запросе.
func TestRequestLoggerLevels(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		expectedLevel string
	}{
		{"успешный ответ", http.StatusOK, "INFO"},
		{"редирект", http.StatusFound, "INFO"},
		{"клиентская ошибка", http.StatusNotFound, "WARN"},
		{"серверная ошибка", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("ответ"))
			}))

			req := httptest.NewRequest(http.MethodGet, "/tenants", nil)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("разбор записи лога: %v", err)
			}
			if entry["level"] != tt.expectedLevel {
				t.Errorf("level = %v, ожидается %s", entry["level"], tt.expectedLevel)
			}
			if entry["status"] != float64(tt.status) {
				t.Errorf("status = %v, ожидается %d", entry["status"], tt.status)
			}
			if entry["path"] != "/tenants" {
				t.Errorf("path = %v, ожидается /tenants", entry["path"])
			}
			if entry["component"] != "http" {
				t.Errorf("component = %v, ожидается http", entry["component"])
			}
			if entry["response_size"] != float64(len("ответ")) {
				t.Errorf("response_size = %v", entry["response_size"])
			}
		})
	}
}

// TestStatusRecorderDefault проверяет, что без явного WriteHeader
// фиксируется статус 200.
func TestStatusRecorderDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("разбор записи лога: %v", err)
	}
	if entry["status"] != float64(http.StatusOK) {
		t.Errorf("status = %v, ожидается 200", entry["status"])
	}
}
