package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zhilfond/housing-registry/internal/ui/auth"
)

func newTestAuth(t *testing.T) (*SessionAuth, *auth.SessionManager) {
	t.Helper()
	sm, err := auth.NewSessionManager("test-key", false)
	if err != nil {
		t.Fatalf("Ошибка создания SessionManager: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSessionAuth(sm, logger), sm
}

// TestSessionAuthRedirectsWithoutSession проверяет redirect на /login без cookie.
func TestSessionAuthRedirectsWithoutSession(t *testing.T) {
	sa, _ := newTestAuth(t)

	handler := sa.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("обработчик не должен вызываться без сессии")
	}))

	req := httptest.NewRequest(http.MethodGet, "/tenants", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("ожидался 302, получено %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("ожидался redirect на /login, получено %q", loc)
	}
}

// TestSessionAuthPassesWithValidSession проверяет проход с валидной сессией.
func TestSessionAuthPassesWithValidSession(t *testing.T) {
	sa, sm := newTestAuth(t)

	var gotSession *auth.SessionData
	handler := sa.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// Устанавливаем валидный session cookie
	rec := httptest.NewRecorder()
	session := &auth.SessionData{
		UserID:    1,
		Username:  "admin",
		Role:      "admin",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}
	if err := sm.SetSessionCookie(rec, session); err != nil {
		t.Fatalf("Ошибка установки cookie: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/tenants", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получено %d", w.Code)
	}
	if gotSession == nil {
		t.Fatal("сессия не попала в контекст")
	}
	if gotSession.Username != "admin" || gotSession.Role != "admin" {
		t.Errorf("неверные данные сессии в контексте: %+v", gotSession)
	}
}

// TestSessionAuthExpiredSession проверяет redirect и очистку при истёкшей сессии.
func TestSessionAuthExpiredSession(t *testing.T) {
	sa, sm := newTestAuth(t)

	handler := sa.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("обработчик не должен вызываться с истёкшей сессией")
	}))

	rec := httptest.NewRecorder()
	session := &auth.SessionData{
		UserID:    1,
		Username:  "admin",
		Role:      "admin",
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	}
	if err := sm.SetSessionCookie(rec, session); err != nil {
		t.Fatalf("Ошибка установки cookie: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/tenants", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("ожидался 302, получено %d", w.Code)
	}

	// Cookie должен быть очищен
	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookieName && c.MaxAge == -1 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("истёкшая сессия должна очищать cookie")
	}
}

// TestSessionAuthCorruptedCookie проверяет поведение при повреждённом cookie.
func TestSessionAuthCorruptedCookie(t *testing.T) {
	sa, _ := newTestAuth(t)

	handler := sa.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("обработчик не должен вызываться с повреждённым cookie")
	}))

	req := httptest.NewRequest(http.MethodGet, "/tenants", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "garbage"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("ожидался 302, получено %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("ожидался redirect на /login, получено %q", loc)
	}
}

// TestSessionFromContextWithoutSession проверяет nil без middleware.
func TestSessionFromContextWithoutSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/tenants", nil)
	if got := SessionFromContext(req.Context()); got != nil {
		t.Errorf("ожидался nil, получено %+v", got)
	}
}
