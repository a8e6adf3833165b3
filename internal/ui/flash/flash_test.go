package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestFlashSetAndPop проверяет установку и одноразовое чтение сообщения.
func TestFlashSetAndPop(t *testing.T) {
	w := httptest.NewRecorder()
	Set(w, "Запись сохранена.")

	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("Flash cookie не установлен")
	}

	req := httptest.NewRequest(http.MethodGet, "/tenants", nil)
	req.AddCookie(cookies[0])

	w2 := httptest.NewRecorder()
	got := Pop(w2, req)
	if got != "Запись сохранена." {
		t.Errorf("получено %q, ожидалось %q", got, "Запись сохранена.")
	}

	// Pop должен удалить cookie
	cleared := w2.Result().Cookies()
	if len(cleared) == 0 || cleared[0].MaxAge != -1 {
		t.Error("Pop должен удалять flash cookie")
	}
}

// TestFlashPopWithoutCookie проверяет чтение при отсутствии сообщения.
func TestFlashPopWithoutCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/tenants", nil)
	w := httptest.NewRecorder()

	if got := Pop(w, req); got != "" {
		t.Errorf("ожидалась пустая строка, получено %q", got)
	}
}

// TestFlashPopCorrupted проверяет чтение повреждённого значения.
func TestFlashPopCorrupted(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/tenants", nil)
	req.AddCookie(&http.Cookie{Name: "registry_flash", Value: "%%%not-base64%%%"})

	w := httptest.NewRecorder()
	if got := Pop(w, req); got != "" {
		t.Errorf("ожидалась пустая строка, получено %q", got)
	}
}
