// Пакет flash — одноразовые уведомления между запросами через cookie.
// Сообщение устанавливается при redirect и читается (с удалением)
// при рендеринге следующей страницы.
package flash

import (
	"encoding/base64"
	"errors"
	"net/http"
)

// Имя cookie для flash-сообщения.
const cookieName = "registry_flash"

// Set устанавливает flash-сообщение. Значение кодируется base64,
// т.к. cookie не допускает произвольные символы.
func Set(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.URLEncoding.EncodeToString([]byte(message)),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop читает flash-сообщение из запроса и сразу удаляет cookie.
// Возвращает пустую строку, если сообщения нет или оно повреждено.
func Pop(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		if !errors.Is(err, http.ErrNoCookie) {
			clearCookie(w)
		}
		return ""
	}

	clearCookie(w)

	decoded, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return ""
	}
	return string(decoded)
}

// clearCookie удаляет flash cookie.
func clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
