// Пакет middleware — HTTP middleware для UI реестра.
// auth.go — проверка сессии (cookie-based).
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/zhilfond/housing-registry/internal/ui/auth"
)

// contextKey — тип для ключей контекста UI (избегаем коллизий).
type contextKey string

const (
	// ContextKeySession — данные сессии в контексте запроса.
	ContextKeySession contextKey = "session"
)

// SessionAuth — middleware для проверки аутентификации пользователей.
// Извлекает сессию из зашифрованного cookie, redirect на /login
// при отсутствии или истечении сессии.
type SessionAuth struct {
	sessionManager *auth.SessionManager
	logger         *slog.Logger
}

// NewSessionAuth создаёт новый SessionAuth middleware.
func NewSessionAuth(sessionManager *auth.SessionManager, logger *slog.Logger) *SessionAuth {
	return &SessionAuth{
		sessionManager: sessionManager,
		logger:         logger.With(slog.String("component", "session_auth_middleware")),
	}
}

// Middleware возвращает HTTP middleware для проверки сессии.
// Применяется ко всем маршрутам реестра, кроме /login, /register,
// /logout, /health/* и /metrics.
func (sa *SessionAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Извлекаем сессию из cookie
			session, err := sa.sessionManager.GetSessionFromRequest(r)
			if err != nil {
				sa.logger.Debug("Ошибка чтения сессии",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				// Повреждённый cookie — очищаем и redirect на login
				sa.sessionManager.ClearSessionCookie(w)
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			// 2. Если сессия отсутствует — redirect на login
			if session == nil {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			// 3. Истёкшая сессия — заново на login
			if session.IsExpired() {
				sa.logger.Info("Сессия истекла",
					slog.String("username", session.Username),
				)
				sa.sessionManager.ClearSessionCookie(w)
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			// 4. Помещаем сессию в контекст
			ctx := context.WithValue(r.Context(), ContextKeySession, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext извлекает SessionData из контекста запроса.
// Возвращает nil если сессия не найдена (не прошёл через SessionAuth middleware).
func SessionFromContext(ctx context.Context) *auth.SessionData {
	session, ok := ctx.Value(ContextKeySession).(*auth.SessionData)
	if !ok {
		return nil
	}
	return session
}
