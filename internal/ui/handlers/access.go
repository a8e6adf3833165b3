// access.go — общие проверки сессии и роли для обработчиков.
package handlers

import (
	"net/http"

	"github.com/zhilfond/housing-registry/internal/domain/rbac"
	"github.com/zhilfond/housing-registry/internal/ui/auth"
	"github.com/zhilfond/housing-registry/internal/ui/flash"
	uimiddleware "github.com/zhilfond/housing-registry/internal/ui/middleware"
)

// requireSession извлекает сессию из контекста; при отсутствии —
// redirect на /login и false.
func requireSession(w http.ResponseWriter, r *http.Request) (*auth.SessionData, bool) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return nil, false
	}
	return session, true
}

// requireAdmin дополнительно проверяет права на мутации реестра.
// Не-администратор получает flash-уведомление и redirect на /tenants.
func requireAdmin(w http.ResponseWriter, r *http.Request) (*auth.SessionData, bool) {
	session, ok := requireSession(w, r)
	if !ok {
		return nil, false
	}
	if !rbac.CanMutate(session.Role) {
		flash.Set(w, "Доступ запрещён.")
		http.Redirect(w, r, "/tenants", http.StatusFound)
		return nil, false
	}
	return session, true
}

// requireReports проверяет доступ к отчётам и архиву справок.
func requireReports(w http.ResponseWriter, r *http.Request) (*auth.SessionData, bool) {
	session, ok := requireSession(w, r)
	if !ok {
		return nil, false
	}
	if !rbac.CanViewReports(session.Role) {
		flash.Set(w, "Доступ запрещён.")
		http.Redirect(w, r, "/tenants", http.StatusFound)
		return nil, false
	}
	return session, true
}
