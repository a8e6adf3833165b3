// Пакет handlers — HTTP-обработчики UI реестра.
// auth.go — вход, регистрация и выход.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/zhilfond/housing-registry/internal/service"
	"github.com/zhilfond/housing-registry/internal/ui/auth"
	"github.com/zhilfond/housing-registry/internal/ui/flash"
	"github.com/zhilfond/housing-registry/internal/ui/pages"
)

// AuthHandler — обработчики входа, регистрации и выхода.
type AuthHandler struct {
	users          *service.UserService
	sessionManager *auth.SessionManager
	logger         *slog.Logger
}

// NewAuthHandler создаёт новый AuthHandler.
func NewAuthHandler(
	users *service.UserService,
	sessionManager *auth.SessionManager,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:          users,
		sessionManager: sessionManager,
		logger:         logger.With(slog.String("component", "ui.auth")),
	}
}

// HandleLoginPage — GET /login — страница входа.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, pages.LoginData{Flash: flash.Pop(w, r)})
}

// HandleLogin — POST /login — проверка пароля и установка сессии.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	user, err := h.users.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.renderLogin(w, r, pages.LoginData{Error: "Неверное имя пользователя или пароль."})
			return
		}
		h.logger.Error("Ошибка аутентификации", slog.String("error", err.Error()))
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	session := auth.NewSession(user.ID, user.Username, user.Role, user.TenantID)
	if err := h.sessionManager.SetSessionCookie(w, session); err != nil {
		h.logger.Error("Ошибка установки сессии", slog.String("error", err.Error()))
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/tenants", http.StatusFound)
}

// HandleRegisterPage — GET /register — страница регистрации.
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	h.renderRegister(w, r, pages.RegisterData{})
}

// HandleRegister — POST /register — создание учётной записи жильца.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	form := service.RegisterForm{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
		FullName: r.FormValue("full_name"),
	}

	if _, err := h.users.Register(r.Context(), form); err != nil {
		if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrConflict) {
			h.renderRegister(w, r, pages.RegisterData{
				Error:    err.Error(),
				Username: form.Username,
				FullName: form.FullName,
			})
			return
		}
		h.logger.Error("Ошибка регистрации", slog.String("error", err.Error()))
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	flash.Set(w, "Учётная запись создана. Войдите под своим именем.")
	http.Redirect(w, r, "/login", http.StatusFound)
}

// HandleLogout — GET /logout — очистка сессии.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessionManager.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, data pages.LoginData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Login(data).Render(r.Context(), w); err != nil {
		h.logger.Error("Ошибка рендеринга страницы входа", slog.String("error", err.Error()))
		http.Error(w, "Ошибка рендеринга страницы", http.StatusInternalServerError)
	}
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, data pages.RegisterData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Register(data).Render(r.Context(), w); err != nil {
		h.logger.Error("Ошибка рендеринга страницы регистрации", slog.String("error", err.Error()))
		http.Error(w, "Ошибка рендеринга страницы", http.StatusInternalServerError)
	}
}
