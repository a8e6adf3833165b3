// tenants.go — список жильцов и CRUD-операции над ними.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zhilfond/housing-registry/internal/domain/rbac"
	"github.com/zhilfond/housing-registry/internal/service"
	"github.com/zhilfond/housing-registry/internal/ui/auth"
	"github.com/zhilfond/housing-registry/internal/ui/flash"
	uimiddleware "github.com/zhilfond/housing-registry/internal/ui/middleware"
	"github.com/zhilfond/housing-registry/internal/ui/pages"
)

// TenantsHandler — обработчики страниц жильцов.
type TenantsHandler struct {
	tenants   *service.TenantService
	addresses *service.AddressService
	logger    *slog.Logger
}

// NewTenantsHandler создаёт новый TenantsHandler.
func NewTenantsHandler(
	tenants *service.TenantService,
	addresses *service.AddressService,
	logger *slog.Logger,
) *TenantsHandler {
	return &TenantsHandler{
		tenants:   tenants,
		addresses: addresses,
		logger:    logger.With(slog.String("component", "ui.tenants")),
	}
}

// HandleList — GET /tenants — список жильцов с учётом роли.
func (h *TenantsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	tenants, err := h.tenants.List(r.Context(), session.Role, session.TenantID)
	if err != nil {
		h.logger.Error("Ошибка получения списка жильцов", slog.String("error", err.Error()))
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	data := pages.TenantsData{
		PageData: pages.PageData{
			Username: session.Username,
			Role:     session.Role,
			Flash:    flash.Pop(w, r),
		},
		Tenants:   tenants,
		CanMutate: rbac.CanMutate(session.Role),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Tenants(data).Render(r.Context(), w); err != nil {
		h.logger.Error("Ошибка рендеринга списка жильцов", slog.String("error", err.Error()))
		http.Error(w, "Ошибка рендеринга страницы", http.StatusInternalServerError)
	}
}

// HandleAddPage — GET /tenant/add — форма добавления жильца.
func (h *TenantsHandler) HandleAddPage(w http.ResponseWriter, r *http.Request) {
	session, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	h.renderForm(w, r, pages.TenantFormData{
		PageData: pages.PageData{Username: session.Username, Role: session.Role},
	})
}

// HandleAdd — POST /tenant/add — создание жильца.
func (h *TenantsHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	session, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	form, err := h.parseForm(r)
	if err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	if _, err := h.tenants.Create(r.Context(), form); err != nil {
		if errors.Is(err, service.ErrValidation) {
			h.renderForm(w, r, h.formData(session, 0, form, err.Error()))
			return
		}
		h.logger.Error("Ошибка создания жильца", slog.String("error", err.Error()))
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	flash.Set(w, "Жилец зарегистрирован.")
	http.Redirect(w, r, "/tenants", http.StatusFound)
}

// HandleEditPage — GET /tenant/edit/{id} — форма редактирования жильца.
func (h *TenantsHandler) HandleEditPage(w http.ResponseWriter, r *http.Request) {
	session, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	tenantID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	tenant, err := h.tenants.Get(r.Context(), tenantID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("Ошибка получения жильца", slog.String("error", err.Error()))
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	form := service.TenantForm{
		FullName:         tenant.FullName(),
		ApartmentID:      tenant.ApartmentID,
		PassportNumber:   tenant.PassportNumber,
		RegistrationDate: tenant.RegistrationDate.Format("2006-01-02"),
	}
	if tenant.PassportSeries != nil {
		form.PassportSeries = *tenant.PassportSeries
	}
	if tenant.Phone != nil {
		form.Phone = *tenant.Phone
	}

	h.renderForm(w, r, h.formData(session, tenantID, form, ""))
}

// HandleEdit — POST /tenant/edit/{id} — обновление жильца.
func (h *TenantsHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	session, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	tenantID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	form, err := h.parseForm(r)
	if err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	if err := h.tenants.Update(r.Context(), tenantID, form); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			h.renderForm(w, r, h.formData(session, tenantID, form, err.Error()))
			return
		case errors.Is(err, service.ErrNotFound):
			http.NotFound(w, r)
			return
		}
		h.logger.Error("Ошибка обновления жильца", slog.String("error", err.Error()))
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	flash.Set(w, "Данные жильца обновлены.")
	http.Redirect(w, r, "/tenants", http.StatusFound)
}

// HandleDelete — POST /tenant/delete/{id} — снятие жильца с регистрации.
func (h *TenantsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	tenantID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.tenants.Delete(r.Context(), tenantID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			http.NotFound(w, r)
			return
		case errors.Is(err, service.ErrValidation):
			flash.Set(w, err.Error())
			http.Redirect(w, r, "/tenants", http.StatusFound)
			return
		}
		h.logger.Error("Ошибка удаления жильца", slog.String("error", err.Error()))
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	flash.Set(w, "Жилец снят с регистрации.")
	http.Redirect(w, r, "/tenants", http.StatusFound)
}

// parseForm извлекает TenantForm из HTML-формы.
func (h *TenantsHandler) parseForm(r *http.Request) (service.TenantForm, error) {
	if err := r.ParseForm(); err != nil {
		return service.TenantForm{}, err
	}

	// Невыбранная квартира остаётся нулём и отсекается валидацией сервиса
	apartmentID, _ := strconv.ParseInt(r.FormValue("apartment_id"), 10, 64)

	return service.TenantForm{
		FullName:         r.FormValue("full_name"),
		ApartmentID:      apartmentID,
		PassportSeries:   r.FormValue("passport_series"),
		PassportNumber:   r.FormValue("passport_number"),
		Phone:            r.FormValue("phone"),
		RegistrationDate: r.FormValue("registration_date"),
	}, nil
}

// formData собирает данные формы жильца для повторного рендеринга.
func (h *TenantsHandler) formData(
	session *auth.SessionData,
	tenantID int64,
	form service.TenantForm,
	errMsg string,
) pages.TenantFormData {
	return pages.TenantFormData{
		PageData:         pages.PageData{Username: session.Username, Role: session.Role},
		Error:            errMsg,
		TenantID:         tenantID,
		FullName:         form.FullName,
		ApartmentID:      form.ApartmentID,
		PassportSeries:   form.PassportSeries,
		PassportNumber:   form.PassportNumber,
		Phone:            form.Phone,
		RegistrationDate: form.RegistrationDate,
	}
}

// renderForm рендерит форму жильца, подгружая варианты квартир.
func (h *TenantsHandler) renderForm(w http.ResponseWriter, r *http.Request, data pages.TenantFormData) {
	options, err := h.addresses.ListApartmentOptions(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения списка квартир", slog.String("error", err.Error()))
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}
	data.Apartments = options

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.TenantForm(data).Render(r.Context(), w); err != nil {
		h.logger.Error("Ошибка рендеринга формы жильца", slog.String("error", err.Error()))
		http.Error(w, "Ошибка рендеринга страницы", http.StatusInternalServerError)
	}
}
