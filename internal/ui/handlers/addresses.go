// addresses.go — добавление, редактирование и удаление адресов.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zhilfond/housing-registry/internal/service"
	"github.com/zhilfond/housing-registry/internal/ui/auth"
	"github.com/zhilfond/housing-registry/internal/ui/flash"
	"github.com/zhilfond/housing-registry/internal/ui/pages"
)

// AddressesHandler — обработчики страниц адресов.
type AddressesHandler struct {
	addresses *service.AddressService
	logger    *slog.Logger
}

// NewAddressesHandler создаёт новый AddressesHandler.
func NewAddressesHandler(addresses *service.AddressService, logger *slog.Logger) *AddressesHandler {
	return &AddressesHandler{
		addresses: addresses,
		logger:    logger.With(slog.String("component", "ui.addresses")),
	}
}

// HandleAddPage — GET /address/add — форма добавления адреса.
func (h *AddressesHandler) HandleAddPage(w http.ResponseWriter, r *http.Request) {
	session, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	h.renderForm(w, r, pages.AddressFormData{
		PageData: pages.PageData{Username: session.Username, Role: session.Role},
	})
}

// HandleAdd — POST /address/add — создание адреса.
func (h *AddressesHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	session, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	form, err := h.parseForm(r)
	if err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	if _, err := h.addresses.AddAddress(r.Context(), form); err != nil {
		if errors.Is(err, service.ErrValidation) {
			h.renderForm(w, r, h.formData(session, 0, form, err.Error()))
			return
		}
		h.logger.Error("Ошибка добавления адреса", slog.String("error", err.Error()))
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	flash.Set(w, "Адрес добавлен.")
	http.Redirect(w, r, "/tenants", http.StatusFound)
}

// HandleEditPage — GET /address/edit/{id} — форма редактирования адреса.
func (h *AddressesHandler) HandleEditPage(w http.ResponseWriter, r *http.Request) {
	session, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	apartmentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	view, err := h.addresses.GetAddress(r.Context(), apartmentID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("Ошибка получения адреса", slog.String("error", err.Error()))
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	rooms := ""
	if view.Apartment.Rooms != nil {
		rooms = strconv.Itoa(*view.Apartment.Rooms)
	}
	h.renderForm(w, r, pages.AddressFormData{
		PageData:        pages.PageData{Username: session.Username, Role: session.Role},
		ApartmentID:     apartmentID,
		StreetName:      view.Street.Name,
		BuildingNumber:  view.Building.Number,
		ApartmentNumber: view.Apartment.Number,
		Area:            fmt.Sprintf("%.2f", view.Apartment.Area),
		Rooms:           rooms,
		OwnershipType:   view.Apartment.OwnershipType,
	})
}

// HandleEdit — POST /address/edit/{id} — обновление адреса.
func (h *AddressesHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	session, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	apartmentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	form, err := h.parseForm(r)
	if err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	if err := h.addresses.EditAddress(r.Context(), apartmentID, form); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			h.renderForm(w, r, h.formData(session, apartmentID, form, err.Error()))
			return
		case errors.Is(err, service.ErrNotFound):
			http.NotFound(w, r)
			return
		}
		h.logger.Error("Ошибка обновления адреса", slog.String("error", err.Error()))
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	flash.Set(w, "Адрес обновлён.")
	http.Redirect(w, r, "/tenants", http.StatusFound)
}

// HandleDelete — POST /address/delete/{id} — удаление адреса с каскадом.
func (h *AddressesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	apartmentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.addresses.DeleteAddress(r.Context(), apartmentID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			http.NotFound(w, r)
			return
		case errors.Is(err, service.ErrValidation):
			flash.Set(w, err.Error())
			http.Redirect(w, r, "/tenants", http.StatusFound)
			return
		}
		h.logger.Error("Ошибка удаления адреса", slog.String("error", err.Error()))
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	flash.Set(w, "Адрес удалён.")
	http.Redirect(w, r, "/tenants", http.StatusFound)
}

// parseForm извлекает AddressForm из HTML-формы.
func (h *AddressesHandler) parseForm(r *http.Request) (service.AddressForm, error) {
	if err := r.ParseForm(); err != nil {
		return service.AddressForm{}, err
	}
	return service.AddressForm{
		StreetName:      r.FormValue("street_name"),
		BuildingNumber:  r.FormValue("building_number"),
		ApartmentNumber: r.FormValue("apartment_number"),
		Area:            r.FormValue("area"),
		Rooms:           r.FormValue("rooms"),
		OwnershipType:   r.FormValue("ownership_type"),
	}, nil
}

// formData собирает данные формы адреса для повторного рендеринга.
func (h *AddressesHandler) formData(
	session *auth.SessionData,
	apartmentID int64,
	form service.AddressForm,
	errMsg string,
) pages.AddressFormData {
	return pages.AddressFormData{
		PageData:        pages.PageData{Username: session.Username, Role: session.Role},
		Error:           errMsg,
		ApartmentID:     apartmentID,
		StreetName:      form.StreetName,
		BuildingNumber:  form.BuildingNumber,
		ApartmentNumber: form.ApartmentNumber,
		Area:            form.Area,
		Rooms:           form.Rooms,
		OwnershipType:   form.OwnershipType,
	}
}

func (h *AddressesHandler) renderForm(w http.ResponseWriter, r *http.Request, data pages.AddressFormData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.AddressForm(data).Render(r.Context(), w); err != nil {
		h.logger.Error("Ошибка рендеринга формы адреса", slog.String("error", err.Error()))
		http.Error(w, "Ошибка рендеринга страницы", http.StatusInternalServerError)
	}
}
