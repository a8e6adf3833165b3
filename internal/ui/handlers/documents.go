// documents.go — выдача справок о жилье и доступ к архиву.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zhilfond/housing-registry/internal/domain/rbac"
	"github.com/zhilfond/housing-registry/internal/service"
	"github.com/zhilfond/housing-registry/internal/ui/flash"
	"github.com/zhilfond/housing-registry/internal/ui/pages"
)

// DocumentsHandler — обработчики справок.
type DocumentsHandler struct {
	certificates *service.CertificateService
	logger       *slog.Logger
}

// NewDocumentsHandler создаёт новый DocumentsHandler.
func NewDocumentsHandler(certificates *service.CertificateService, logger *slog.Logger) *DocumentsHandler {
	return &DocumentsHandler{
		certificates: certificates,
		logger:       logger.With(slog.String("component", "ui.documents")),
	}
}

// HandleIssue — GET /tenant/{id}/certificate — формирование справки,
// архивирование и скачивание. Обычный пользователь может получить
// справку только на собственного жильца.
func (h *DocumentsHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	tenantID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if !rbac.IsAdmin(session.Role) {
		if session.TenantID == nil || *session.TenantID != tenantID {
			flash.Set(w, "Доступ запрещён.")
			http.Redirect(w, r, "/tenants", http.StatusFound)
			return
		}
	}

	issued, err := h.certificates.Issue(r.Context(), tenantID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			http.NotFound(w, r)
			return
		case errors.Is(err, service.ErrStorageUnavailable):
			flash.Set(w, "Архив справок недоступен, попробуйте позже.")
			http.Redirect(w, r, "/tenants", http.StatusFound)
			return
		}
		h.logger.Error("Ошибка выдачи справки",
			slog.Int64("tenant_id", tenantID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", issued.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(issued.PDF)))
	if _, err := w.Write(issued.PDF); err != nil {
		h.logger.Debug("Ошибка отправки справки", slog.String("error", err.Error()))
	}
}

// HandleList — GET /certificates — архив выданных справок (admin).
func (h *DocumentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	session, ok := requireReports(w, r)
	if !ok {
		return
	}

	docs, err := h.certificates.List(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrStorageUnavailable) {
			flash.Set(w, "Архив справок недоступен, попробуйте позже.")
			http.Redirect(w, r, "/tenants", http.StatusFound)
			return
		}
		h.logger.Error("Ошибка получения архива справок", slog.String("error", err.Error()))
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	data := pages.CertificatesData{
		PageData: pages.PageData{
			Username: session.Username,
			Role:     session.Role,
			Flash:    flash.Pop(w, r),
		},
		Documents: docs,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Certificates(data).Render(r.Context(), w); err != nil {
		h.logger.Error("Ошибка рендеринга архива справок", slog.String("error", err.Error()))
		http.Error(w, "Ошибка рендеринга страницы", http.StatusInternalServerError)
	}
}

// HandleDownload — GET /certificates/{docID} — скачивание архивной справки (admin).
func (h *DocumentsHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireReports(w, r); !ok {
		return
	}

	docID := chi.URLParam(r, "docID")
	archived, err := h.certificates.Fetch(r.Context(), docID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			http.NotFound(w, r)
			return
		case errors.Is(err, service.ErrStorageUnavailable):
			flash.Set(w, "Архив справок недоступен, попробуйте позже.")
			http.Redirect(w, r, "/certificates", http.StatusFound)
			return
		}
		h.logger.Error("Ошибка скачивания справки",
			slog.String("doc_id", docID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	contentType := archived.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", archived.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(archived.Content)))
	if _, err := w.Write(archived.Content); err != nil {
		h.logger.Debug("Ошибка отправки справки", slog.String("error", err.Error()))
	}
}
