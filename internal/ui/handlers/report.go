// report.go — сводный отчёт по району.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/zhilfond/housing-registry/internal/service"
	"github.com/zhilfond/housing-registry/internal/ui/flash"
	"github.com/zhilfond/housing-registry/internal/ui/pages"
)

// ReportHandler — обработчик страницы отчёта по району.
type ReportHandler struct {
	reports *service.ReportService
	logger  *slog.Logger
}

// NewReportHandler создаёт новый ReportHandler.
func NewReportHandler(reports *service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger.With(slog.String("component", "ui.report")),
	}
}

// HandleReport — GET /district_report?sort_street=... (admin).
func (h *ReportHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	session, ok := requireReports(w, r)
	if !ok {
		return
	}

	report, err := h.reports.BuildDistrictReport(r.Context(), r.URL.Query().Get("sort_street"))
	if err != nil {
		h.logger.Error("Ошибка построения отчёта", slog.String("error", err.Error()))
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	data := pages.ReportData{
		PageData: pages.PageData{
			Username: session.Username,
			Role:     session.Role,
			Flash:    flash.Pop(w, r),
		},
		Report: report,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.DistrictReport(data).Render(r.Context(), w); err != nil {
		h.logger.Error("Ошибка рендеринга отчёта", slog.String("error", err.Error()))
		http.Error(w, "Ошибка рендеринга страницы", http.StatusInternalServerError)
	}
}
