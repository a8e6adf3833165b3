package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zhilfond/housing-registry/internal/domain/model"
	"github.com/zhilfond/housing-registry/internal/repository"
)

// ReportService строит сводный отчёт по району.
type ReportService struct {
	reports repository.ReportRepository
	logger  *slog.Logger
}

// NewReportService создаёт сервис отчётов.
func NewReportService(reports repository.ReportRepository, logger *slog.Logger) *ReportService {
	return &ReportService{
		reports: reports,
		logger:  logger.With(slog.String("component", "report_service")),
	}
}

// BuildDistrictReport материализует полное дерево района: улицы в порядке
// ключа сортировки, внутри — дома, квартиры и жильцы. Недопустимый ключ
// молча заменяется ключом по умолчанию.
func (s *ReportService) BuildDistrictReport(ctx context.Context, sortKey string) (*model.DistrictReport, error) {
	normalized := model.NormalizeSortKey(sortKey)

	totals, err := s.reports.ListStreetTotals(ctx, normalized)
	if err != nil {
		return nil, s.storageError("агрегация по улицам", err)
	}
	buildings, err := s.reports.ListBuildingsOrdered(ctx)
	if err != nil {
		return nil, s.storageError("получение домов", err)
	}
	apartments, err := s.reports.ListApartmentsOrdered(ctx)
	if err != nil {
		return nil, s.storageError("получение квартир", err)
	}
	tenants, err := s.reports.ListTenantsOrdered(ctx)
	if err != nil {
		return nil, s.storageError("получение жильцов", err)
	}

	return assembleReport(normalized, totals, buildings, apartments, tenants), nil
}

// assembleReport собирает дерево отчёта из плоских отсортированных выборок.
// Счётчики улиц берутся из SQL-агрегации, а не пересчитываются по дереву.
func assembleReport(
	sortKey string,
	totals []model.StreetTotals,
	buildings []model.Building,
	apartments []model.Apartment,
	tenants []model.Tenant,
) *model.DistrictReport {
	tenantsByApartment := make(map[int64][]model.Tenant, len(apartments))
	for _, t := range tenants {
		tenantsByApartment[t.ApartmentID] = append(tenantsByApartment[t.ApartmentID], t)
	}

	apartmentsByBuilding := make(map[int64][]model.ApartmentReport, len(buildings))
	for _, a := range apartments {
		residents := tenantsByApartment[a.ID]
		apartmentsByBuilding[a.BuildingID] = append(apartmentsByBuilding[a.BuildingID], model.ApartmentReport{
			Apartment:  a,
			Tenants:    residents,
			IsOccupied: len(residents) > 0,
		})
	}

	buildingsByStreet := make(map[int64][]model.BuildingReport, len(totals))
	for _, b := range buildings {
		apts := apartmentsByBuilding[b.ID]
		buildingsByStreet[b.StreetID] = append(buildingsByStreet[b.StreetID], model.BuildingReport{
			Building:       b,
			Apartments:     apts,
			ApartmentCount: len(apts),
		})
	}

	report := &model.DistrictReport{
		SortKey: sortKey,
		Streets: make([]model.StreetReport, 0, len(totals)),
	}
	for _, st := range totals {
		report.Streets = append(report.Streets, model.StreetReport{
			Street:         st.Street,
			Buildings:      buildingsByStreet[st.Street.ID],
			BuildingCount:  st.BuildingCount,
			ApartmentCount: st.ApartmentCount,
			TotalTenants:   st.TenantCount,
		})
	}
	return report
}

func (s *ReportService) storageError(op string, err error) error {
	s.logger.Error("Ошибка хранилища",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("%w: %s", ErrStorageUnavailable, op)
}
