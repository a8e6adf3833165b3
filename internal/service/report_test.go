package service

import (
	"testing"

	"github.com/zhilfond/housing-registry/internal/domain/model"
)

// TestAssembleReport проверяет сборку дерева отчёта из плоских выборок.
func TestAssembleReport(t *testing.T) {
	totals := []model.StreetTotals{
		{
			Street:         model.Street{ID: 2, Name: "Beta"},
			BuildingCount:  1,
			ApartmentCount: 2,
			TenantCount:    3,
		},
		{
			Street:         model.Street{ID: 1, Name: "Alpha"},
			BuildingCount:  1,
			ApartmentCount: 1,
			TenantCount:    0,
		},
		{
			Street:         model.Street{ID: 3, Name: "Gamma"},
			BuildingCount:  0,
			ApartmentCount: 0,
			TenantCount:    0,
		},
	}
	buildings := []model.Building{
		{ID: 10, StreetID: 1, Number: "1"},
		{ID: 20, StreetID: 2, Number: "5"},
	}
	apartments := []model.Apartment{
		{ID: 100, BuildingID: 10, Number: "1", Area: 40},
		{ID: 200, BuildingID: 20, Number: "1", Area: 55},
		{ID: 201, BuildingID: 20, Number: "2", Area: 60},
	}
	tenants := []model.Tenant{
		{ID: 1000, ApartmentID: 200, FirstName: "Иван", LastName: "Петренко", PassportNumber: "1"},
		{ID: 1001, ApartmentID: 200, FirstName: "Мария", LastName: "Петренко", PassportNumber: "2"},
		{ID: 1002, ApartmentID: 201, FirstName: "Анна", LastName: "Ковальчук", PassportNumber: "3"},
	}

	report := assembleReport(model.SortTenantsDesc, totals, buildings, apartments, tenants)

	if report.SortKey != model.SortTenantsDesc {
		t.Errorf("неверный ключ сортировки: %q", report.SortKey)
	}
	if len(report.Streets) != 3 {
		t.Fatalf("ожидалось 3 улицы, получено %d", len(report.Streets))
	}

	// Порядок улиц задаётся выборкой totals, сборка его не меняет.
	for i, want := range []string{"Beta", "Alpha", "Gamma"} {
		if got := report.Streets[i].Street.Name; got != want {
			t.Errorf("улица %d: получено %q, ожидалось %q", i, got, want)
		}
	}

	beta := report.Streets[0]
	if beta.BuildingCount != 1 || beta.ApartmentCount != 2 || beta.TotalTenants != 3 {
		t.Errorf("неверные счётчики Beta: %d/%d/%d",
			beta.BuildingCount, beta.ApartmentCount, beta.TotalTenants)
	}
	if len(beta.Buildings) != 1 {
		t.Fatalf("ожидался 1 дом на Beta, получено %d", len(beta.Buildings))
	}
	betaBuilding := beta.Buildings[0]
	if betaBuilding.ApartmentCount != 2 || len(betaBuilding.Apartments) != 2 {
		t.Fatalf("ожидалось 2 квартиры в доме, получено %d", len(betaBuilding.Apartments))
	}
	if !betaBuilding.Apartments[0].IsOccupied || len(betaBuilding.Apartments[0].Tenants) != 2 {
		t.Errorf("квартира 1 дома 5 должна быть занята двумя жильцами")
	}

	alpha := report.Streets[1]
	if len(alpha.Buildings) != 1 || len(alpha.Buildings[0].Apartments) != 1 {
		t.Fatalf("неверное дерево Alpha")
	}
	if alpha.Buildings[0].Apartments[0].IsOccupied {
		t.Errorf("пустая квартира не должна быть занята")
	}

	gamma := report.Streets[2]
	if len(gamma.Buildings) != 0 {
		t.Errorf("улица без домов должна остаться в отчёте пустой")
	}
}

// TestBuildDistrictReportNormalizesSortKey проверяет, что недопустимый
// ключ сортировки заменяется ключом по умолчанию.
func TestBuildDistrictReportNormalizesSortKey(t *testing.T) {
	if got := model.NormalizeSortKey("drop table"); got != model.SortNameAsc {
		t.Errorf("ожидался %q, получено %q", model.SortNameAsc, got)
	}
	if got := model.NormalizeSortKey(""); got != model.SortNameAsc {
		t.Errorf("ожидался %q, получено %q", model.SortNameAsc, got)
	}
	if got := model.NormalizeSortKey(model.SortBuildingsDesc); got != model.SortBuildingsDesc {
		t.Errorf("допустимый ключ не должен заменяться, получено %q", got)
	}
}
