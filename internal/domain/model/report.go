package model

// Ключи сортировки сводного отчёта по району.
const (
	SortNameAsc        = "name_asc"
	SortNameDesc       = "name_desc"
	SortTenantsAsc     = "tenants_asc"
	SortTenantsDesc    = "tenants_desc"
	SortApartmentsAsc  = "apartments_asc"
	SortApartmentsDesc = "apartments_desc"
	SortBuildingsAsc   = "buildings_asc"
	SortBuildingsDesc  = "buildings_desc"
)

// NormalizeSortKey возвращает переданный ключ сортировки, если он допустим,
// иначе ключ по умолчанию name_asc.
func NormalizeSortKey(key string) string {
	switch key {
	case SortNameAsc, SortNameDesc,
		SortTenantsAsc, SortTenantsDesc,
		SortApartmentsAsc, SortApartmentsDesc,
		SortBuildingsAsc, SortBuildingsDesc:
		return key
	default:
		return SortNameAsc
	}
}

// DistrictReport — полностью материализованный сводный отчёт по району:
// улицы → дома → квартиры → жильцы с производными счётчиками.
type DistrictReport struct {
	// Ключ сортировки, применённый при построении (эхо для рендеринга)
	SortKey string
	Streets []StreetReport
}

// StreetReport — улица отчёта со своими домами и счётчиками.
type StreetReport struct {
	Street    Street
	Buildings []BuildingReport
	// Количество домов на улице
	BuildingCount int
	// Суммарное количество квартир на улице
	ApartmentCount int
	// Суммарное количество жильцов на улице (по всем квартирам)
	TotalTenants int
}

// BuildingReport — дом отчёта со своими квартирами.
type BuildingReport struct {
	Building   Building
	Apartments []ApartmentReport
	// Количество квартир в доме
	ApartmentCount int
}

// ApartmentReport — квартира отчёта со своими жильцами.
type ApartmentReport struct {
	Apartment Apartment
	Tenants   []Tenant
	// Занята ли квартира (≥1 жильца)
	IsOccupied bool
}

// StreetTotals — агрегированные счётчики улицы из SQL-запроса сортировки.
type StreetTotals struct {
	Street         Street
	BuildingCount  int
	ApartmentCount int
	TenantCount    int
}
