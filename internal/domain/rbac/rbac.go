// Пакет rbac — проверка прав доступа по роли учётной записи.
// Две роли: admin (полный доступ к реестру и отчётам) и user
// (чтение только собственной записи жильца).
package rbac

// Роли учётных записей.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// IsValidRole проверяет, является ли строка допустимой ролью.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// IsAdmin возвращает true для роли admin.
func IsAdmin(role string) bool {
	return role == RoleAdmin
}

// CanMutate определяет, разрешены ли роли мутации реестра
// (добавление/редактирование/удаление адресов и жильцов).
func CanMutate(role string) bool {
	return role == RoleAdmin
}

// CanViewReports определяет, доступны ли роли сводный отчёт
// по району и архив справок.
func CanViewReports(role string) bool {
	return role == RoleAdmin
}

// TenantScope — результат определения видимости записей жильцов.
type TenantScope int

const (
	// ScopeAll — видны все жильцы (admin).
	ScopeAll TenantScope = iota
	// ScopeOwn — виден только привязанный жилец.
	ScopeOwn
	// ScopeNone — не виден ни один жилец (user без привязки).
	ScopeNone
)

// VisibleTenants определяет охват видимости жильцов для роли и привязки.
// Для ScopeOwn второй результат — id видимого жильца.
func VisibleTenants(role string, linkedTenantID *int64) (TenantScope, int64) {
	if role == RoleAdmin {
		return ScopeAll, 0
	}
	if linkedTenantID == nil {
		return ScopeNone, 0
	}
	return ScopeOwn, *linkedTenantID
}
