package rbac

import "testing"

func TestIsValidRole(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{RoleAdmin, true},
		{RoleUser, true},
		{"", false},
		{"readonly", false},
		{"Admin", false},
	}

	for _, tc := range cases {
		if got := IsValidRole(tc.role); got != tc.want {
			t.Errorf("IsValidRole(%q) = %v, ожидается %v", tc.role, got, tc.want)
		}
	}
}

func TestCanMutate(t *testing.T) {
	if !CanMutate(RoleAdmin) {
		t.Error("admin должен иметь право на мутации")
	}
	if CanMutate(RoleUser) {
		t.Error("user не должен иметь права на мутации")
	}
	if CanMutate("") {
		t.Error("пустая роль не должна иметь прав на мутации")
	}
}

func TestVisibleTenants_Admin(t *testing.T) {
	scope, _ := VisibleTenants(RoleAdmin, nil)
	if scope != ScopeAll {
		t.Errorf("scope = %v, ожидается ScopeAll", scope)
	}
}

func TestVisibleTenants_UserLinked(t *testing.T) {
	tenantID := int64(42)
	scope, id := VisibleTenants(RoleUser, &tenantID)
	if scope != ScopeOwn {
		t.Errorf("scope = %v, ожидается ScopeOwn", scope)
	}
	if id != 42 {
		t.Errorf("id = %d, ожидается 42", id)
	}
}

func TestVisibleTenants_UserUnlinked(t *testing.T) {
	// Пользователь без привязки к жильцу не видит ни одной записи
	scope, _ := VisibleTenants(RoleUser, nil)
	if scope != ScopeNone {
		t.Errorf("scope = %v, ожидается ScopeNone", scope)
	}
}
