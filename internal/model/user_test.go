package model

import "testing"

func TestRoleCapabilities(t *testing.T) {
	cases := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{RoleTenant, CapViewOwnBookings, true},
		{RoleTenant, CapManageOwnProperties, false},
		{RoleTenant, CapModerateAll, false},
		{RoleLandlord, CapManageOwnProperties, true},
		{RoleLandlord, CapViewOwnBookings, false},
		{RoleLandlord, CapModerateAll, false},
		{RoleAdmin, CapViewOwnBookings, true},
		{RoleAdmin, CapManageOwnProperties, true},
		{RoleAdmin, CapModerateAll, true},
		{Role("superuser"), CapViewOwnBookings, false},
	}
	for _, tc := range cases {
		if got := tc.role.Can(tc.cap); got != tc.want {
			t.Errorf("%s.Can(%v) = %v, want %v", tc.role, tc.cap, got, tc.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"tenant", "landlord", "admin"} {
		r, ok := ParseRole(valid)
		if !ok || string(r) != valid {
			t.Errorf("ParseRole(%q) = (%q, %v), want valid", valid, r, ok)
		}
	}
	for _, invalid := range []string{"", "Admin", "TENANT", "owner", "customer"} {
		if _, ok := ParseRole(invalid); ok {
			t.Errorf("ParseRole(%q) accepted, want rejected", invalid)
		}
	}
}
