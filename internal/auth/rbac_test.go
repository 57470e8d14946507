package auth

import "testing"

func identityWithRole(role Role) Identity {
	return Identity{ID: "id-1", Role: role, OrganizationID: "org-1"}
}

func TestAuthorizeEmptyRequirementPermits(t *testing.T) {
	for _, role := range []Role{RoleViewer, RoleAdmin, RoleOwner, Role("ghost")} {
		if !Authorize(identityWithRole(role)) {
			t.Fatalf("empty requirement denied role %s", role)
		}
	}
}

func TestAuthorizeMinimumOfSet(t *testing.T) {
	cases := []struct {
		role     Role
		required []Role
		want     bool
	}{
		{RoleViewer, []Role{RoleAdmin, RoleOwner}, false},
		{RoleAdmin, []Role{RoleAdmin, RoleOwner}, true},
		{RoleOwner, []Role{RoleAdmin, RoleOwner}, true},
		{RoleViewer, []Role{RoleViewer}, true},
		{RoleViewer, []Role{RoleOwner}, false},
		{RoleAdmin, []Role{RoleOwner}, false},
		{RoleOwner, []Role{RoleViewer}, true},
	}
	for _, tc := range cases {
		if got := Authorize(identityWithRole(tc.role), tc.required...); got != tc.want {
			t.Fatalf("Authorize(%s, %v)=%v, want %v", tc.role, tc.required, got, tc.want)
		}
	}
}

func TestAuthorizeUnknownRoleDenied(t *testing.T) {
	if Authorize(identityWithRole(Role("superuser")), RoleViewer) {
		t.Fatal("identity with unknown role was permitted")
	}
	// An unknown role in the requirement must not lower the bar to zero.
	if Authorize(identityWithRole(Role("ghost")), Role("phantom")) {
		t.Fatal("unknown-vs-unknown was permitted")
	}
}

func TestRoleRanks(t *testing.T) {
	if !(RoleOwner.Rank() > RoleAdmin.Rank() && RoleAdmin.Rank() > RoleViewer.Rank()) {
		t.Fatal("role order violated")
	}
	if RoleViewer.Rank() != 1 || Role("nope").Rank() != 0 {
		t.Fatal("unexpected ranks")
	}
}

func TestParseRole(t *testing.T) {
	if role, ok := ParseRole("  Admin "); !ok || role != RoleAdmin {
		t.Fatalf("ParseRole(Admin)=%s,%v", role, ok)
	}
	if _, ok := ParseRole("root"); ok {
		t.Fatal("expected unknown role to be rejected")
	}
}
