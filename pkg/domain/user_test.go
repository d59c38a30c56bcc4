package domain

import "testing"

func TestIsAdmin(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{RoleAdmin, true},
		{RoleCustomer, false},
		{"", false},
		{"Admin", false},
	}
	for _, c := range cases {
		u := User{Username: "a", Role: c.role}
		if got := u.IsAdmin(); got != c.want {
			t.Errorf("IsAdmin() with role %q = %v, want %v", c.role, got, c.want)
		}
	}
}
