package model

import "testing"

func TestRoleString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role Role
		want string
	}{
		{RoleArchive, "archive"},
		{RoleCategory, "category"},
		{RoleThreadListing, "thread-listing"},
		{RoleThreadDetail, "thread-detail"},
		{Role(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := tt.role.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
