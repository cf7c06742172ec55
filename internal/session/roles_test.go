package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleForProfile(t *testing.T) {
	tests := []struct {
		profileID int
		want      Role
	}{
		{profileID: 1, want: RoleAdministrator},
		{profileID: 2, want: RoleSupervisor},
		{profileID: 3, want: RoleStandard},
		{profileID: 4, want: RoleClient},
		{profileID: 0, want: RoleStandard},
		{profileID: 5, want: RoleStandard},
		{profileID: -1, want: RoleStandard},
		{profileID: 99, want: RoleStandard},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoleForProfile(tt.profileID), "profileID %d", tt.profileID)
	}
}

func TestRoleIn(t *testing.T) {
	candidates := []Role{RoleAdministrator, RoleSupervisor}

	assert.True(t, RoleIn(RoleAdministrator, candidates))
	assert.False(t, RoleIn(RoleClient, candidates))
	assert.False(t, RoleIn(RoleAdministrator, nil))
}
