package guard

import (
	"testing"
	"time"

	"github.com/segurosnorte/adminctl/internal/session"
	"github.com/stretchr/testify/assert"
)

// fakeSessionInfo scripts the session surface the guard reads.
type fakeSessionInfo struct {
	authenticated bool
	role          session.Role
	hasRole       bool
	expiringSoon  bool
}

func (f *fakeSessionInfo) IsAuthenticated() bool { return f.authenticated }

func (f *fakeSessionInfo) Role() (session.Role, bool) { return f.role, f.hasRole }

func (f *fakeSessionInfo) IsTokenExpiringSoon(threshold time.Duration) bool {
	return f.expiringSoon
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name    string
		session fakeSessionInfo
		allowed []session.Role
		want    bool
	}{
		{
			name:    "unauthenticated is denied",
			session: fakeSessionInfo{},
			allowed: []session.Role{session.RoleAdministrator},
			want:    false,
		},
		{
			name:    "unauthenticated is denied even without role restriction",
			session: fakeSessionInfo{},
			allowed: nil,
			want:    false,
		},
		{
			name:    "wrong role is denied",
			session: fakeSessionInfo{authenticated: true, role: session.RoleClient, hasRole: true},
			allowed: []session.Role{session.RoleAdministrator},
			want:    false,
		},
		{
			name:    "authenticated without role is denied when roles required",
			session: fakeSessionInfo{authenticated: true},
			allowed: []session.Role{session.RoleAdministrator},
			want:    false,
		},
		{
			name:    "matching role is allowed",
			session: fakeSessionInfo{authenticated: true, role: session.RoleAdministrator, hasRole: true},
			allowed: []session.Role{session.RoleAdministrator},
			want:    true,
		},
		{
			name:    "any role passes without restriction",
			session: fakeSessionInfo{authenticated: true, role: session.RoleClient, hasRole: true},
			allowed: nil,
			want:    true,
		},
		{
			name:    "expiring token is advisory only",
			session: fakeSessionInfo{authenticated: true, role: session.RoleAdministrator, hasRole: true, expiringSoon: true},
			allowed: []session.Role{session.RoleAdministrator},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := RequireRoles(&tt.session, tt.allowed...)

			assert.Equal(t, tt.want, decision.Allowed)
			if !tt.want {
				assert.Equal(t, EntryPoint, decision.RedirectTo)
			}
		})
	}
}
