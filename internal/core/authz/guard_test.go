package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shop-api/internal/domain"
)

func TestRequireAuthenticated(t *testing.T) {
	assert.ErrorIs(t, RequireAuthenticated(Anonymous()), ErrUnauthenticated)
	assert.NoError(t, RequireAuthenticated(Identity{UserID: "a"}))
}

func TestRequirePermission(t *testing.T) {
	user := Identity{UserID: "a", Permissions: []domain.Permission{domain.PermUser}}
	admin := Identity{UserID: "c", Permissions: []domain.Permission{domain.PermUser, domain.PermAdmin}}

	assert.ErrorIs(t, RequirePermission(Anonymous(), domain.PermAdmin), ErrUnauthenticated)
	assert.ErrorIs(t, RequirePermission(user, domain.PermAdmin, domain.PermPermissionUpdate), ErrForbidden)
	assert.NoError(t, RequirePermission(admin, domain.PermAdmin, domain.PermPermissionUpdate))
}

// 所有权与权限各自独立即可授权（逻辑或）
func TestRequireOwnerOrPermission_EitherAuthorizes(t *testing.T) {
	allowed := []domain.Permission{domain.PermAdmin, domain.PermItemDelete}

	tests := []struct {
		name    string
		id      Identity
		owner   string
		wantErr error
	}{
		{"owner without permission", Identity{UserID: "a", Permissions: []domain.Permission{domain.PermUser}}, "a", nil},
		{"permitted non-owner", Identity{UserID: "c", Permissions: []domain.Permission{domain.PermAdmin}}, "a", nil},
		{"owner with permission", Identity{UserID: "a", Permissions: []domain.Permission{domain.PermItemDelete}}, "a", nil},
		{"non-owner without permission", Identity{UserID: "b", Permissions: []domain.Permission{domain.PermUser}}, "a", ErrForbidden},
		{"anonymous", Anonymous(), "a", ErrUnauthenticated},
		{"anonymous against ownerless", Anonymous(), "", ErrUnauthenticated},
		{"empty owner never matches", Identity{UserID: "b"}, "", ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireOwnerOrPermission(tt.id, tt.owner, allowed...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
