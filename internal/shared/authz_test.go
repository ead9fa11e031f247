package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminHasAllCapabilities(t *testing.T) {
	for _, cap := range []Capability{CapManageProducts, CapDeleteClients, CapSell, CapReceive} {
		assert.True(t, Can(RoleAdmin, cap), string(cap))
	}
}

func TestUserCannotManageCatalog(t *testing.T) {
	assert.False(t, Can(RoleUser, CapManageProducts))
	assert.False(t, Can(RoleUser, CapDeleteClients))
	assert.True(t, Can(RoleUser, CapSell))
	assert.True(t, Can(RoleUser, CapReceive))
}

func TestUnknownRoleHasNoGrants(t *testing.T) {
	assert.False(t, Can(Role("guest"), CapSell))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleUser.Valid())
	assert.False(t, Role("root").Valid())
}
