package shared

// Role identifies the access level of an account.
type Role string

const (
	// RoleAdmin can manage the catalog and delete clients.
	RoleAdmin Role = "admin"
	// RoleUser can sell and receive payments but not alter the catalog.
	RoleUser Role = "user"
)

// Capability names an action gated by role.
type Capability string

const (
	// CapManageProducts covers product create/update/delete.
	CapManageProducts Capability = "catalog.products.manage"
	// CapDeleteClients covers client deletion.
	CapDeleteClients Capability = "catalog.clients.delete"
	// CapSell covers cart and checkout operations.
	CapSell Capability = "sales.sell"
	// CapReceive covers receivables listing and settlement.
	CapReceive Capability = "receivables.receive"
)

var grants = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapManageProducts: true,
		CapDeleteClients:  true,
		CapSell:           true,
		CapReceive:        true,
	},
	RoleUser: {
		CapSell:    true,
		CapReceive: true,
	},
}

// Can reports whether the role grants the capability. Role checks live here
// so handlers never compare role strings directly.
func Can(role Role, cap Capability) bool {
	return grants[role][cap]
}

// Valid reports whether the role is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}
