package model

// Capability is a write permission checked before a request reaches a service.
type Capability string

const (
	CapSaleCreate    Capability = "sale:create"
	CapSaleReverse   Capability = "sale:reverse"
	CapProductWrite  Capability = "product:write"
	CapProductDelete Capability = "product:delete"
	CapStockAdjust   Capability = "stock:adjust"
	CapBrandWrite    Capability = "brand:write"
	CapReportView    Capability = "report:view"
	CapUserManage    Capability = "user:manage"
)

// roleCapabilities is the fixed role -> capability grant table.
var roleCapabilities = map[Role][]Capability{
	RoleAdministrator: {
		CapSaleCreate, CapSaleReverse,
		CapProductWrite, CapProductDelete, CapStockAdjust,
		CapBrandWrite, CapReportView, CapUserManage,
	},
	RoleOperator: {
		CapSaleCreate, CapSaleReverse,
		CapProductWrite, CapStockAdjust,
		CapBrandWrite, CapReportView,
	},
	RoleSeller: {
		CapSaleCreate,
	},
}

// Can reports whether the role grants the capability.
func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

// Capabilities returns the codes granted to the role.
func (r Role) Capabilities() []string {
	caps := roleCapabilities[r]
	codes := make([]string, len(caps))
	for i, c := range caps {
		codes[i] = string(c)
	}
	return codes
}
