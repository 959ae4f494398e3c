package entity

// Capability permiso explícito sobre una familia de operaciones.
// Se resuelve una vez por request a partir del rol del token.
type Capability uint16

const (
	CapManageCatalog Capability = 1 << iota
	CapRecordSales
	CapRecordPurchases
	CapAdjustStock
	CapViewReports
	CapManageOperators
	CapManageOrganization
)

// CapabilitySet conjunto de capacidades (bitmask).
type CapabilitySet Capability

const allCapabilities = CapabilitySet(CapManageCatalog | CapRecordSales | CapRecordPurchases |
	CapAdjustStock | CapViewReports | CapManageOperators | CapManageOrganization)

// Staff y operadores trabajan el día a día pero no administran usuarios ni la organización.
const floorCapabilities = allCapabilities &^ CapabilitySet(CapManageOperators|CapManageOrganization)

// CapabilitiesFor resuelve las capacidades de un rol. Rol desconocido = ninguna.
func CapabilitiesFor(role string) CapabilitySet {
	switch role {
	case RoleAdmin, RoleManager:
		return allCapabilities
	case RoleStaff, RoleOperator:
		return floorCapabilities
	}
	return 0
}

// Has indica si el conjunto incluye la capacidad.
func (s CapabilitySet) Has(c Capability) bool {
	return Capability(s)&c == c
}

// String nombre estable de la capacidad (mensajes de error y logs).
func (c Capability) String() string {
	switch c {
	case CapManageCatalog:
		return "manage_catalog"
	case CapRecordSales:
		return "record_sales"
	case CapRecordPurchases:
		return "record_purchases"
	case CapAdjustStock:
		return "adjust_stock"
	case CapViewReports:
		return "view_reports"
	case CapManageOperators:
		return "manage_operators"
	case CapManageOrganization:
		return "manage_organization"
	}
	return "unknown"
}

// Names nombres de las capacidades incluidas, en orden de declaración.
func (s CapabilitySet) Names() []string {
	names := make([]string, 0, 7)
	for c := CapManageCatalog; c <= CapManageOrganization; c <<= 1 {
		if s.Has(c) {
			names = append(names, c.String())
		}
	}
	return names
}
