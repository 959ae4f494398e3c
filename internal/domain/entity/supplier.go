package entity

import "time"

// Supplier proveedor de la organización (origen de las compras).
type Supplier struct {
	ID             string
	OrganizationID string
	Name           string
	ContactPerson  string
	Email          string
	Phone          string
	Address        string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
