package entity

import "time"

// Organization representa un tenant del sistema; todas las entidades de negocio pertenecen a una.
type Organization struct {
	ID        string
	Name      string
	Email     string
	Address   string
	Phone     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultOrganizationName nombre usado cuando el registro no trae organization_name.
func DefaultOrganizationName(fullName string) string {
	return "Org-" + fullName
}
