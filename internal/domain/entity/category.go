package entity

import "time"

// Category representa una categoría de productos de la organización.
type Category struct {
	ID             string
	OrganizationID string
	Name           string
	Description    string
	CreatedAt      time.Time
}

// UncategorizedLabel etiqueta de reportes para productos sin categoría.
const UncategorizedLabel = "Uncategorized"
