package entity

import "time"

// ContactMessage mensaje del formulario público de contacto.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Subject   string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}
