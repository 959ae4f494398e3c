package dto

// CreateOperatorRequest alta de un operador en la organización del usuario.
// Si Password viene vacío se genera una.
type CreateOperatorRequest struct {
	FullName string `json:"full_name" validate:"required,min=1,max=150"`
	Phone    string `json:"phone" validate:"required,min=7,max=20"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
	Address  string `json:"address" validate:"omitempty,max=255"`
}

// OperatorCreatedResponse operador creado; Password solo viaja cuando fue generada.
type OperatorCreatedResponse struct {
	Operator UserResponse `json:"operator"`
	Password string       `json:"password,omitempty"`
}

// OperatorListQuery filtros del listado de operadores.
type OperatorListQuery struct {
	FullName   string
	Phone      string
	IsActive   *bool
	IsVerified *bool
}
