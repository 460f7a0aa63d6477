package dto

import (
	"time"

	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
)

// RegisterRequest alta de usuario.
type RegisterRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=120"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=8,max=72"`
	Role         string  `json:"role" validate:"required,oneof=profesor coordinador almacenista administrador"`
	DepartmentID *string `json:"department_id" validate:"omitempty,uuid"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token emitido más el perfil del usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UpdateUserRequest modificación parcial de un usuario.
type UpdateUserRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=2,max=120"`
	Role         *string `json:"role" validate:"omitempty,oneof=profesor coordinador almacenista administrador"`
	DepartmentID *string `json:"department_id" validate:"omitempty,uuid"`
	Active       *bool   `json:"active"`
}

// UserResponse perfil público (nunca incluye el hash de contraseña).
type UserResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	DepartmentID *string    `json:"department_id,omitempty"`
	Active       bool       `json:"active"`
	LastAccess   *time.Time `json:"last_access,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewUserResponse mapea la entidad al DTO de salida.
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		DepartmentID: u.DepartmentID,
		Active:       u.Active,
		LastAccess:   u.LastAccess,
		CreatedAt:    u.CreatedAt,
	}
}

// NewUserResponses mapea un slice de entidades.
func NewUserResponses(us []entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(us))
	for i := range us {
		out = append(out, NewUserResponse(&us[i]))
	}
	return out
}
