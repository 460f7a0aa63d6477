package dto

import (
	"time"

	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
)

// CreateDepartmentRequest alta de departamento.
type CreateDepartmentRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateDepartmentRequest modificación parcial.
type UpdateDepartmentRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=120"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Active      *bool   `json:"active"`
}

// DepartmentResponse representación pública de un departamento.
type DepartmentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewDepartmentResponse mapea la entidad al DTO de salida.
func NewDepartmentResponse(d *entity.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Active:      d.Active,
		CreatedAt:   d.CreatedAt,
	}
}

// NewDepartmentResponses mapea un slice de entidades.
func NewDepartmentResponses(ds []entity.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(ds))
	for i := range ds {
		out = append(out, NewDepartmentResponse(&ds[i]))
	}
	return out
}
