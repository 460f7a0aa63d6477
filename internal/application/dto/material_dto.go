package dto

import (
	"time"

	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
)

// CreateMaterialRequest alta de un material en el catálogo.
type CreateMaterialRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=120"`
	Unit            string `json:"unit" validate:"required"`
	Quantity        int64  `json:"quantity" validate:"gte=0"`
	MinimumQuantity int64  `json:"minimum_quantity" validate:"gte=0"`
	Description     string `json:"description" validate:"max=500"`
	Category        string `json:"category" validate:"required,max=80"`
}

// UpdateMaterialRequest modificación parcial; los campos nil no cambian.
// La existencia (quantity) NO se toca por aquí: solo cambia vía movimientos.
type UpdateMaterialRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=2,max=120"`
	Unit            *string `json:"unit"`
	MinimumQuantity *int64  `json:"minimum_quantity" validate:"omitempty,gte=0"`
	Description     *string `json:"description" validate:"omitempty,max=500"`
	Category        *string `json:"category" validate:"omitempty,max=80"`
}

// MaterialListFilter filtros del listado de materiales (query params).
type MaterialListFilter struct {
	PageRequest
	Search   string `query:"search"`
	Category string `query:"category"`
	Active   *bool  `query:"-"` // se parsea a mano en el handler
	LowStock bool   `query:"low_stock"`
}

// MaterialResponse representación pública de un material.
type MaterialResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Unit            string    `json:"unit"`
	Quantity        int64     `json:"quantity"`
	MinimumQuantity int64     `json:"minimum_quantity"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category"`
	Active          bool      `json:"active"`
	LowStock        bool      `json:"low_stock"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewMaterialResponse mapea la entidad al DTO de salida.
func NewMaterialResponse(m *entity.Material) MaterialResponse {
	return MaterialResponse{
		ID:              m.ID,
		Name:            m.Name,
		Unit:            m.Unit,
		Quantity:        m.Quantity,
		MinimumQuantity: m.MinimumQuantity,
		Description:     m.Description,
		Category:        m.Category,
		Active:          m.Active,
		LowStock:        m.LowStock(),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// NewMaterialResponses mapea un slice de entidades.
func NewMaterialResponses(ms []entity.Material) []MaterialResponse {
	out := make([]MaterialResponse, 0, len(ms))
	for i := range ms {
		out = append(out, NewMaterialResponse(&ms[i]))
	}
	return out
}
