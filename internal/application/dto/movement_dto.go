package dto

import (
	"time"

	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
	"github.com/tu-usuario/almacen-escolar/internal/domain/repository"
)

// RegisterMovementRequest registro manual de un movimiento de stock.
// Para IN/OUT quantity es el delta; para ADJUSTMENT es el nuevo valor absoluto.
type RegisterMovementRequest struct {
	MaterialID string `json:"material_id" validate:"required,uuid"`
	Type       string `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity   int64  `json:"quantity" validate:"gte=0"`
	Reason     string `json:"reason" validate:"required"`
	Notes      string `json:"notes" validate:"max=500"`
}

// MovementListFilter filtros del listado global de movimientos (query params).
type MovementListFilter struct {
	PageRequest
	MaterialID string     `query:"material_id"`
	Type       string     `query:"type"`
	Reason     string     `query:"reason"`
	From       *time.Time `query:"-"` // se parsea a mano en el handler (RFC 3339)
	To         *time.Time `query:"-"`
}

// MovementResponse asiento del libro tal como lo ve la API.
type MovementResponse struct {
	ID             string    `json:"id"`
	MaterialID     string    `json:"material_id"`
	Type           string    `json:"type"`
	Quantity       int64     `json:"quantity"`
	QuantityBefore int64     `json:"quantity_before"`
	QuantityAfter  int64     `json:"quantity_after"`
	Reason         string    `json:"reason"`
	Notes          string    `json:"notes,omitempty"`
	PerformedBy    string    `json:"performed_by"`
	PerformedAt    time.Time `json:"performed_at"`
}

// NewMovementResponse mapea la entidad al DTO de salida.
func NewMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		MaterialID:     m.MaterialID,
		Type:           m.Type,
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Reason:         m.Reason,
		Notes:          m.Notes,
		PerformedBy:    m.PerformedBy,
		PerformedAt:    m.PerformedAt,
	}
}

// NewMovementResponses mapea un slice de entidades.
func NewMovementResponses(ms []entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(ms))
	for i := range ms {
		out = append(out, NewMovementResponse(&ms[i]))
	}
	return out
}

// TypeStatDTO, ReasonStatDTO, TopMaterialDTO: agregados del libro.
type TypeStatDTO struct {
	Type          string `json:"type"`
	Count         int64  `json:"count"`
	TotalQuantity int64  `json:"total_quantity"`
}

type ReasonStatDTO struct {
	Reason string `json:"reason"`
	Count  int64  `json:"count"`
}

type TopMaterialDTO struct {
	MaterialID    string `json:"material_id"`
	MaterialName  string `json:"material_name"`
	Count         int64  `json:"count"`
	TotalQuantity int64  `json:"total_quantity"`
}

// MovementStatsResponse estadísticas del libro de movimientos.
type MovementStatsResponse struct {
	Total        int64            `json:"total"`
	ByType       []TypeStatDTO    `json:"by_type"`
	ByReason     []ReasonStatDTO  `json:"by_reason"`
	TopMaterials []TopMaterialDTO `json:"top_materials"`
}

// NewMovementStatsResponse mapea los agregados del repositorio.
func NewMovementStatsResponse(s *repository.MovementStats) MovementStatsResponse {
	out := MovementStatsResponse{
		Total:        s.Total,
		ByType:       make([]TypeStatDTO, 0, len(s.ByType)),
		ByReason:     make([]ReasonStatDTO, 0, len(s.ByReason)),
		TopMaterials: make([]TopMaterialDTO, 0, len(s.TopMaterials)),
	}
	for _, t := range s.ByType {
		out.ByType = append(out.ByType, TypeStatDTO{Type: t.Type, Count: t.Count, TotalQuantity: t.TotalQuantity})
	}
	for _, r := range s.ByReason {
		out.ByReason = append(out.ByReason, ReasonStatDTO{Reason: r.Reason, Count: r.Count})
	}
	for _, m := range s.TopMaterials {
		out.TopMaterials = append(out.TopMaterials, TopMaterialDTO{
			MaterialID:    m.MaterialID,
			MaterialName:  m.MaterialName,
			Count:         m.Count,
			TotalQuantity: m.TotalQuantity,
		})
	}
	return out
}
