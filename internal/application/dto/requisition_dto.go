package dto

import (
	"time"

	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
	"github.com/tu-usuario/almacen-escolar/internal/domain/repository"
)

// CreateRequisitionRequest solicitud de material de un profesor.
type CreateRequisitionRequest struct {
	MaterialID    string     `json:"material_id" validate:"required,uuid"`
	Quantity      int64      `json:"quantity" validate:"required,gte=1"`
	Priority      string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Justification string     `json:"justification" validate:"required,min=5,max=500"`
	Notes         string     `json:"notes" validate:"max=500"`
	NeededBy      *time.Time `json:"needed_by"`
}

// UpdateRequisitionRequest edición del solicitante mientras está pendiente.
type UpdateRequisitionRequest struct {
	Quantity      *int64     `json:"quantity" validate:"omitempty,gte=1"`
	Priority      *string    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Justification *string    `json:"justification" validate:"omitempty,min=5,max=500"`
	Notes         *string    `json:"notes" validate:"omitempty,max=500"`
	NeededBy      *time.Time `json:"needed_by"`
}

// RejectRequisitionRequest el motivo de rechazo es obligatorio.
type RejectRequisitionRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// RequisitionListFilter filtros del listado (query params).
type RequisitionListFilter struct {
	PageRequest
	Status     string     `query:"status"`
	Priority   string     `query:"priority"`
	MaterialID string     `query:"material_id"`
	From       *time.Time `query:"-"` // se parsea a mano en el handler (RFC 3339)
	To         *time.Time `query:"-"`
}

// RequisitionResponse representación pública de una requisición.
type RequisitionResponse struct {
	ID              string     `json:"id"`
	RequesterID     string     `json:"requester_id"`
	MaterialID      string     `json:"material_id"`
	Quantity        int64      `json:"quantity"`
	Status          string     `json:"status"`
	Priority        string     `json:"priority"`
	Justification   string     `json:"justification"`
	Notes           string     `json:"notes,omitempty"`
	NeededBy        *time.Time `json:"needed_by,omitempty"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewRequisitionResponse mapea la entidad al DTO de salida.
func NewRequisitionResponse(r *entity.Requisition) RequisitionResponse {
	return RequisitionResponse{
		ID:              r.ID,
		RequesterID:     r.RequesterID,
		MaterialID:      r.MaterialID,
		Quantity:        r.Quantity,
		Status:          r.Status,
		Priority:        r.Priority,
		Justification:   r.Justification,
		Notes:           r.Notes,
		NeededBy:        r.NeededBy,
		ApprovedBy:      r.ApprovedBy,
		DecidedAt:       r.DecidedAt,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// NewRequisitionResponses mapea un slice de entidades.
func NewRequisitionResponses(rs []entity.Requisition) []RequisitionResponse {
	out := make([]RequisitionResponse, 0, len(rs))
	for i := range rs {
		out = append(out, NewRequisitionResponse(&rs[i]))
	}
	return out
}

// RequisitionStatsResponse conteos por estado y prioridad.
type RequisitionStatsResponse struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByPriority map[string]int64 `json:"by_priority"`
}

// NewRequisitionStatsResponse mapea los agregados del repositorio.
func NewRequisitionStatsResponse(s *repository.RequisitionStats) RequisitionStatsResponse {
	return RequisitionStatsResponse{
		Total:      s.Total,
		ByStatus:   s.ByStatus,
		ByPriority: s.ByPriority,
	}
}
