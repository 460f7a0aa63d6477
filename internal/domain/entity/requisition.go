package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/tu-usuario/almacen-escolar/internal/domain"
)

// Estados de una requisición. pending es el único estado no terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Prioridades de atención.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// PriorityRank orden de la cola de pendientes (mayor = más urgente).
var PriorityRank = map[string]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
	PriorityUrgent: 4,
}

// ValidStatus indica si el estado es uno de los reconocidos.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// ValidPriority indica si la prioridad es una de las reconocidas.
func ValidPriority(p string) bool {
	_, ok := PriorityRank[p]
	return ok
}

// Requisition solicitud de material de un profesor. Máquina de estados:
// pending → approved | rejected. Los estados terminales son inmutables.
type Requisition struct {
	ID              string
	RequesterID     string
	MaterialID      string
	Quantity        int64
	Status          string
	Priority        string
	Justification   string
	Notes           string
	NeededBy        *time.Time
	ApprovedBy      *string // quien decidió (aprobó o rechazó)
	DecidedAt       *time.Time
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Pending indica si la requisición sigue abierta.
func (r *Requisition) Pending() bool {
	return r.Status == StatusPending
}

// Approve marca la requisición como aprobada. Solo es válida desde pending.
func (r *Requisition) Approve(approverID string, at time.Time) error {
	if r.Status != StatusPending {
		return fmt.Errorf("%w: no se puede aprobar una requisición %s", domain.ErrInvalidTransition, r.Status)
	}
	r.Status = StatusApproved
	r.ApprovedBy = &approverID
	r.DecidedAt = &at
	return nil
}

// Reject marca la requisición como rechazada. El motivo es obligatorio.
func (r *Requisition) Reject(approverID, reason string, at time.Time) error {
	if r.Status != StatusPending {
		return fmt.Errorf("%w: no se puede rechazar una requisición %s", domain.ErrInvalidTransition, r.Status)
	}
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: el motivo de rechazo es obligatorio", domain.ErrInvalidInput)
	}
	r.Status = StatusRejected
	r.ApprovedBy = &approverID
	r.DecidedAt = &at
	r.RejectionReason = strings.TrimSpace(reason)
	return nil
}

// EditableBy indica si el usuario puede modificar la requisición: solo el
// solicitante y solo mientras siga pendiente.
func (r *Requisition) EditableBy(userID string) bool {
	return r.Pending() && r.RequesterID == userID
}
