package entity

import (
	"fmt"
	"time"

	"github.com/tu-usuario/almacen-escolar/internal/domain"
)

// Tipos de movimiento del libro de existencias.
const (
	MovementIN         = "IN"         // entrada: suma Quantity al stock
	MovementOUT        = "OUT"        // salida: resta Quantity del stock
	MovementADJUSTMENT = "ADJUSTMENT" // ajuste: fija el stock en Quantity (valor absoluto)
)

// Motivos de movimiento. Un único catálogo; ReasonsByType declara con qué
// tipos es válido cada uno.
const (
	ReasonPurchase       = "purchase"
	ReasonDonation       = "donation"
	ReasonReturn         = "return"
	ReasonRequisition    = "requisition"
	ReasonLoss           = "loss"
	ReasonExpiry         = "expiry"
	ReasonInventoryCount = "inventory_count"
	ReasonCorrection     = "correction"
	ReasonAdjustment     = "adjustment"
	ReasonOther          = "other"
)

// ReasonsByType motivos admitidos por cada tipo de movimiento.
var ReasonsByType = map[string][]string{
	MovementIN:         {ReasonPurchase, ReasonDonation, ReasonReturn, ReasonOther},
	MovementOUT:        {ReasonRequisition, ReasonLoss, ReasonExpiry, ReasonOther},
	MovementADJUSTMENT: {ReasonInventoryCount, ReasonCorrection, ReasonAdjustment, ReasonOther},
}

// ValidMovementType indica si el tipo es uno de los reconocidos.
func ValidMovementType(t string) bool {
	_, ok := ReasonsByType[t]
	return ok
}

// ValidReason indica si el motivo es válido para el tipo de movimiento dado.
func ValidReason(movType, reason string) bool {
	for _, r := range ReasonsByType[movType] {
		if r == reason {
			return true
		}
	}
	return false
}

// Movement asiento del libro de existencias. El libro es append-only: los
// movimientos nunca se modifican ni se borran; una corrección es un nuevo
// movimiento de tipo ADJUSTMENT.
type Movement struct {
	ID             string
	MaterialID     string
	Type           string
	Quantity       int64 // IN/OUT: delta (≥1); ADJUSTMENT: nuevo valor absoluto (≥0)
	QuantityBefore int64
	QuantityAfter  int64
	Reason         string
	Notes          string
	PerformedBy    string
	PerformedAt    time.Time
}

// Validate comprueba la coherencia interna del asiento antes de insertarlo.
// La aritmética antes/después debe cuadrar con el tipo; si no, el movimiento
// se rechaza con ErrInconsistentMovement y nada llega al libro.
func (m *Movement) Validate() error {
	if m.MaterialID == "" {
		return fmt.Errorf("%w: material requerido", domain.ErrInvalidInput)
	}
	if m.PerformedBy == "" {
		return fmt.Errorf("%w: usuario requerido", domain.ErrInvalidInput)
	}
	if !ValidMovementType(m.Type) {
		return fmt.Errorf("%w: tipo de movimiento %q desconocido", domain.ErrInvalidInput, m.Type)
	}
	if !ValidReason(m.Type, m.Reason) {
		return fmt.Errorf("%w: motivo %q no válido para tipo %s", domain.ErrInvalidInput, m.Reason, m.Type)
	}

	var want int64
	switch m.Type {
	case MovementIN:
		if m.Quantity < 1 {
			return fmt.Errorf("%w: la cantidad de una entrada debe ser al menos 1", domain.ErrInvalidInput)
		}
		want = m.QuantityBefore + m.Quantity
	case MovementOUT:
		if m.Quantity < 1 {
			return fmt.Errorf("%w: la cantidad de una salida debe ser al menos 1", domain.ErrInvalidInput)
		}
		want = m.QuantityBefore - m.Quantity
	case MovementADJUSTMENT:
		// Un ajuste a 0 es legítimo (vaciar la existencia tras un conteo).
		if m.Quantity < 0 {
			return fmt.Errorf("%w: un ajuste no puede fijar stock negativo", domain.ErrInvalidInput)
		}
		want = m.Quantity
	}

	if m.QuantityBefore < 0 || m.QuantityAfter < 0 {
		return fmt.Errorf("%w: existencias negativas (antes=%d, después=%d)",
			domain.ErrInconsistentMovement, m.QuantityBefore, m.QuantityAfter)
	}
	if m.QuantityAfter != want {
		return fmt.Errorf("%w: %s de %d sobre %d no produce %d",
			domain.ErrInconsistentMovement, m.Type, m.Quantity, m.QuantityBefore, m.QuantityAfter)
	}
	return nil
}
